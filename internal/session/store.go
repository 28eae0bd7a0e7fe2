package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store owns every Session record and is their only writer. Collaborators
// receive clones; mutation happens through store methods under one lock.
type Store struct {
	mu              sync.RWMutex
	sessions        map[string]*Session
	turnLocks       map[string]*sync.Mutex
	timeout         time.Duration
	retention       time.Duration
	historyCapacity int
	onEvict         func(*Session)
}

// NewStore creates a session store. timeout is the wake/flow inactivity
// window, retention the much longer record eviction window.
func NewStore(timeout, retention time.Duration, historyCapacity int) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if retention < timeout {
		retention = time.Hour
	}
	if historyCapacity <= 0 {
		historyCapacity = 5
	}
	return &Store{
		sessions:        make(map[string]*Session),
		turnLocks:       make(map[string]*sync.Mutex),
		timeout:         timeout,
		retention:       retention,
		historyCapacity: historyCapacity,
	}
}

// SetEvictHook registers a callback invoked for each session removed by the
// janitor sweep.
func (s *Store) SetEvictHook(hook func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = hook
}

// Acquire takes the per-session turn lock, serializing HandleUtterance for
// one session id while leaving other sessions free. The returned func
// releases it.
func (s *Store) Acquire(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.turnLocks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.turnLocks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// GetOrCreate returns a clone of the session, creating an asleep record on
// first access.
func (s *Store) GetOrCreate(sessionID string, now time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Session{
			ID:             sessionID,
			StartedAt:      now.UTC(),
			LastActivityAt: now.UTC(),
		}
		s.sessions[sessionID] = sess
	}
	return clone(sess)
}

// Get returns a clone of an existing session.
func (s *Store) Get(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sess), nil
}

// ApplyTimeout forces a stale session asleep and drops its flow. It reports
// whether the session was expired by this call. Last activity is left
// untouched so the retention sweep still sees the true idle time.
func (s *Store) ApplyTimeout(sessionID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	if now.Sub(sess.LastActivityAt) <= s.timeout {
		return false
	}
	if !sess.Awake && sess.ActiveFlow == nil {
		return false
	}
	sess.Awake = false
	sess.ActiveFlow = nil
	return true
}

// Wake marks the session awake and refreshes its activity timestamp.
func (s *Store) Wake(sessionID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.Awake = true
	sess.LastActivityAt = now.UTC()
	return nil
}

// Sleep puts the session to sleep and discards any active flow.
func (s *Store) Sleep(sessionID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.Awake = false
	sess.ActiveFlow = nil
	sess.LastActivityAt = now.UTC()
	return nil
}

// SetFlow installs a new active flow. The session is forced awake so the
// flow-implies-awake invariant holds no matter how the caller got here.
func (s *Store) SetFlow(sessionID string, flow *FlowState, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if flow != nil && flow.Slots == nil {
		flow.Slots = make(map[string]string)
	}
	sess.ActiveFlow = flow
	if flow != nil {
		sess.Awake = true
	}
	sess.LastActivityAt = now.UTC()
	return nil
}

// AdvanceFlow writes one slot value verbatim and moves the flow forward by
// exactly one step, returning a clone of the updated state.
func (s *Store) AdvanceFlow(sessionID, slot, value string, now time.Time) (*FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.ActiveFlow == nil {
		return nil, errors.New("no active flow")
	}
	if sess.ActiveFlow.Slots == nil {
		sess.ActiveFlow.Slots = make(map[string]string)
	}
	sess.ActiveFlow.Slots[slot] = value
	sess.ActiveFlow.StepIndex++
	sess.LastActivityAt = now.UTC()
	return cloneFlow(sess.ActiveFlow), nil
}

// ClearFlow discards the active flow without touching the wake state.
func (s *Store) ClearFlow(sessionID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.ActiveFlow = nil
	sess.LastActivityAt = now.UTC()
	return nil
}

// Touch refreshes the activity timestamp.
func (s *Store) Touch(sessionID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.LastActivityAt = now.UTC()
	return nil
}

// AppendExchange records one (user, butler) exchange, evicting the oldest
// entry once the history capacity is reached.
func (s *Store) AppendExchange(sessionID string, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.History = append(sess.History, ex)
	if over := len(sess.History) - s.historyCapacity; over > 0 {
		sess.History = append([]Exchange(nil), sess.History[over:]...)
	}
	return nil
}

// Delete removes a session record outright.
func (s *Store) Delete(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.turnLocks, sessionID)
	return clone(sess), nil
}

// Count returns the number of retained session records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// AwakeCount returns how many sessions are currently awake.
func (s *Store) AwakeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sess := range s.sessions {
		if sess.Awake {
			count++
		}
	}
	return count
}

// StartJanitor sweeps sessions idle beyond the retention window. Housekeeping
// only; dialog correctness never depends on the sweep running.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(time.Now().UTC())
			}
		}
	}()
}

func (s *Store) sweep(now time.Time) {
	var evicted []*Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivityAt) <= s.retention {
			continue
		}
		evicted = append(evicted, clone(sess))
		delete(s.sessions, id)
		delete(s.turnLocks, id)
	}
	hook := s.onEvict
	s.mu.Unlock()

	if hook != nil {
		for _, sess := range evicted {
			hook(sess)
		}
	}
}

func clone(sess *Session) *Session {
	c := *sess
	c.ActiveFlow = cloneFlow(sess.ActiveFlow)
	if sess.History != nil {
		c.History = append([]Exchange(nil), sess.History...)
	}
	return &c
}

func cloneFlow(f *FlowState) *FlowState {
	if f == nil {
		return nil
	}
	c := *f
	if f.Slots != nil {
		c.Slots = make(map[string]string, len(f.Slots))
		for k, v := range f.Slots {
			c.Slots[k] = v
		}
	}
	return &c
}
