package session

import (
	"context"
	"testing"
	"time"
)

func TestGetOrCreateStartsAsleep(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 5)
	now := time.Now().UTC()

	sess := s.GetOrCreate("s1", now)
	if sess.Awake {
		t.Fatalf("new session should start asleep")
	}
	if sess.ActiveFlow != nil {
		t.Fatalf("new session should have no active flow")
	}

	again := s.GetOrCreate("s1", now.Add(time.Second))
	if !again.StartedAt.Equal(sess.StartedAt) {
		t.Fatalf("GetOrCreate should return the existing record")
	}
}

func TestApplyTimeoutClearsFlowAndWake(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 5)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)
	if err := s.Wake("s1", now); err != nil {
		t.Fatalf("Wake() error = %v", err)
	}
	if err := s.SetFlow("s1", &FlowState{Type: FlowBooking}, now); err != nil {
		t.Fatalf("SetFlow() error = %v", err)
	}

	if expired := s.ApplyTimeout("s1", now.Add(30*time.Second)); expired {
		t.Fatalf("session should not expire inside the timeout window")
	}

	if expired := s.ApplyTimeout("s1", now.Add(2*time.Minute)); !expired {
		t.Fatalf("session should expire past the timeout window")
	}
	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Awake {
		t.Fatalf("expired session should be asleep")
	}
	if got.ActiveFlow != nil {
		t.Fatalf("expired session should have no active flow")
	}
}

func TestSetFlowForcesAwake(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 5)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)

	if err := s.SetFlow("s1", &FlowState{Type: FlowBooking}, now); err != nil {
		t.Fatalf("SetFlow() error = %v", err)
	}
	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Awake {
		t.Fatalf("session with active flow must be awake")
	}
}

func TestAdvanceFlowWritesSlotAndIncrements(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 5)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)
	if err := s.SetFlow("s1", &FlowState{Type: FlowBooking}, now); err != nil {
		t.Fatalf("SetFlow() error = %v", err)
	}

	fs, err := s.AdvanceFlow("s1", "timing", "tomorrow", now)
	if err != nil {
		t.Fatalf("AdvanceFlow() error = %v", err)
	}
	if fs.StepIndex != 1 {
		t.Fatalf("StepIndex = %d, want 1", fs.StepIndex)
	}
	if fs.Slots["timing"] != "tomorrow" {
		t.Fatalf("slot timing = %q, want %q", fs.Slots["timing"], "tomorrow")
	}
}

func TestHistoryBoundFIFO(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 3)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)

	inputs := []string{"a", "b", "c", "d", "e"}
	for _, in := range inputs {
		if err := s.AppendExchange("s1", Exchange{User: in, Butler: "ok", At: now}); err != nil {
			t.Fatalf("AppendExchange(%q) error = %v", in, err)
		}
	}

	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(got.History))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got.History[i].User != want {
			t.Fatalf("history[%d].User = %q, want %q", i, got.History[i].User, want)
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	s := NewStore(time.Minute, time.Hour, 5)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)
	if err := s.SetFlow("s1", &FlowState{Type: FlowBooking, Slots: map[string]string{"a": "1"}}, now); err != nil {
		t.Fatalf("SetFlow() error = %v", err)
	}

	got, _ := s.Get("s1")
	got.ActiveFlow.Slots["a"] = "mutated"
	got.Awake = false

	fresh, _ := s.Get("s1")
	if fresh.ActiveFlow.Slots["a"] != "1" {
		t.Fatalf("store record mutated through a clone")
	}
	if !fresh.Awake {
		t.Fatalf("store wake state mutated through a clone")
	}
}

func TestJanitorEvictsIdleSessions(t *testing.T) {
	s := NewStore(10*time.Millisecond, 30*time.Millisecond, 5)
	now := time.Now().UTC()
	s.GetOrCreate("s1", now)

	evicted := make(chan string, 1)
	s.SetEvictHook(func(sess *Session) { evicted <- sess.ID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case id := <-evicted:
		if id != "s1" {
			t.Fatalf("evicted id = %q, want s1", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("janitor did not evict idle session")
	}
	if _, err := s.Get("s1"); err != ErrNotFound {
		t.Fatalf("Get() after eviction error = %v, want ErrNotFound", err)
	}
}
