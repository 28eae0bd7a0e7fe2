package booking

import (
	"context"
	"strings"
	"sync"
)

// NewLedger creates a sqlite-backed ledger when a path is configured,
// otherwise an in-memory one.
func NewLedger(path string) (Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return NewMemoryLedger(), nil
	}
	return OpenSQLiteLedger(path)
}

// MemoryLedger keeps bookings in-process for local/dev use.
type MemoryLedger struct {
	mu       sync.RWMutex
	bookings map[string]Booking
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{bookings: make(map[string]Booking)}
}

func (l *MemoryLedger) Save(_ context.Context, b Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings[b.ID] = b
	return nil
}

func (l *MemoryLedger) Get(_ context.Context, id string) (Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (l *MemoryLedger) Close() error { return nil }
