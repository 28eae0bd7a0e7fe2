package memory

import (
	"context"
	"time"
)

// ExchangeRecord stores one user utterance and the butler's reply.
type ExchangeRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserText  string    `json:"user_text"`
	ReplyText string    `json:"reply_text"`
	Intent    string    `json:"intent"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves conversational exchanges. Persistence is
// best-effort context for follow-up heuristics; dialog correctness only
// depends on the in-session history buffer.
type Store interface {
	SaveExchange(ctx context.Context, record ExchangeRecord) error
	RecentContext(ctx context.Context, sessionID string, limit int) ([]ExchangeRecord, error)
	Close() error
}
