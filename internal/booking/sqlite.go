package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLiteLedger persists bookings in a local SQLite database. Use ":memory:"
// for tests.
type SQLiteLedger struct {
	db *sql.DB
}

func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			vendor_name TEXT NOT NULL,
			service_type TEXT NOT NULL,
			slots TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bookings table: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) Save(ctx context.Context, b Booking) error {
	slots, err := json.Marshal(b.Slots)
	if err != nil {
		return fmt.Errorf("encoding slots: %w", err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO bookings (id, vendor_id, vendor_name, service_type, slots, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.VendorID, b.VendorName, b.ServiceType, string(slots), b.Status,
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save booking: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Get(ctx context.Context, id string) (Booking, error) {
	var b Booking
	var slots, createdAt string
	err := l.db.QueryRowContext(ctx,
		`SELECT id, vendor_id, vendor_name, service_type, slots, status, created_at
		 FROM bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.VendorID, &b.VendorName, &b.ServiceType, &slots, &b.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, fmt.Errorf("query booking: %w", err)
	}
	if err := json.Unmarshal([]byte(slots), &b.Slots); err != nil {
		return Booking{}, fmt.Errorf("decoding slots: %w", err)
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Booking{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return b, nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
