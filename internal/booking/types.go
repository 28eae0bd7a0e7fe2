// Package booking executes service bookings against a vendor catalog and
// persists them in a ledger. It is a pure collaborator of the dialog engine:
// it is handed collected slots and returns a result, never touching session
// state.
package booking

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("booking not found")

// Vendor is one service provider in the catalog.
type Vendor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	ServiceType     string  `json:"service_type"`
	Rating          float64 `json:"rating"`
	ExperienceYears int     `json:"experience_years"`
	Reviews         int     `json:"reviews"`
	ResponseTimeMin int     `json:"response_time_min"`
	PriceRange      string  `json:"price_range"`
}

// Booking is a confirmed (or failed) booking record.
type Booking struct {
	ID          string            `json:"id"`
	VendorID    string            `json:"vendor_id"`
	VendorName  string            `json:"vendor_name"`
	ServiceType string            `json:"service_type"`
	Slots       map[string]string `json:"slots"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Result is what the dialog engine speaks back to the user.
type Result struct {
	Success      bool   `json:"success"`
	BookingID    string `json:"booking_id,omitempty"`
	Confirmation string `json:"confirmation_text"`
}

// Ledger persists booking records.
type Ledger interface {
	Save(ctx context.Context, b Booking) error
	Get(ctx context.Context, id string) (Booking, error)
	Close() error
}
