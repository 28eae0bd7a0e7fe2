package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine books the top-ranked vendor for the requested service and records
// the booking in the ledger.
type Engine struct {
	catalog *Catalog
	ledger  Ledger
	clock   func() time.Time
}

func NewEngine(catalog *Catalog, ledger Ledger) *Engine {
	return &Engine{
		catalog: catalog,
		ledger:  ledger,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// Book fulfills a completed booking flow. Slots arrive verbatim from the
// dialog; only service_type is interpreted, the rest is carried into the
// record untouched. Failure is reported in the Result, not retried.
func (e *Engine) Book(ctx context.Context, slots map[string]string) (Result, error) {
	serviceType := strings.TrimSpace(strings.ToLower(slots["service_type"]))
	if serviceType == "" {
		return Result{
			Success:      false,
			Confirmation: "I couldn't tell which service you wanted, so nothing was booked.",
		}, nil
	}

	vendors := e.catalog.Recommend(serviceType, slots["location"])
	if len(vendors) == 0 {
		return Result{
			Success:      false,
			Confirmation: fmt.Sprintf("I couldn't find any %s providers to book right now.", strings.ReplaceAll(serviceType, "_", " ")),
		}, nil
	}

	vendor := vendors[0]
	b := Booking{
		ID:          newBookingID(),
		VendorID:    vendor.ID,
		VendorName:  vendor.Name,
		ServiceType: serviceType,
		Slots:       copySlots(slots),
		Status:      "confirmed",
		CreatedAt:   e.clock(),
	}

	if err := e.ledger.Save(ctx, b); err != nil {
		return Result{}, fmt.Errorf("save booking: %w", err)
	}

	return Result{
		Success:   true,
		BookingID: b.ID,
		Confirmation: fmt.Sprintf(
			"Booking confirmed with %s! Your booking ID is %s. They will contact you within 30 minutes.",
			vendor.Name, b.ID,
		),
	}, nil
}

// Recommend exposes catalog ranking for the service search flow.
func (e *Engine) Recommend(serviceType, location string) []Vendor {
	return e.catalog.Recommend(strings.TrimSpace(strings.ToLower(serviceType)), location)
}

// Services lists the bookable service types.
func (e *Engine) Services() []string {
	return e.catalog.Services()
}

// Lookup fetches a booking record by id.
func (e *Engine) Lookup(ctx context.Context, id string) (Booking, error) {
	return e.ledger.Get(ctx, id)
}

func newBookingID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BK" + raw[:10]
}

func copySlots(slots map[string]string) map[string]string {
	out := make(map[string]string, len(slots))
	for k, v := range slots {
		out[k] = v
	}
	return out
}
