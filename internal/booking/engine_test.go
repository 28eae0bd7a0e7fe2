package booking

import (
	"context"
	"strings"
	"testing"
)

func TestBookTopVendorAndLedgerRecord(t *testing.T) {
	eng := NewEngine(NewCatalog(), NewMemoryLedger())

	slots := map[string]string{
		"service_type": "plumber",
		"timing":       "tomorrow",
		"location":     "downtown",
		"confirm":      "yes",
	}
	res, err := eng.Book(context.Background(), slots)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Book() success = false, want true: %s", res.Confirmation)
	}
	if !strings.HasPrefix(res.BookingID, "BK") {
		t.Fatalf("booking id = %q, want BK prefix", res.BookingID)
	}
	if !strings.Contains(res.Confirmation, res.BookingID) {
		t.Fatalf("confirmation %q should carry the booking id", res.Confirmation)
	}

	b, err := eng.Lookup(context.Background(), res.BookingID)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if b.ServiceType != "plumber" {
		t.Fatalf("ServiceType = %q, want plumber", b.ServiceType)
	}
	if b.Slots["timing"] != "tomorrow" {
		t.Fatalf("slots not carried into record: %+v", b.Slots)
	}
	if b.Status != "confirmed" {
		t.Fatalf("Status = %q, want confirmed", b.Status)
	}
}

func TestBookUnknownServiceFails(t *testing.T) {
	eng := NewEngine(NewCatalog(), NewMemoryLedger())

	res, err := eng.Book(context.Background(), map[string]string{"service_type": "astrologer"})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if res.Success {
		t.Fatalf("Book() should fail for a service with no vendors")
	}
	if res.Confirmation == "" {
		t.Fatalf("failure should still carry user-facing text")
	}
}

func TestBookMissingServiceSlotFails(t *testing.T) {
	eng := NewEngine(NewCatalog(), NewMemoryLedger())

	res, err := eng.Book(context.Background(), map[string]string{"timing": "today"})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if res.Success {
		t.Fatalf("Book() should fail without a service_type slot")
	}
}

func TestRecommendRanking(t *testing.T) {
	c := NewCatalog()

	got := c.Recommend("plumber", "")
	if len(got) != 3 {
		t.Fatalf("len(Recommend) = %d, want 3", len(got))
	}
	// Highest rating + fastest response should rank first.
	if got[0].Name != "Premium Plumbing Services" {
		t.Fatalf("top vendor = %q, want Premium Plumbing Services", got[0].Name)
	}

	if extra := c.Recommend("astrologer", ""); extra != nil {
		t.Fatalf("Recommend for unknown service = %v, want nil", extra)
	}
}

func TestCatalogServices(t *testing.T) {
	services := NewCatalog().Services()
	if len(services) == 0 {
		t.Fatalf("catalog should list services")
	}
	for i := 1; i < len(services); i++ {
		if services[i-1] >= services[i] {
			t.Fatalf("services not in stable sorted order: %v", services)
		}
	}
}
