package responder

import (
	"strings"
	"testing"

	"github.com/antoniostano/butler/internal/booking"
	"github.com/antoniostano/butler/internal/session"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 10; i++ {
		if got, want := a.Greeting(), b.Greeting(); got != want {
			t.Fatalf("iteration %d: %q != %q", i, got, want)
		}
	}
}

func TestVariantsComeFromTheKnownSets(t *testing.T) {
	r := New(7)
	cases := []struct {
		got  string
		pool []string
	}{
		{r.WakeAck(), wakeAcks},
		{r.Farewell(), farewells},
		{r.Thanks(), thanksReplies},
		{r.Pricing(), pricingReplies},
		{r.Help(), helpReplies},
		{r.Fallback(), fallbacks},
		{r.BookingFailed(), bookingFailures},
	}
	for _, c := range cases {
		found := false
		for _, v := range c.pool {
			if c.got == v {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%q not in its variant pool", c.got)
		}
	}
}

func TestStepPromptsAreFixed(t *testing.T) {
	r := New(0)
	for i := 0; i < 5; i++ {
		if got := r.Prompt(session.FlowBooking, "timing"); !strings.Contains(got, "When would you like") {
			t.Fatalf("timing prompt = %q", got)
		}
	}
	if got := r.Prompt(session.FlowServiceSearch, "location"); got != "In which area should I search?" {
		t.Fatalf("search location prompt = %q", got)
	}
	if got := r.Prompt(session.FlowBooking, "no_such_step"); got != "How can I help you?" {
		t.Fatalf("unknown step prompt = %q", got)
	}
}

func TestEmergencyFallsBackToGenericReply(t *testing.T) {
	r := New(3)
	got := r.Emergency("carpenter")
	found := false
	for _, v := range emergencyReplies[""] {
		if got == v {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("unknown service should use the generic emergency pool, got %q", got)
	}
}

func TestVendorSummary(t *testing.T) {
	r := New(1)

	if got := r.VendorSummary("ac_repair", nil); !strings.Contains(got, "ac repair") {
		t.Fatalf("empty summary = %q", got)
	}

	vendors := []booking.Vendor{
		{Name: "Sparkle Home Cleaning", Rating: 4.6},
		{Name: "Deep Clean Crew", Rating: 4.4},
	}
	got := r.VendorSummary("cleaner", vendors)
	if !strings.Contains(got, "2 cleaner options") {
		t.Fatalf("summary = %q", got)
	}
	if !strings.Contains(got, "Sparkle Home Cleaning, rated 4.6") {
		t.Fatalf("summary missing vendor detail: %q", got)
	}
}
