package nlu

import (
	"context"
	"testing"
)

func TestClassifyServiceRequests(t *testing.T) {
	c := New()
	cases := []struct {
		text        string
		wantIntent  string
		wantService string
	}{
		{"i need a plumber", IntentFindService, "plumber"},
		{"there is a pipe leak in my kitchen", IntentFindService, "plumber"},
		{"book an electrician for the wiring", IntentBookService, "electrician"},
		{"my ac is not cooling", IntentFindService, "ac_repair"},
		{"looking to schedule a cleaning service", IntentBookService, "cleaner"},
		{"plumber please", IntentFindService, "plumber"},
		{"can you fix my furniture", IntentFindService, "carpenter"},
	}

	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", tc.text, err)
		}
		if got.Intent != tc.wantIntent {
			t.Fatalf("Classify(%q) intent = %q, want %q", tc.text, got.Intent, tc.wantIntent)
		}
		if got.ServiceType != tc.wantService {
			t.Fatalf("Classify(%q) service = %q, want %q", tc.text, got.ServiceType, tc.wantService)
		}
	}
}

func TestClassifyNonFlowIntents(t *testing.T) {
	c := New()
	cases := []struct {
		text       string
		wantIntent string
	}{
		{"hello there", IntentGreet},
		{"thanks a lot", IntentThanks},
		{"how much does it cost", IntentPricing},
		{"emergency, water everywhere", IntentEmergency},
		{"what can you do", IntentHelp},
		{"the weather is nice", IntentUnknown},
	}

	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", tc.text, err)
		}
		if got.Intent != tc.wantIntent {
			t.Fatalf("Classify(%q) intent = %q, want %q", tc.text, got.Intent, tc.wantIntent)
		}
	}
}

func TestClassifyLocation(t *testing.T) {
	c := New()
	got, err := c.Classify(context.Background(), "find a plumber in bengaluru")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Location != "bangalore" {
		t.Fatalf("location = %q, want %q", got.Location, "bangalore")
	}
}

func TestClassifyWholeWordGuard(t *testing.T) {
	c := New()
	got, err := c.Classify(context.Background(), "track my package")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.ServiceType != "" {
		t.Fatalf("service = %q, want empty (no ac inside package)", got.ServiceType)
	}
}
