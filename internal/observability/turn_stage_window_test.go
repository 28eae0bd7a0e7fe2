package observability

import "testing"

func TestTurnStageWindowSnapshot(t *testing.T) {
	w := newTurnStageWindow(8)
	w.Observe("booking", 300)
	w.Observe("booking", 500)
	w.Observe("booking", 700)
	w.ObserveIndicator("classifier_fallback")
	w.ObserveIndicator("classifier_fallback")

	snap := w.Snapshot()
	if snap.WindowSize != 8 {
		t.Fatalf("WindowSize = %d, want 8", snap.WindowSize)
	}
	if len(snap.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(snap.Stages))
	}
	s := snap.Stages[0]
	if s.Stage != "booking" {
		t.Fatalf("Stage = %q, want %q", s.Stage, "booking")
	}
	if s.Samples != 3 {
		t.Fatalf("Samples = %d, want 3", s.Samples)
	}
	if s.LastMS != 700 {
		t.Fatalf("LastMS = %.2f, want 700", s.LastMS)
	}
	if s.P50MS != 500 {
		t.Fatalf("P50MS = %.2f, want 500", s.P50MS)
	}
	if s.P95MS <= 500 || s.P95MS > 700 {
		t.Fatalf("P95MS = %.2f, want (500,700]", s.P95MS)
	}
	if s.TargetP95MS != 800 {
		t.Fatalf("TargetP95MS = %.2f, want 800", s.TargetP95MS)
	}
	if len(snap.Indicators) != 1 {
		t.Fatalf("len(Indicators) = %d, want 1", len(snap.Indicators))
	}
	if snap.Indicators[0].Name != "classifier_fallback" {
		t.Fatalf("Indicators[0].Name = %q, want %q", snap.Indicators[0].Name, "classifier_fallback")
	}
	if snap.Indicators[0].Count != 2 {
		t.Fatalf("Indicators[0].Count = %d, want %d", snap.Indicators[0].Count, 2)
	}
}

func TestTurnStageWindowWrapsAtCapacity(t *testing.T) {
	w := newTurnStageWindow(4)
	for i := 0; i < 10; i++ {
		w.Observe("classify", float64(i))
	}
	snap := w.Snapshot()
	if len(snap.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(snap.Stages))
	}
	if snap.Stages[0].Samples != 4 {
		t.Fatalf("Samples = %d, want 4", snap.Stages[0].Samples)
	}
	if snap.Stages[0].LastMS != 9 {
		t.Fatalf("LastMS = %.2f, want 9", snap.Stages[0].LastMS)
	}
}
