package dialog

import (
	"testing"

	"github.com/antoniostano/butler/internal/session"
)

func TestFlowDefinitionsAreWellFormed(t *testing.T) {
	for _, ft := range []session.FlowType{session.FlowBooking, session.FlowServiceSearch} {
		def, ok := Definition(ft)
		if !ok {
			t.Fatalf("no definition for %q", ft)
		}
		if len(def.Steps) == 0 {
			t.Fatalf("%q has no steps", ft)
		}
		seen := map[string]bool{}
		for _, step := range def.Steps {
			if step.Name == "" || step.Slot == "" {
				t.Fatalf("%q has an unnamed step: %+v", ft, step)
			}
			if seen[step.Name] {
				t.Fatalf("%q repeats step name %q", ft, step.Name)
			}
			seen[step.Name] = true
		}
	}
}

func TestDefinitionUnknownFlow(t *testing.T) {
	if _, ok := Definition(session.FlowType("weather_flow")); ok {
		t.Fatalf("unexpected definition for an unknown flow type")
	}
}
