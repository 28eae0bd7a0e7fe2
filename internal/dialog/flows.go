package dialog

import "github.com/antoniostano/butler/internal/session"

// Step is one slot-filling stage of a flow.
type Step struct {
	Name string
	Slot string
}

// FlowDefinition is the immutable description of a flow: a non-empty ordered
// list of steps with unique names. Definitions are built once and shared
// read-only across all sessions.
type FlowDefinition struct {
	Type  session.FlowType
	Steps []Step
}

var flowDefinitions = map[session.FlowType]FlowDefinition{
	session.FlowBooking: {
		Type: session.FlowBooking,
		Steps: []Step{
			{Name: "service_type", Slot: "service_type"},
			{Name: "timing", Slot: "timing"},
			{Name: "location", Slot: "location"},
			{Name: "confirm", Slot: "confirm"},
		},
	},
	session.FlowServiceSearch: {
		Type: session.FlowServiceSearch,
		Steps: []Step{
			{Name: "service_type", Slot: "service_type"},
			{Name: "location", Slot: "location"},
		},
	},
}

// Definition looks up a flow by type.
func Definition(t session.FlowType) (FlowDefinition, bool) {
	def, ok := flowDefinitions[t]
	return def, ok
}
