package session

import "time"

// FlowType names a slot-filling conversation flow.
type FlowType string

const (
	FlowBooking       FlowType = "booking_flow"
	FlowServiceSearch FlowType = "service_search_flow"
)

// FlowState tracks progress through a single flow instance. The step index
// only moves forward; cancellation discards the whole FlowState instead of
// rewinding it.
type FlowState struct {
	Type      FlowType          `json:"flow_type"`
	StepIndex int               `json:"current_step_index"`
	Slots     map[string]string `json:"collected_slots"`
	Completed bool              `json:"completed"`
}

// Exchange is one user utterance paired with the butler's spoken reply.
type Exchange struct {
	User   string    `json:"user"`
	Butler string    `json:"butler"`
	At     time.Time `json:"at"`
}

// Session is the per-conversation record: wake status, active flow, and a
// bounded history of recent exchanges. A session can only hold an active
// flow while awake.
type Session struct {
	ID             string     `json:"session_id"`
	Awake          bool       `json:"awake"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	ActiveFlow     *FlowState `json:"active_flow,omitempty"`
	History        []Exchange `json:"history"`
}

// CreateRequest defines the payload for explicitly creating a session.
type CreateRequest struct {
	SessionID string `json:"session_id"`
}

// CreateResponse returns created session metadata.
type CreateResponse struct {
	SessionID      string    `json:"session_id"`
	Awake          bool      `json:"awake"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	TimeoutMS      int64     `json:"session_timeout_ms"`
}
