// Package dialog implements the conversation state machine: wake gating,
// exit phrases, slot-filling flows, and dispatch to the classifier and the
// booking executor. All session mutation goes through the session store; the
// engine itself is stateless apart from its collaborators.
package dialog

import (
	"context"
	"strings"
	"time"

	"github.com/antoniostano/butler/internal/booking"
	"github.com/antoniostano/butler/internal/memory"
	"github.com/antoniostano/butler/internal/nlu"
	"github.com/antoniostano/butler/internal/observability"
	"github.com/antoniostano/butler/internal/session"
)

// Classifier maps one utterance to an intent and entities.
type Classifier interface {
	Classify(ctx context.Context, text string) (nlu.Classification, error)
}

// Booker fulfills a completed booking flow and ranks vendors for search.
type Booker interface {
	Book(ctx context.Context, slots map[string]string) (booking.Result, error)
	Recommend(serviceType, location string) []booking.Vendor
}

// Responder renders dialog outcomes as spoken text.
type Responder interface {
	WakeAck() string
	Farewell() string
	Greeting() string
	Thanks() string
	Pricing() string
	Help() string
	Fallback() string
	Emergency(serviceType string) string
	BookingFailed() string
	Prompt(flow session.FlowType, step string) string
	VendorSummary(serviceType string, vendors []booking.Vendor) string
}

// Response is the result of one handled utterance. SpeakText is empty when
// the turn was silently ignored (asleep session, no wake token).
type Response struct {
	SpeakText string           `json:"speak_text"`
	Outcome   string           `json:"outcome"`
	Session   *session.Session `json:"session"`
}

// Utterance outcomes reported in Response and metrics.
const (
	OutcomeIgnored          = "ignored"
	OutcomeWakeAck          = "wake_ack"
	OutcomeFarewell         = "farewell"
	OutcomeFlowPrompt       = "flow_prompt"
	OutcomeFlowReprompt     = "flow_reprompt"
	OutcomeFlowAborted      = "flow_aborted"
	OutcomeBookingConfirmed = "booking_confirmed"
	OutcomeBookingFailed    = "booking_failed"
	OutcomeSearchResults    = "search_results"
	OutcomeSmalltalk        = "smalltalk"
	OutcomeFallback         = "fallback"
)

// Options wires the engine's collaborators. History and Metrics are optional;
// everything else is required.
type Options struct {
	Sessions    *session.Store
	Classifier  Classifier
	Booker      Booker
	Responder   Responder
	History     memory.Store
	Metrics     *observability.Metrics
	WakeToken   string
	ExitPhrases []string
}

type Engine struct {
	sessions    *session.Store
	classifier  Classifier
	booker      Booker
	responder   Responder
	history     memory.Store
	metrics     *observability.Metrics
	wakeToken   string
	exitPhrases []string
}

func NewEngine(opts Options) *Engine {
	wake := strings.ToLower(strings.TrimSpace(opts.WakeToken))
	if wake == "" {
		wake = "butler"
	}
	phrases := make([]string, 0, len(opts.ExitPhrases))
	for _, p := range opts.ExitPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}
	if len(phrases) == 0 {
		phrases = []string{"goodbye", "bye", "exit", "quit", "stop", "sleep"}
	}
	return &Engine{
		sessions:    opts.Sessions,
		classifier:  opts.Classifier,
		booker:      opts.Booker,
		responder:   opts.Responder,
		history:     opts.History,
		metrics:     opts.Metrics,
		wakeToken:   wake,
		exitPhrases: phrases,
	}
}

// HandleUtterance runs one dialog turn. Turns for the same session are
// serialized on a per-session lock; different sessions proceed in parallel.
func (e *Engine) HandleUtterance(ctx context.Context, sessionID, text string, now time.Time) Response {
	release := e.sessions.Acquire(sessionID)
	defer release()

	started := time.Now()
	defer func() {
		e.observeStage("turn_total", time.Since(started))
	}()

	e.sessions.GetOrCreate(sessionID, now)
	if e.sessions.ApplyTimeout(sessionID, now) {
		e.bumpSessionEvent("timed_out")
	}

	sess, err := e.sessions.Get(sessionID)
	if err != nil {
		// Janitor raced us between create and get; treat as a fresh turn.
		sess = e.sessions.GetOrCreate(sessionID, now)
	}

	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if !sess.Awake {
		if strings.Contains(lower, e.wakeToken) {
			_ = e.sessions.Wake(sessionID, now)
			e.bumpSessionEvent("woken")
			return e.finish(ctx, sessionID, text, e.responder.WakeAck(), OutcomeWakeAck, "", now)
		}
		e.bumpUtterance(OutcomeIgnored)
		return Response{Outcome: OutcomeIgnored, Session: sess}
	}

	if e.isExitPhrase(lower) {
		if sess.ActiveFlow != nil {
			e.bumpFlowEvent(sess.ActiveFlow.Type, "cancelled")
		}
		_ = e.sessions.Sleep(sessionID, now)
		e.bumpSessionEvent("slept")
		return e.finish(ctx, sessionID, text, e.responder.Farewell(), OutcomeFarewell, "", now)
	}

	if sess.ActiveFlow != nil && !sess.ActiveFlow.Completed {
		return e.continueFlow(ctx, sessionID, sess.ActiveFlow, trimmed, text, now)
	}

	classifyStart := time.Now()
	cls, err := e.classifier.Classify(ctx, text)
	e.observeStage("classify", time.Since(classifyStart))
	if err != nil {
		e.bumpIndicator("classifier_fallback")
		return e.finish(ctx, sessionID, text, e.responder.Fallback(), OutcomeFallback, "", now)
	}

	switch cls.Intent {
	case nlu.IntentEmergency:
		return e.finish(ctx, sessionID, text, e.responder.Emergency(cls.ServiceType), OutcomeSmalltalk, cls.Intent, now)
	case nlu.IntentPricing:
		return e.finish(ctx, sessionID, text, e.responder.Pricing(), OutcomeSmalltalk, cls.Intent, now)
	case nlu.IntentGreet:
		return e.finish(ctx, sessionID, text, e.responder.Greeting(), OutcomeSmalltalk, cls.Intent, now)
	case nlu.IntentThanks:
		return e.finish(ctx, sessionID, text, e.responder.Thanks(), OutcomeSmalltalk, cls.Intent, now)
	case nlu.IntentHelp:
		return e.finish(ctx, sessionID, text, e.responder.Help(), OutcomeSmalltalk, cls.Intent, now)
	case nlu.IntentBookService, nlu.IntentFindService:
		return e.startFlow(ctx, sessionID, text, cls, now)
	default:
		return e.finish(ctx, sessionID, text, e.responder.Fallback(), OutcomeFallback, cls.Intent, now)
	}
}

// startFlow begins a booking or service-search flow. When the classifier
// already extracted a service type, that answers the first step and the flow
// starts on the second prompt.
func (e *Engine) startFlow(ctx context.Context, sessionID, userText string, cls nlu.Classification, now time.Time) Response {
	flowType := session.FlowServiceSearch
	if cls.Intent == nlu.IntentBookService || cls.ServiceType != "" {
		flowType = session.FlowBooking
	}
	def, ok := Definition(flowType)
	if !ok {
		return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFallback, cls.Intent, now)
	}

	if err := e.sessions.SetFlow(sessionID, &session.FlowState{Type: flowType}, now); err != nil {
		return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFallback, cls.Intent, now)
	}
	e.bumpFlowEvent(flowType, "started")

	step := 0
	if cls.ServiceType != "" && def.Steps[0].Slot == "service_type" {
		fs, err := e.sessions.AdvanceFlow(sessionID, "service_type", cls.ServiceType, now)
		if err != nil {
			return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFallback, cls.Intent, now)
		}
		e.bumpFlowEvent(flowType, "advanced")
		step = fs.StepIndex
	}

	prompt := e.responder.Prompt(flowType, def.Steps[step].Name)
	return e.finish(ctx, sessionID, userText, prompt, OutcomeFlowPrompt, cls.Intent, now)
}

// continueFlow consumes one slot-filling answer. Whitespace-only input
// re-prompts the current step without advancing; the terminal step hands the
// collected slots to the executor and clears the flow exactly once.
func (e *Engine) continueFlow(ctx context.Context, sessionID string, flow *session.FlowState, answer, userText string, now time.Time) Response {
	stepStart := time.Now()

	def, ok := Definition(flow.Type)
	if !ok || flow.StepIndex < 0 || flow.StepIndex >= len(def.Steps) {
		_ = e.sessions.ClearFlow(sessionID, now)
		e.bumpFlowEvent(flow.Type, "aborted")
		e.observeStage("flow_step", time.Since(stepStart))
		return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFlowAborted, "", now)
	}

	if answer == "" {
		_ = e.sessions.Touch(sessionID, now)
		e.observeStage("flow_step", time.Since(stepStart))
		prompt := e.responder.Prompt(flow.Type, def.Steps[flow.StepIndex].Name)
		return e.finish(ctx, sessionID, userText, prompt, OutcomeFlowReprompt, "", now)
	}

	fs, err := e.sessions.AdvanceFlow(sessionID, def.Steps[flow.StepIndex].Slot, answer, now)
	if err != nil {
		e.observeStage("flow_step", time.Since(stepStart))
		return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFlowAborted, "", now)
	}
	e.bumpFlowEvent(flow.Type, "advanced")

	if fs.StepIndex < len(def.Steps) {
		e.observeStage("flow_step", time.Since(stepStart))
		prompt := e.responder.Prompt(fs.Type, def.Steps[fs.StepIndex].Name)
		return e.finish(ctx, sessionID, userText, prompt, OutcomeFlowPrompt, "", now)
	}

	// Terminal step: the flow is spent whether fulfillment succeeds or not.
	_ = e.sessions.ClearFlow(sessionID, now)
	e.bumpFlowEvent(fs.Type, "completed")
	e.observeStage("flow_step", time.Since(stepStart))

	switch fs.Type {
	case session.FlowBooking:
		return e.fulfillBooking(ctx, sessionID, userText, fs.Slots, now)
	case session.FlowServiceSearch:
		vendors := e.booker.Recommend(fs.Slots["service_type"], fs.Slots["location"])
		summary := e.responder.VendorSummary(strings.ToLower(strings.TrimSpace(fs.Slots["service_type"])), vendors)
		return e.finish(ctx, sessionID, userText, summary, OutcomeSearchResults, "", now)
	default:
		return e.finish(ctx, sessionID, userText, e.responder.Fallback(), OutcomeFlowAborted, "", now)
	}
}

func (e *Engine) fulfillBooking(ctx context.Context, sessionID, userText string, slots map[string]string, now time.Time) Response {
	bookStart := time.Now()
	res, err := e.booker.Book(ctx, slots)
	e.observeStage("booking", time.Since(bookStart))

	if err != nil {
		e.bumpBookingResult("error")
		return e.finish(ctx, sessionID, userText, e.responder.BookingFailed(), OutcomeBookingFailed, "", now)
	}
	if !res.Success {
		e.bumpBookingResult("rejected")
		reply := res.Confirmation
		if reply == "" {
			reply = e.responder.BookingFailed()
		}
		return e.finish(ctx, sessionID, userText, reply, OutcomeBookingFailed, "", now)
	}
	e.bumpBookingResult("confirmed")
	return e.finish(ctx, sessionID, userText, res.Confirmation, OutcomeBookingConfirmed, "", now)
}

// finish records the exchange, persists it best-effort, and returns the final
// session snapshot.
func (e *Engine) finish(ctx context.Context, sessionID, userText, reply, outcome, intent string, now time.Time) Response {
	if reply != "" {
		_ = e.sessions.AppendExchange(sessionID, session.Exchange{
			User:   userText,
			Butler: reply,
			At:     now.UTC(),
		})
		_ = e.sessions.Touch(sessionID, now)
		if e.history != nil {
			if err := e.history.SaveExchange(ctx, memory.ExchangeRecord{
				SessionID: sessionID,
				UserText:  userText,
				ReplyText: reply,
				Intent:    intent,
			}); err != nil {
				e.bumpIndicator("memory_save_failed")
			}
		}
	}

	e.bumpUtterance(outcome)
	e.syncAwakeGauge()

	snap, err := e.sessions.Get(sessionID)
	if err != nil {
		snap = nil
	}
	return Response{SpeakText: reply, Outcome: outcome, Session: snap}
}

// isExitPhrase matches single-word phrases as whole tokens so "stop" in
// "nonstop" never ends the session; multi-word phrases match as substrings.
func (e *Engine) isExitPhrase(lower string) bool {
	tokens := tokenize(lower)
	for _, phrase := range e.exitPhrases {
		if strings.Contains(phrase, " ") {
			if strings.Contains(lower, phrase) {
				return true
			}
			continue
		}
		if tokens[phrase] {
			return true
		}
	}
	return false
}

func tokenize(lower string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		out[w] = true
	}
	return out
}

func (e *Engine) observeStage(stage string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.ObserveTurnStage(stage, d)
	}
}

func (e *Engine) bumpIndicator(name string) {
	if e.metrics != nil {
		e.metrics.ObserveTurnIndicator(name)
	}
}

func (e *Engine) bumpUtterance(outcome string) {
	if e.metrics != nil {
		e.metrics.Utterances.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) bumpSessionEvent(event string) {
	if e.metrics != nil {
		e.metrics.SessionEvents.WithLabelValues(event).Inc()
	}
}

func (e *Engine) bumpFlowEvent(flow session.FlowType, event string) {
	if e.metrics != nil {
		e.metrics.FlowEvents.WithLabelValues(string(flow), event).Inc()
	}
}

func (e *Engine) bumpBookingResult(result string) {
	if e.metrics != nil {
		e.metrics.BookingResults.WithLabelValues(result).Inc()
	}
}

func (e *Engine) syncAwakeGauge() {
	if e.metrics != nil {
		e.metrics.AwakeSessions.Set(float64(e.sessions.AwakeCount()))
	}
}
