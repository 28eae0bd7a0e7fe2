// Package responder turns dialog outcomes into spoken text. Flavor variants
// are chosen by a seeded RNG so tests can pin exact output; step prompts are
// always fixed.
package responder

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/antoniostano/butler/internal/booking"
	"github.com/antoniostano/butler/internal/session"
)

type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a responder. seed 0 draws a seed from the wall clock.
func New(seed int64) *Responder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

var wakeAcks = []string{
	"Yes? I'm listening.",
	"At your service. What do you need?",
	"I'm here. How can I help?",
}

var farewells = []string{
	"Goodbye! Call me whenever you need a hand.",
	"Until next time. I'll be right here.",
	"Sleeping now. Say the word when you need me.",
}

var greetings = []string{
	"Hello! I'm Butler, your personal service assistant. How can I help you today?",
	"Hi there! I can connect you with trusted service professionals. What do you need?",
	"Hello! Butler here, ready to find you reliable help. What can I do for you?",
}

var thanksReplies = []string{
	"You're welcome! Is there anything else I can help you with?",
	"Happy to help! Let me know if you need anything else.",
	"You're welcome! Feel free to ask if you need more assistance.",
}

var pricingReplies = []string{
	"Pricing depends on the specific service and requirements. Tell me what you need and I can give an estimate.",
	"Cost varies by service type and scope. What exactly needs doing? I'll provide approximate pricing.",
}

var helpReplies = []string{
	"I can find and book plumbers, electricians, cleaners, carpenters, painters, and AC repair for you. What do you need?",
	"Ask me to find or book a home service. Plumbing, electrical, cleaning, carpentry, painting, or AC repair.",
}

var fallbacks = []string{
	"I'm not sure I understand. You can ask me to find plumbers, electricians, or other home services.",
	"Sorry, I didn't catch that. Try asking for a service, like a plumber or an electrician.",
}

var bookingFailures = []string{
	"Sorry, I couldn't complete that booking. Please try again in a moment.",
	"Something went wrong while booking. Let's try again from the start.",
}

var emergencyReplies = map[string][]string{
	"plumber": {
		"I understand this is a plumbing emergency! Is there active water leaking, and where are you located?",
		"Plumbing emergency noted. I'll find emergency plumbers right away. How severe is the leak?",
	},
	"electrician": {
		"Electrical emergency! Safety first. Are there sparks or smoke? I'm finding certified electricians now.",
		"Emergency electrical situation. I'll get you certified help immediately. What exactly is happening?",
	},
	"": {
		"Emergency noted! I'm finding service providers immediately. What's happening and where are you?",
		"I'll prioritize this. Please describe the urgent situation and your location.",
	},
}

// stepPrompts are fixed per flow step so slot-filling turns are predictable.
var stepPrompts = map[session.FlowType]map[string]string{
	session.FlowBooking: {
		"service_type": "Which service would you like to book?",
		"timing":       "When would you like the service? You can say today, tomorrow, or a specific date.",
		"location":     "In which area do you need the service?",
		"confirm":      "Shall I confirm this booking?",
	},
	session.FlowServiceSearch: {
		"service_type": "What type of service are you looking for?",
		"location":     "In which area should I search?",
	},
}

func (r *Responder) WakeAck() string  { return r.pick(wakeAcks) }
func (r *Responder) Farewell() string { return r.pick(farewells) }
func (r *Responder) Greeting() string { return r.pick(greetings) }
func (r *Responder) Thanks() string   { return r.pick(thanksReplies) }
func (r *Responder) Pricing() string  { return r.pick(pricingReplies) }
func (r *Responder) Help() string     { return r.pick(helpReplies) }
func (r *Responder) Fallback() string { return r.pick(fallbacks) }

func (r *Responder) Emergency(serviceType string) string {
	variants, ok := emergencyReplies[serviceType]
	if !ok {
		variants = emergencyReplies[""]
	}
	return r.pick(variants)
}

func (r *Responder) BookingFailed() string { return r.pick(bookingFailures) }

// Prompt returns the fixed prompt for a flow step, or a generic nudge for a
// step it does not know.
func (r *Responder) Prompt(flow session.FlowType, step string) string {
	if prompts, ok := stepPrompts[flow]; ok {
		if p, ok := prompts[step]; ok {
			return p
		}
	}
	return "How can I help you?"
}

// VendorSummary renders a short spoken list of recommended vendors.
func (r *Responder) VendorSummary(serviceType string, vendors []booking.Vendor) string {
	if len(vendors) == 0 {
		return fmt.Sprintf("I couldn't find any %s services in your area right now.", spoken(serviceType))
	}
	names := make([]string, 0, len(vendors))
	for _, v := range vendors {
		names = append(names, fmt.Sprintf("%s, rated %.1f", v.Name, v.Rating))
	}
	return fmt.Sprintf("I found %d %s options near you: %s.", len(vendors), spoken(serviceType), strings.Join(names, "; "))
}

func (r *Responder) pick(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return variants[r.rng.Intn(len(variants))]
}

func spoken(serviceType string) string {
	return strings.ReplaceAll(serviceType, "_", " ")
}
