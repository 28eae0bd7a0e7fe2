// Package nlu provides the keyword-based utterance classifier. It is a pure
// collaborator of the dialog engine: it extracts an intent plus any service
// type and location it can recognize, and never mutates session state.
package nlu

import (
	"context"
	"strings"
)

// Intent labels produced by the classifier.
const (
	IntentFindService = "find_service"
	IntentBookService = "book_service"
	IntentGreet       = "greet"
	IntentThanks      = "thanks"
	IntentEmergency   = "emergency"
	IntentPricing     = "pricing"
	IntentHelp        = "help"
	IntentUnknown     = "unknown"
)

// Classification is the classifier result. ServiceType is empty unless a
// bookable service was recognized.
type Classification struct {
	Intent      string
	ServiceType string
	Location    string
	Confidence  float64
}

var serviceKeywords = map[string][]string{
	"plumber":     {"plumber", "plumbing", "pipe", "leak", "drain", "tap"},
	"electrician": {"electrician", "electrical", "electric", "wiring", "power", "socket", "switch"},
	"carpenter":   {"carpenter", "carpentry", "furniture", "woodwork", "cabinet"},
	"cleaner":     {"cleaner", "cleaning", "housekeeping", "maid"},
	"painter":     {"painter", "painting", "repaint"},
	"ac_repair":   {"ac", "air conditioner", "air conditioning", "cooling"},
}

var locationKeywords = map[string][]string{
	"bangalore": {"bangalore", "bengaluru", "blr"},
	"mumbai":    {"mumbai", "bombay"},
	"delhi":     {"delhi", "new delhi"},
	"chennai":   {"chennai", "madras"},
	"hyderabad": {"hyderabad", "hyd"},
}

var intentKeywords = []struct {
	intent string
	words  []string
}{
	{IntentEmergency, []string{"emergency", "urgent", "help now"}},
	{IntentBookService, []string{"book", "schedule", "appointment", "reserve"}},
	{IntentFindService, []string{"find", "search", "need", "want", "look for"}},
	{IntentPricing, []string{"price", "cost", "how much", "charge"}},
	{IntentGreet, []string{"hello", "hi", "hey", "greetings"}},
	{IntentThanks, []string{"thank", "thanks"}},
	{IntentHelp, []string{"what can you do", "help"}},
}

// Classifier maps raw utterance text to an intent and entities using fixed
// keyword tables. Deterministic and allocation-light; no retries needed.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify inspects the utterance. The context parameter exists for
// interface symmetry with remote classifiers; this implementation never
// blocks.
func (c *Classifier) Classify(_ context.Context, text string) (Classification, error) {
	lower := strings.ToLower(text)
	words := fields(lower)

	result := Classification{
		Intent:      IntentUnknown,
		ServiceType: matchService(lower, words),
		Location:    matchTable(locationKeywords, lower, words),
		Confidence:  0.9,
	}

	for _, entry := range intentKeywords {
		if containsAny(lower, words, entry.words) {
			result.Intent = entry.intent
			break
		}
	}

	// A recognized service with no verb still reads as a service request
	// ("plumber please").
	if result.Intent == IntentUnknown && result.ServiceType != "" {
		result.Intent = IntentFindService
	}

	return result, nil
}

func matchService(lower string, words map[string]bool) string {
	return matchTable(serviceKeywords, lower, words)
}

func matchTable(table map[string][]string, lower string, words map[string]bool) string {
	// Iterate keys in a fixed order so ambiguous inputs classify stably.
	for _, key := range orderedKeys(table) {
		if containsAny(lower, words, table[key]) {
			return key
		}
	}
	return ""
}

func orderedKeys(table map[string][]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	// Insertion sort; tables are tiny.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// containsAny matches multi-word keywords as substrings and single words as
// whole tokens, so "ac" never fires inside "package".
func containsAny(lower string, words map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if words[kw] {
			return true
		}
	}
	return false
}

func fields(lower string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		out[w] = true
	}
	return out
}
