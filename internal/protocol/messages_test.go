package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageUtterance(t *testing.T) {
	raw := []byte(`{"type":"client_utterance","session_id":"s1","text":"butler, find a plumber","ts_ms":123}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}

	utt, ok := msg.(ClientUtterance)
	if !ok {
		t.Fatalf("message type = %T, want ClientUtterance", msg)
	}
	if utt.SessionID != "s1" || utt.Text != "butler, find a plumber" {
		t.Fatalf("unexpected utterance: %+v", utt)
	}
	if utt.TSMs != 123 {
		t.Fatalf("TSMs = %d, want 123", utt.TSMs)
	}
}

func TestParseClientMessageAllowsEmptyUtteranceText(t *testing.T) {
	// Whitespace-only turns are meaningful to the dialog engine (re-prompt),
	// so the parser only requires a session id.
	msg, err := ParseClientMessage([]byte(`{"type":"client_utterance","session_id":"s1","text":"   "}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if _, ok := msg.(ClientUtterance); !ok {
		t.Fatalf("message type = %T, want ClientUtterance", msg)
	}
}

func TestParseClientMessageRejectsUnknownType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"wat"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageControl(t *testing.T) {
	raw := []byte(`{"type":"client_control","session_id":"s1","action":"end_session"}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}

	control, ok := msg.(ClientControl)
	if !ok {
		t.Fatalf("message type = %T, want ClientControl", msg)
	}
	if control.SessionID != "s1" || control.Action != ActionEndSession {
		t.Fatalf("unexpected client control: %+v", control)
	}
}

func TestParseClientMessageRejectsMissingSessionID(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"client_utterance","text":"hello"}`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	_, err = ParseClientMessage([]byte(`{"type":"client_control","session_id":"s1"}`))
	if err == nil {
		t.Fatalf("expected validation error for control without action")
	}
}

func BenchmarkParseClientMessageUtterance(b *testing.B) {
	raw := []byte(`{"type":"client_utterance","session_id":"s1","text":"i need an electrician in mumbai","ts_ms":123456}`)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		msg, err := ParseClientMessage(raw)
		if err != nil {
			b.Fatalf("ParseClientMessage() error = %v", err)
		}
		if _, ok := msg.(ClientUtterance); !ok {
			b.Fatalf("message type = %T, want ClientUtterance", msg)
		}
	}
}
