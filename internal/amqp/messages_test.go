package amqp

import (
	"strings"
	"testing"
)

func TestLedgerEventRoundTrip(t *testing.T) {
	event := NewLedgerEvent(KindTransactionCreated, 42)

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON: %v", err)
	}
	if decoded.Kind != KindTransactionCreated {
		t.Errorf("Kind = %q, want %q", decoded.Kind, KindTransactionCreated)
	}
	if decoded.TransactionID != 42 {
		t.Errorf("TransactionID = %d, want 42", decoded.TransactionID)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestLedgerEventFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestLedgerEventWireFields(t *testing.T) {
	data, err := NewLedgerEvent(KindTransactionDeleted, 7).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	body := string(data)
	for _, field := range []string{`"kind"`, `"transaction_id"`, `"timestamp"`} {
		if !strings.Contains(body, field) {
			t.Errorf("payload %s missing field %s", body, field)
		}
	}
}
