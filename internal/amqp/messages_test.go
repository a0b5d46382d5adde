package amqp

import (
	"testing"
	"time"
)

func TestTransactionExportMessageRoundTrip(t *testing.T) {
	msg := NewTransactionExportMessage("3f2a9b1c-0d4e-4f6a-8b2c-1d3e5f7a9b0c")
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := TransactionExportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TransactionID != msg.TransactionID {
		t.Fatalf("transaction id = %q, want %q", decoded.TransactionID, msg.TransactionID)
	}
	if !decoded.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp drifted: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestTransactionExportMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionExportMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
