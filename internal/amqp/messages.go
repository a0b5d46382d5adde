package amqp

import (
	"encoding/json"
	"time"
)

// TransactionExportMessage asks the worker to copy one recorded transaction
// to the spreadsheet ledger. It carries only the id; the worker reads the
// full row from the database, so a stale message can never export stale
// data.
type TransactionExportMessage struct {
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(transactionID string) *TransactionExportMessage {
	return &TransactionExportMessage{
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionExportMessageFromJSON creates a message from JSON bytes
func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
