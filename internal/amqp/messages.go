package amqp

import (
	"encoding/json"
	"time"
)

// Entities that can appear in a record change message.
const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
	EntityLoan        = "loan"
	EntityProfile     = "profile"
)

// Actions that can appear in a record change message.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordChangeMessage is a lightweight notification that a record changed.
// It carries only the entity, action and id; consumers fetch the current
// state from their own backend.
type RecordChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordChangeMessage creates a change message stamped with the current time
func NewRecordChangeMessage(entity, action, recordID string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Entity:    entity,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON creates a message from JSON bytes
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
