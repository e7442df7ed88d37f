package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a ledger mutation. It doubles as the routing key.
type EventType string

const (
	EventExpenseCreated       EventType = "expense.created"
	EventExpenseDeleted       EventType = "expense.deleted"
	EventExpenseRecategorized EventType = "expense.recategorized"
	EventIncomeCreated        EventType = "income.created"
	EventIncomeDeleted        EventType = "income.deleted"
)

// IsValid returns true if the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventExpenseCreated, EventExpenseDeleted, EventExpenseRecategorized,
		EventIncomeCreated, EventIncomeDeleted:
		return true
	default:
		return false
	}
}

// LedgerEvent announces one ledger mutation. Deletions carry only the id.
type LedgerEvent struct {
	Type        EventType        `json:"type"`
	ID          string           `json:"id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Source      string           `json:"source,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(eventType EventType, id string) *LedgerEvent {
	return &LedgerEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// WithAmount sets the amount and date of a created transaction.
func (m *LedgerEvent) WithAmount(amount decimal.Decimal, date time.Time) *LedgerEvent {
	m.Amount = &amount
	m.Date = &date
	return m
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and checks a message body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event %s without id", msg.Type)
	}
	return &msg, nil
}
