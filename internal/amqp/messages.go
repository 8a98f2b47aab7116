package amqp

import (
	"encoding/json"
	"time"
)

type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionDeleted EventKind = "transaction.deleted"
	GoalContributed    EventKind = "goal.contributed"
)

// Event is the message published for every mutation downstream consumers
// care about: achievement evaluation and the sheets ledger mirror.
type Event struct {
	Kind          EventKind `json:"kind"`
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	GoalID        string    `json:"goal_id,omitempty"`
	CategoryID    string    `json:"category_id,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewEvent(kind EventKind, userID string) Event {
	return Event{Kind: kind, UserID: userID, Timestamp: time.Now()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
