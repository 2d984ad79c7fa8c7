package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeTransactionFinalized EventType = "transaction.finalized"
)

func (t EventType) String() string { return string(t) }

// Event is implemented by everything that travels on the event bus.
type Event interface {
	Type() string
}

// EventTypes maps each event type to a constructor used when decoding
// events received from an external broker.
var EventTypes = map[EventType]func() Event{
	EventTypeTransactionFinalized: func() Event { return &TransactionFinalized{} },
}
