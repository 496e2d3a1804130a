package notify

import (
	"context"
	"log"
	"time"
)

// Event types published after a committed change
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestApproved  = "request_approved"
	EventRequestRejected  = "request_rejected"
	EventItemCreated      = "item_created"
	EventItemUpdated      = "item_updated"
	EventItemDeleted      = "item_deleted"
)

// Event is the payload every sink receives
type Event struct {
	Type       string      `json:"type" bson:"type"`
	EntityID   string      `json:"entity_id" bson:"entityID"`
	Payload    interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at" bson:"occurredAt"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType, entityID string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier delivers events to one destination
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Publisher is the post-commit side: the change is already durable, so
// delivery problems are the publisher's to handle.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Multi fans an event out to every sink and logs the ones that fail
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			log.Printf("notify: %s %s: %v", event.Type, event.EntityID, err)
		}
	}
}

// Nop discards events
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

func (Nop) Publish(context.Context, Event) {}
