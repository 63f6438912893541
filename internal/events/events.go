package events

import (
	"context"
	"encoding/json"
	"time"
)

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one change to a collection.
type Event struct {
	Type       string    `json:"type"` // e.g. "werkzeug_updated"
	Collection string    `json:"collection"`
	ID         int       `json:"id"`
	Record     any       `json:"record,omitempty"`
	At         time.Time `json:"at"`
	Version    int       `json:"version"`
}

// New builds an event of type <entity>_<action>.
func New(entity, collection, action string, id int, record any) Event {
	return Event{
		Type:       entity + "_" + action,
		Collection: collection,
		ID:         id,
		Record:     record,
		At:         time.Now().UTC(),
		Version:    1,
	}
}

// Marshal encodes the event as the JSON envelope sent to subscribers.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers change events. Implementations must not block the request for long
// and report delivery problems themselves.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Multi fans an event out to several publishers.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, evt)
		}
	}
}
