// Package events publishes document lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a document lifecycle notification.
type Event struct {
	ID         string    `json:"id"`
	DocType    string    `json:"doctype"`
	Name       string    `json:"name"`
	Hook       string    `json:"hook"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event with a fresh ID stamped with the current time.
func New(doctype, name, hook, outcome string) Event {
	return Event{
		ID:         uuid.New().String(),
		DocType:    doctype,
		Name:       name,
		Hook:       hook,
		Outcome:    outcome,
		OccurredAt: time.Now().UTC(),
	}
}

// RoutingKey is "<doctype slug>.<hook>", e.g. "landed_cost_voucher.before_validate".
func (e Event) RoutingKey() string {
	slug := strings.ToLower(strings.Join(strings.Fields(e.DocType), "_"))
	return slug + "." + e.Hook
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event from JSON bytes.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
