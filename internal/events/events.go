// Package events defines the catalog events emitted after successful writes
// and the publisher abstraction the brokers implement.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an event; it doubles as the broker routing key.
type Type string

const (
	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"
	OrderCreated   Type = "order.created"
)

// Event is the envelope published to the broker as JSON.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// New stamps a payload with a fresh ID and the current time.
func New(t Type, payload interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
