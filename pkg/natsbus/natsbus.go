// Package natsbus publishes catalog events on NATS subjects.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"zencart/internal/events"
)

// SubjectPrefix is prepended to the event type to form the subject.
const SubjectPrefix = "catalog."

// Publisher is an events.Publisher backed by a NATS connection.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("zencart"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: nc}, nil
}

// Subject returns the subject an event type is published on.
func Subject(t events.Type) string {
	return SubjectPrefix + string(t)
}

// Publish sends evt as JSON on catalog.<type>.
func (p *Publisher) Publish(ctx context.Context, evt events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.Type, err)
	}
	msg := nats.NewMsg(Subject(evt.Type))
	msg.Header.Set(nats.MsgIdHdr, evt.ID)
	msg.Data = body
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
