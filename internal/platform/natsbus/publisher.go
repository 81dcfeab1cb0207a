// Package natsbus publishes task lifecycle events to NATS.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/phrazzld/taskboard-api/internal/events"
)

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher forwards TaskEvents to subjects of the form
// "<prefix>.task.<action>".
type Publisher struct {
	conn   Conn
	prefix string
	logger *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// Connect dials url and returns a publisher on the new connection. The
// connection reconnects indefinitely.
func Connect(url, prefix string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "nats_publisher")

	nc, err := nats.Connect(url,
		nats.Name("taskboard-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("NATS publisher connected", "url", nc.ConnectedUrl(), "subject_prefix", prefix)
	return NewPublisher(nc, prefix, logger), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		prefix: strings.Trim(prefix, "."),
		logger: logger.With("component", "nats_publisher"),
	}
}

// Subject returns the subject an event of type t is published on.
func (p *Publisher) Subject(t events.EventType) string {
	subject := "task." + t.Action()
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

// HandleEvent implements events.EventHandler.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "task event published",
		"subject", subject,
		"event_id", event.ID,
		"task_id", event.TaskID)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
