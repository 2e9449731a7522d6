package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handler reacts to one decoded event
type Handler func(ctx context.Context, event *Event) error

// AuditConsumer subscribes to every exam topic and writes an audit log line per event.
// Extra handlers can be attached to observe the stream.
type AuditConsumer struct {
	router   *message.Router
	logger   *slog.Logger
	handlers []Handler
}

func NewAuditConsumer(subscriber message.Subscriber, logger *slog.Logger, handlers ...Handler) (*AuditConsumer, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create event router: %w", err)
	}

	c := &AuditConsumer{router: router, logger: logger, handlers: handlers}
	for _, topic := range Topics {
		router.AddNoPublisherHandler("audit_"+topic, topic, subscriber, c.handle)
	}
	return c, nil
}

func (c *AuditConsumer) handle(msg *message.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		// malformed messages are dropped, not redelivered
		c.logger.Error("Failed to decode event", "message_id", msg.UUID, "error", err)
		return nil
	}

	c.logger.Info("Exam event",
		"event_id", event.ID,
		"type", event.Type,
		"source", event.Source,
		"timestamp", event.Timestamp)

	for _, h := range c.handlers {
		if err := h(msg.Context(), &event); err != nil {
			return err
		}
	}
	return nil
}

// Run blocks until ctx is cancelled or the router fails
func (c *AuditConsumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running is closed once all handlers are subscribed
func (c *AuditConsumer) Running() chan struct{} {
	return c.router.Running()
}

func (c *AuditConsumer) Close() error {
	return c.router.Close()
}
