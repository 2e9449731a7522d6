package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SAP-F-2025/exam-service/internal/config"
)

// PubSub bundles the publisher and subscriber of one transport
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	// gochannel serves both halves from one value
	shared bool
}

// Close closes both halves
func (p *PubSub) Close() error {
	pubErr := p.Publisher.Close()
	if p.shared {
		return pubErr
	}
	if err := p.Subscriber.Close(); err != nil {
		return err
	}
	return pubErr
}

// NewPubSub builds the transport selected by EVENTS_DRIVER
func NewPubSub(cfg config.EventsConfig, logger *slog.Logger) (*PubSub, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch cfg.Driver {
	case config.EventsKafka:
		publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}

		subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
			Brokers:       cfg.KafkaBrokers,
			Unmarshaler:   kafka.DefaultMarshaler{},
			ConsumerGroup: cfg.ConsumerGroup,
		}, wmLogger)
		if err != nil {
			publisher.Close()
			return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
		}
		return &PubSub{Publisher: publisher, Subscriber: subscriber}, nil

	case config.EventsGoChannel, "":
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		return &PubSub{Publisher: ch, Subscriber: ch, shared: true}, nil

	default:
		return nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
	}
}

// WatermillEventPublisher writes envelopes to a watermill publisher, one topic per event type
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewWatermillEventPublisher(publisher message.Publisher, logger *slog.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{publisher: publisher, logger: logger}
}

func (p *WatermillEventPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	event, err := NewEvent(eventType, data)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(eventType, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "Event published", "event_id", event.ID, "type", eventType)
	return nil
}

// Close is a no-op; the transport is closed through PubSub
func (p *WatermillEventPublisher) Close() error {
	return nil
}
