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
)

// WatermillPublisher adapts any watermill publisher to EventPublisher
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewWatermillPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// NewKafkaEventPublisher publishes events to a Kafka topic
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (*WatermillPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return NewWatermillPublisher(publisher, topic, logger), nil
}

// NewInProcessEventPublisher publishes to an in-memory pub/sub. Used when no
// broker is configured; the returned GoChannel can be subscribed to directly.
func NewInProcessEventPublisher(topic string, logger *slog.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return NewWatermillPublisher(pubSub, topic, logger), pubSub
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// DecodeEvent unmarshals a watermill message produced by WatermillPublisher
func DecodeEvent(msg *message.Message) (*Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &event, nil
}
