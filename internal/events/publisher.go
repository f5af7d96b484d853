package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Event types published on the identity topic.
const (
	TypeUserCreated    = "identity.user_created"
	TypeUserUpdated    = "identity.user_updated"
	TypeUserDeleted    = "identity.user_deleted"
	TypeChildLinked    = "identity.child_linked"
	TypeChildUnlinked  = "identity.child_unlinked"
	TypeCourseEnrolled = "identity.course_enrolled"
	TypeCourseDropped  = "identity.course_dropped"
)

// Event is the envelope for identity lifecycle notifications.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	UserID    string      `json:"user_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventPublisher publishes identity lifecycle events. Publishing is
// best-effort: lifecycle operations never fail because an event could not
// be delivered.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewEvent builds an event envelope with a fresh id and timestamp.
func NewEvent(eventType, userID string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// KafkaEventPublisher publishes events to a Kafka topic via watermill.
type KafkaEventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaEventPublisher, error) {
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

	return &KafkaEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("event published", "type", event.Type, "user_id", event.UserID)
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// NopEventPublisher discards all events. Used when no brokers are
// configured.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NopEventPublisher) Close() error                                   { return nil }
