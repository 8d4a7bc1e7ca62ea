package services

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventSensorReading   = "sensor.reading"
	EventHealthChanged   = "health.changed"
	EventPlantIdentified = "plant.identified"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	PotID      string    `json:"pot_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewEvent(eventType string, userID uint, potID string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		PotID:      potID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher writes events to a topic, keyed by pot so readings of a
// pot stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
			Async:                  true,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				zap.S().Warnf("kafka: "+msg, args...)
			}),
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)

	if err != nil {
		return err
	}

	key := event.PotID

	if key == "" {
		key = event.ID.String()
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// NewPublisher returns a Kafka publisher, or a no-op one without brokers.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}

	return NewKafkaPublisher(brokers, topic)
}
