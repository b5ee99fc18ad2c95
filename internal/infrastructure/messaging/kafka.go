package messaging

import (
	"context"
	"encoding/json"
	"time"

	"wrenchway-api/internal/service"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to one topic. Messages are keyed by the
// booking (or technician) id so events for one entity stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event service.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func messageKey(event service.Event) string {
	for _, field := range []string{"booking_id", "technician_id"} {
		if v, ok := event.Data[field].(string); ok && v != "" {
			return v
		}
	}
	return event.ID
}
