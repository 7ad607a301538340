package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"trsync/internal/platform/kafka/producer"
	"trsync/internal/teachers/models"
	"trsync/internal/teachers/ports"
)

// Producer is the subset of the Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaPublisher implements ports.EventPublisher on a Kafka topic. Records are
// keyed by teacher ID so every event for one teacher lands on one partition
// in commit order.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(p Producer, topic string) ports.EventPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) PublishTeacherSynchronized(ctx context.Context, event models.TeacherSynchronized) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", models.EventTypeTeacherSynchronized, err)
	}
	headers := map[string]string{"event_type": models.EventTypeTeacherSynchronized}
	if event.RequestID != "" {
		headers["request_id"] = event.RequestID
	}
	msg := &producer.Message{
		Topic:   p.topic,
		Key:     []byte(event.TeacherID.String()),
		Value:   value,
		Headers: headers,
	}
	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", models.EventTypeTeacherSynchronized, err)
	}
	return nil
}
