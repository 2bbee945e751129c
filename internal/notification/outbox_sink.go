package notification

import (
	"context"
	"encoding/json"

	"go-incident-tracker/internal/messaging/kafka"

	"github.com/google/uuid"
)

const AggregateEmployee = "employee"

// OutboxSink enqueues messages in the outbox table; the worker relays them to
// Kafka and the consumer performs the actual delivery.
type OutboxSink struct {
	outbox kafka.OutboxRepository
	topic  string
}

func NewOutboxSink(outbox kafka.OutboxRepository, topic string) *OutboxSink {
	return &OutboxSink{outbox: outbox, topic: topic}
}

func (s *OutboxSink) Send(ctx context.Context, msg Message) error {
	event := msg.ToEvent()
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     msg.RequestID,
		AggregateType: AggregateEmployee,
		AggregateID:   msg.EmployeeID,
		EventType:     event.EventType,
		Topic:         s.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
