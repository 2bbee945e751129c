package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-incident-tracker/internal/messaging/kafka"
	kafkaMock "go-incident-tracker/internal/messaging/kafka/mock"
	"go-incident-tracker/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestRelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ClaimPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o1", RequestID: "REQ-9", AggregateID: "emp-1", EventType: "notification_requested", Topic: "t", Payload: []byte("{}")},
		}, nil)
		repo.EXPECT().MarkSent(ctx, "o1").Return(nil)

		res, err := producer.RelayBatch(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, producer.BatchResult{Claimed: 1, Sent: 1}, res)
		assert.Len(t, writer.messages, 1)
		assert.Equal(t, "emp-1", string(writer.messages[0].Key))
		assert.Len(t, writer.messages[0].Headers, 3)
	})

	t.Run("publish failure marks failed and continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failKey: "emp-bad"}

		repo.EXPECT().ClaimPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o1", AggregateID: "emp-bad", Topic: "t", Payload: []byte("{}")},
			{ID: "o2", AggregateID: "emp-ok", Topic: "t", Payload: []byte("{}")},
		}, nil)
		repo.EXPECT().MarkFailed(ctx, "o1", "broker unavailable").Return(nil)
		repo.EXPECT().MarkSent(ctx, "o2").Return(nil)

		res, err := producer.RelayBatch(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, producer.BatchResult{Claimed: 2, Sent: 1, Failed: 1}, res)
		assert.Equal(t, "emp-ok", string(writer.messages[0].Key))
	})

	t.Run("empty outbox", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ClaimPending(ctx, 50).Return(nil, nil)

		res, err := producer.RelayBatch(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.NoError(t, err)
		assert.Zero(t, res.Claimed)
	})

	t.Run("claim error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ClaimPending(ctx, 50).Return(nil, errors.New("db down"))

		_, err := producer.RelayBatch(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.Error(t, err)
	})
}
