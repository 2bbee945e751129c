package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-incident-tracker/internal/events"
	"go-incident-tracker/internal/messaging/kafka"
	kafkaMock "go-incident-tracker/internal/messaging/kafka/mock"
	"go-incident-tracker/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestOutboxSink_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	sink := notification.NewOutboxSink(outbox, "hr.discipline.notification.v1")

	msg := writeUp()
	msg.RequestID = "REQ-1"

	outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
			assert.NoError(t, kafka.ValidateOutboxEvent(ev))
			assert.Equal(t, "REQ-1", ev.RequestID)
			assert.Equal(t, "emp-1", ev.AggregateID)
			assert.Equal(t, notification.AggregateEmployee, ev.AggregateType)
			assert.Equal(t, events.NotificationRequestedType, ev.EventType)

			var payload events.NotificationRequestedEvent
			require.NoError(t, json.Unmarshal(ev.Payload, &payload))
			assert.Equal(t, "1st", payload.Ordinal)
			assert.Equal(t, "50", payload.Points)
			return nil
		})

	assert.NoError(t, sink.Send(context.Background(), msg))
}

type fakeMailer struct {
	sent []*mail.Msg
	err  error
}

func (m *fakeMailer) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	m.sent = append(m.sent, msgs...)
	return m.err
}

func TestMailSink_Send(t *testing.T) {
	t.Run("uses manager email", func(t *testing.T) {
		mailer := &fakeMailer{}
		sink := notification.NewMailSink(mailer, "hr-bot@company.com", "fallback@company.com")
		msg := writeUp()
		msg.ManagerEmail = "manager@company.com"

		require.NoError(t, sink.Send(context.Background(), msg))
		require.Len(t, mailer.sent, 1)

		rcpts, err := mailer.sent[0].GetRecipients()
		require.NoError(t, err)
		assert.Equal(t, []string{"manager@company.com"}, rcpts)
		assert.Equal(t, []string{"Cloud - 1st Write-Up Required"}, mailer.sent[0].GetGenHeader(mail.HeaderSubject))
	})

	t.Run("falls back to configured recipient", func(t *testing.T) {
		mailer := &fakeMailer{}
		sink := notification.NewMailSink(mailer, "hr-bot@company.com", "fallback@company.com")

		require.NoError(t, sink.Send(context.Background(), writeUp()))

		rcpts, err := mailer.sent[0].GetRecipients()
		require.NoError(t, err)
		assert.Equal(t, []string{"fallback@company.com"}, rcpts)
	})

	t.Run("no recipient", func(t *testing.T) {
		sink := notification.NewMailSink(&fakeMailer{}, "hr-bot@company.com", "")

		assert.Error(t, sink.Send(context.Background(), writeUp()))
	})

	t.Run("smtp error is returned to dispatcher", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("dial tcp: timeout")}
		sink := notification.NewMailSink(mailer, "hr-bot@company.com", "fallback@company.com")

		assert.Error(t, sink.Send(context.Background(), writeUp()))
	})
}

func TestLogSink_Send(t *testing.T) {
	assert.NoError(t, notification.NewLogSink(zap.NewNop()).Send(context.Background(), writeUp()))
}
