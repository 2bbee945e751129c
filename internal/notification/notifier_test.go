package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-incident-tracker/internal/escalation"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/shared/contextutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []notification.Message
	ctxErrs  []error
	err      error
	delay    time.Duration
}

func (s *recordingSink) Send(ctx context.Context, msg notification.Message) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func writeUp() notification.Message {
	return notification.Message{
		Kind:         escalation.NoticeWriteUp,
		Ordinal:      "1st",
		EmployeeID:   "emp-1",
		EmployeeName: "Cloud",
		Points:       decimal.NewFromInt(50),
	}
}

func TestDispatcher_Notify(t *testing.T) {
	t.Run("fills request id and timestamp", func(t *testing.T) {
		sink := &recordingSink{}
		d := notification.NewDispatcher(sink, time.Second, zap.NewNop())
		ctx := contextutil.WithRequestID(context.Background(), "REQ-7")

		d.Notify(ctx, writeUp())

		require.Len(t, sink.messages, 1)
		assert.Equal(t, "REQ-7", sink.messages[0].RequestID)
		assert.False(t, sink.messages[0].OccurredAt.IsZero())
	})

	t.Run("sink error is swallowed", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("smtp 550")}
		d := notification.NewDispatcher(sink, time.Second, zap.NewNop())

		assert.NotPanics(t, func() { d.Notify(context.Background(), writeUp()) })
		assert.Len(t, sink.messages, 1)
	})

	t.Run("canceled request context does not abort send", func(t *testing.T) {
		sink := &recordingSink{}
		d := notification.NewDispatcher(sink, time.Second, zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d.Notify(ctx, writeUp())

		require.Len(t, sink.messages, 1)
		assert.NoError(t, sink.ctxErrs[0])
	})

	t.Run("slow sink is bounded by timeout", func(t *testing.T) {
		sink := &recordingSink{delay: time.Second}
		d := notification.NewDispatcher(sink, 20*time.Millisecond, zap.NewNop())

		start := time.Now()
		d.Notify(context.Background(), writeUp())

		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.Empty(t, sink.messages)
	})
}

func TestMessage_Text(t *testing.T) {
	msg := writeUp()
	msg.Points = decimal.RequireFromString("100.5")
	msg.Ordinal = "2nd"

	assert.Equal(t, "Cloud - 2nd Write-Up Required", msg.Subject())
	assert.Equal(t, "Cloud has reached 100.5 points and requires their 2nd write-up.", msg.Text())
	assert.Contains(t, msg.HTML(), "2nd Write-Up")

	term := notification.Message{Kind: escalation.NoticeTermination, EmployeeName: "<Barret>", Points: decimal.NewFromInt(255)}
	assert.Equal(t, "<Barret> - Termination Required", term.Subject())
	assert.Equal(t, "<Barret> has reached 255 points and should be terminated.", term.Text())
	assert.Contains(t, term.HTML(), "&lt;Barret&gt;")
}

func TestFromEvent(t *testing.T) {
	msg := writeUp()
	msg.ManagerEmail = "manager@company.com"
	msg.OccurredAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	got, err := notification.FromEvent(msg.ToEvent())
	require.NoError(t, err)
	assert.True(t, msg.Points.Equal(got.Points))
	assert.Equal(t, msg.ManagerEmail, got.ManagerEmail)
	assert.Equal(t, msg.Ordinal, got.Ordinal)

	ev := msg.ToEvent()
	ev.Kind = "demotion"
	_, err = notification.FromEvent(ev)
	assert.Error(t, err)

	ev = msg.ToEvent()
	ev.Points = "lots"
	_, err = notification.FromEvent(ev)
	assert.Error(t, err)
}
