package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-incident-tracker/internal/events"
	"go-incident-tracker/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

const (
	deliveryAttempts = 3
	deliveryTimeout  = 15 * time.Second
)

var retryBackoff = 2 * time.Second

// ConsumeNotifications delivers notification_requested events. The offset is
// committed only after the sink accepted the message; undecodable messages are
// committed and dropped.
func ConsumeNotifications(
	ctx context.Context,
	reader MessageReader,
	sink notification.Sink,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		HandleMessage(ctx, reader, sink, msg, log)
	}
}

func HandleMessage(
	ctx context.Context,
	reader MessageReader,
	sink notification.Sink,
	msg kafkago.Message,
	log *zap.Logger,
) bool {
	var event events.NotificationRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode notification event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return false
	}

	m, err := notification.FromEvent(event)
	if err != nil {
		log.Error("invalid notification event",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return false
	}

	var sendErr error
	for attempt := 1; attempt <= deliveryAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		sendErr = sink.Send(sendCtx, m)
		cancel()
		if sendErr == nil {
			break
		}

		log.Warn("deliver notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("employee_id", event.EmployeeID),
			zap.Int("attempt", attempt),
			zap.Error(sendErr),
		)
		if attempt < deliveryAttempts {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(retryBackoff):
			}
		}
	}
	if sendErr != nil {
		log.Error("notification delivery gave up",
			zap.String("request_id", event.RequestID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("kind", event.Kind),
		)
		return false
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit notification message failed", zap.Error(err))
		return false
	}

	log.Info("notification delivered",
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("kind", event.Kind),
		zap.String("ordinal", event.Ordinal),
	)
	return true
}
