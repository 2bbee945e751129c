package notification

import (
	"context"
	"time"

	"go-incident-tracker/internal/shared/contextutil"
	"go-incident-tracker/internal/shared/metrics"

	"go.uber.org/zap"
)

// Sink delivers a single message. Implementations may block on I/O.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is what the ledger callers depend on: it never reports failure.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Dispatcher bounds each send with a timeout that is detached from the
// caller's cancellation, so a finished HTTP request cannot abort delivery.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewDispatcher(sink Sink, timeout time.Duration, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{sink: sink, timeout: timeout, logger: l, now: time.Now}
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	if msg.RequestID == "" {
		msg.RequestID = contextutil.GetRequestID(ctx)
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = d.now().UTC()
	}

	log := contextutil.ScopedLogger(ctx, d.logger, "notification.dispatcher")

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, msg); err != nil {
		metrics.Notifications.WithLabelValues(string(msg.Kind), metrics.ResultFailed).Inc()
		log.Error("notification send failed",
			zap.String("request_id", msg.RequestID),
			zap.String("employee_id", msg.EmployeeID),
			zap.String("kind", string(msg.Kind)),
			zap.String("ordinal", msg.Ordinal),
			zap.Error(err),
		)
		return
	}

	metrics.Notifications.WithLabelValues(string(msg.Kind), metrics.ResultSent).Inc()
	log.Info("notification sent",
		zap.String("request_id", msg.RequestID),
		zap.String("employee_id", msg.EmployeeID),
		zap.String("kind", string(msg.Kind)),
		zap.String("ordinal", msg.Ordinal),
		zap.String("points", msg.Points.String()),
	)
}

// LogSink hanya menulis ke log; dipakai saat Kafka dan SMTP tidak dikonfigurasi.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.L()
	}
	return &LogSink{logger: logger.Named("notification.log_sink")}
}

func (s *LogSink) Send(_ context.Context, msg Message) error {
	s.logger.Warn("notification not delivered, no transport configured",
		zap.String("subject", msg.Subject()),
		zap.String("employee_id", msg.EmployeeID),
		zap.String("manager_email", msg.ManagerEmail),
	)
	return nil
}
