package producer

import (
	"context"
	"time"

	"go-incident-tracker/internal/messaging/kafka"
	"go-incident-tracker/internal/shared/metrics"

	"go.uber.org/zap"
)

const batchSize = 50

// RelayNotifications polls the outbox and publishes claimed notification
// events to Kafka until ctx is cancelled. A full batch is followed immediately
// by the next one so a backlog drains without waiting for the ticker.
func RelayNotifications(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.relay")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("notification relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("notification relay stopped")
			return
		case <-ticker.C:
			for {
				res, err := RelayBatch(ctx, repo, writer, log)
				if err != nil {
					log.Error("relay batch failed", zap.Error(err))
					break
				}
				if res.Claimed < batchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

type BatchResult struct {
	Claimed int
	Sent    int
	Failed  int
}

// RelayBatch claims one batch and publishes it. A publish failure reschedules
// that row with backoff and does not stop the batch.
func RelayBatch(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (BatchResult, error) {
	claimed, err := repo.ClaimPending(ctx, batchSize)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Claimed: len(claimed)}
	if res.Claimed == 0 {
		return res, nil
	}
	logger.Debug("relaying notification events", zap.Int("count", res.Claimed))

	for _, event := range claimed {
		if err := publishEvent(ctx, writer, event); err != nil {
			res.Failed++
			metrics.OutboxRelayed.WithLabelValues(metrics.ResultFailed).Inc()
			logger.Warn("publish notification event failed",
				zap.String("outbox_id", event.ID),
				zap.String("request_id", event.RequestID),
				zap.String("employee_id", event.AggregateID),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		// baris tetap processing sampai lease habis kalau MarkSent gagal,
		// jadi event bisa terkirim dua kali; consumer harus toleran
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}

		res.Sent++
		metrics.OutboxRelayed.WithLabelValues(metrics.ResultSent).Inc()
		logger.Info("notification event relayed",
			zap.String("outbox_id", event.ID),
			zap.String("employee_id", event.AggregateID),
			zap.String("topic", event.Topic),
		)
	}

	return res, nil
}
