package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-incident-tracker/internal/messaging/kafka"
	"go-incident-tracker/internal/messaging/kafka/producer"
	"go-incident-tracker/internal/shared/config"
	"go-incident-tracker/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker memindahkan notifikasi dari outbox_events ke Kafka.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	db := cfg.Database
	gormDB, err := connection.ConnectGORMWithRetry(db.Host, db.User, db.Password, db.Name, db.Port, db.SSLMode, connectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.RelayNotifications(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
