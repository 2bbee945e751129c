package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-incident-tracker/internal/messaging/kafka/consumer"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/shared/config"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer membaca topic notifikasi dan mengirim email ke manager.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	var sink notification.Sink
	if cfg.Mail.Enabled() {
		mailSink, err := newMailSink(cfg, logger)
		if err != nil {
			return err
		}
		sink = mailSink
	} else {
		logger.Warn("SMTP_HOST not set, consumed notifications are only logged")
		sink = notification.NewLogSink(logger)
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          cfg.NotificationTopic,
		GroupID:        cfg.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeNotifications(ctx, reader, sink, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
