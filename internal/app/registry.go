package app

import (
	"context"
	"net/http"
	"time"

	"go-incident-tracker/internal/employee"
	"go-incident-tracker/internal/incident"
	"go-incident-tracker/internal/messaging/kafka"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/shared/config"
	"go-incident-tracker/internal/shared/counter"
	"go-incident-tracker/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	infra *Infra,
	logger *zap.Logger,
) error {
	sink, err := newNotificationSink(cfg, infra, logger)
	if err != nil {
		return err
	}
	notifier := notification.NewDispatcher(sink, cfg.NotificationTimeout, logger)

	// --- Repositories ---
	counterRepo := counter.NewRepository(infra.GormDB)
	employeeRepo := employee.NewRepository(infra.GormDB)
	incidentRepo := incident.NewRepository(infra.GormDB)

	// --- Services ---
	ledger := employee.NewLedger(employeeRepo, logger)
	employeeService := employee.NewService(infra.SQLDB, employeeRepo, ledger, notifier, infra.Redis, logger)
	incidentService := incident.NewService(infra.SQLDB, incidentRepo, ledger, counterRepo, notifier, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	incidentHandler := incident.NewHandler(incidentService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		api.GET("/health", healthHandler(infra))
		employee.RegisterRoutes(api, employeeHandler, infra.Redis, logger)
		incident.RegisterRoutes(api, incidentHandler, infra.Redis, logger)
	}

	return nil
}

// newNotificationSink: outbox jika Kafka tersedia, lalu SMTP, terakhir log saja.
func newNotificationSink(cfg config.Config, infra *Infra, logger *zap.Logger) (notification.Sink, error) {
	switch {
	case cfg.KafkaBroker != "":
		logger.Info("notifications routed through outbox", zap.String("topic", cfg.NotificationTopic))
		return notification.NewOutboxSink(kafka.NewOutboxRepository(infra.SQLDB), cfg.NotificationTopic), nil
	case cfg.Mail.Enabled():
		return newMailSink(cfg, logger)
	default:
		logger.Warn("no KAFKA_BROKER or SMTP_HOST configured, notifications are only logged")
		return notification.NewLogSink(logger), nil
	}
}

func newMailSink(cfg config.Config, logger *zap.Logger) (notification.Sink, error) {
	client, err := notification.NewSMTPClient(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	if err != nil {
		return nil, err
	}
	logger.Info("notifications sent by smtp", zap.String("host", cfg.Mail.Host))
	return notification.NewMailSink(client, cfg.Mail.From, cfg.Mail.ManagerEmail), nil
}

func healthHandler(infra *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		database := "up"
		if err := infra.SQLDB.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			database = "down"
		}

		response.Success(c, status, gin.H{
			"status":    http.StatusText(status),
			"database":  database,
			"timestamp": time.Now().UTC(),
		}, nil)
	}
}
