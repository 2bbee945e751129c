package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort                = "5000"
	DefaultNotificationTopic   = "hr.discipline.notification.v1"
	DefaultNotificationTimeout = 5 * time.Second
)

type Config struct {
	Port   string
	AppEnv string

	Database DatabaseConfig

	RedisAddr         string
	KafkaBroker       string
	NotificationTopic string
	ConsumerGroup     string

	Mail                MailConfig
	NotificationTimeout time.Duration

	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type MailConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	ManagerEmail string
}

// URL is the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// Load membaca konfigurasi dari environment. godotenv.Load() dipanggil di main.
func Load() Config {
	return Config{
		Port:   getEnv("PORT", DefaultPort),
		AppEnv: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		NotificationTopic: getEnv("NOTIFICATION_TOPIC", DefaultNotificationTopic),
		ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "incident-tracker-notifications"),
		Mail: MailConfig{
			Host:         os.Getenv("SMTP_HOST"),
			Port:         getEnvInt("SMTP_PORT", 587),
			Username:     os.Getenv("SMTP_USERNAME"),
			Password:     os.Getenv("SMTP_PASSWORD"),
			From:         getEnv("MAIL_FROM", os.Getenv("SMTP_USERNAME")),
			ManagerEmail: os.Getenv("MANAGER_EMAIL"),
		},
		NotificationTimeout: getEnvDuration("NOTIFICATION_TIMEOUT", DefaultNotificationTimeout),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
