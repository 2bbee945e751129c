package app

import (
	"database/sql"
	"net/http"
	"time"

	"go-incident-tracker/internal/middleware"
	"go-incident-tracker/internal/shared/config"
	"go-incident-tracker/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Infra menampung koneksi yang dibagi semua modul.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

// Connect membuka Postgres (wajib) dan Redis (opsional).
func Connect(cfg config.Config, logger *zap.Logger) (*Infra, error) {
	db := cfg.Database
	gormDB, err := connection.ConnectGORMWithRetry(db.Host, db.User, db.Password, db.Name, db.Port, db.SSLMode, connectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	infra := &Infra{GormDB: gormDB, SQLDB: sqlDB}
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, options cache and idempotency disabled")
		return infra, nil
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	infra.Redis = rdb
	logger.Info("redis connection established")
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

// NewRouter memasang middleware global dan endpoint /metrics.
func NewRouter(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			middleware.RequestIDHeader, middleware.IdempotencyHeader,
		},
		ExposeHeaders: []string{
			"Content-Disposition", middleware.RequestIDHeader, "Idempotent-Replayed",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// BuildApp menghubungkan infrastruktur lalu mendaftarkan semua modul ke router.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	infra, err := Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := registerModules(router, cfg, infra, logger); err != nil {
		infra.Close()
		return nil, err
	}
	return infra.Close, nil
}
