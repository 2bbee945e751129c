package employee

import (
	"time"

	"go-incident-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByIP(10, 30), // ringan dan di-cache
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByIP(10, 20),
			handler.GetById,
		)

		employees.GET("/:id/point-history",
			middleware.RateLimitByIP(5, 10),
			handler.GetPointHistory,
		)

		employees.POST("",
			middleware.RateLimitByIP(1, 5),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByIP(1, 5),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Delete,
		)

		employees.POST("/:id/add-points",
			middleware.RateLimitByIP(2, 5),
			middleware.Idempotency(rdb, 24*time.Hour, logger),
			handler.AddPoints,
		)

		employees.POST("/:id/reset-points",
			middleware.RateLimitByIP(0.5, 2),
			handler.ResetPoints,
		)
	}
}
