package incident

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
	r.GET("/incident-types",
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(10, 30),
		handler.GetIncidentTypes,
	)

	incidents := r.Group("/incidents")
	incidents.Use(middleware.ContextLogger(logger))
	{
		incidents.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.GetAll,
		)

		incidents.GET("/:id",
			middleware.RateLimitByIP(10, 20),
			handler.GetById,
		)

		incidents.POST("",
			middleware.RateLimitByIP(2, 5),
			middleware.Idempotency(rdb, 24*time.Hour, logger),
			handler.Create,
		)

		incidents.PUT("/:id",
			middleware.RateLimitByIP(1, 5),
			handler.Update,
		)

		incidents.DELETE("/:id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Delete,
		)
	}

	excel := r.Group("/excel")
	excel.Use(middleware.ContextLogger(logger))
	{
		excel.POST("/upload",
			middleware.RateLimitByIP(0.2, 2), // parsing workbook cukup berat
			handler.ExcelUpload,
		)

		excel.GET("/export",
			middleware.RateLimitByIP(0.5, 2),
			handler.ExcelExport,
		)

		excel.GET("/template",
			middleware.RateLimitByIP(1, 5),
			handler.ExcelTemplate,
		)
	}
}
