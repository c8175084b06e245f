package app

import (
	"context"
	"net/http"
	"time"

	"go-erp/internal/bootstrap"
	"go-erp/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp installs the global middleware chain, health and metrics endpoints,
// and every module's routes.
func BuildApp(router *gin.Engine, infra *Infra, audit bootstrap.AuditLogger) error {
	svc, err := NewServices(infra, audit)
	if err != nil {
		return err
	}

	router.Use(
		gin.Recovery(),
		middleware.ContextLogger(infra.Logger),
		infra.Metrics.Middleware(),
		middleware.RateLimitByIP(20, 40),
	)

	router.GET("/healthz", healthHandler(infra))
	if infra.Metrics != nil {
		router.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))
	}

	registerModules(router, infra, svc)
	infra.Logger.Info("routes registered", zap.Int("count", len(router.Routes())))
	return nil
}

func healthHandler(infra *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok"}
		code := http.StatusOK

		if sqlDB, err := infra.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if infra.Redis != nil {
			status["redis"] = "ok"
			if err := infra.Redis.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, status)
	}
}
