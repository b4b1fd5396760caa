package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает HTTP-роутер сервиса
func NewRouter(webhook *WebhookHandler, cron *CronHandler, health *HealthHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	r.GET("/api/health", health.Handle)

	r.POST("/api/webhook", webhook.Handle)
	r.GET("/api/webhook", webhook.Info)

	// Внешний планировщик может дергать эндпоинт любым из двух методов
	r.GET("/api/cron", cron.Reminders)
	r.POST("/api/cron", cron.Reminders)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
