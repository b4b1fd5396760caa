package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version версия сервиса, отдаётся в health-ответе
const Version = "1.0.0"

type HealthHandler struct {
	environment string
	timezone    string
	defaultLang string
}

func NewHealthHandler(environment, timezone, defaultLang string) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		timezone:    timezone,
		defaultLang: defaultLang,
	}
}

// Handle отдаёт статус сервиса для мониторинга
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "cmpro-bot",
		"version":      Version,
		"environment":  h.environment,
		"timezone":     h.timezone,
		"default_lang": h.defaultLang,
	})
}
