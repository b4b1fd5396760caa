package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Заголовок, в котором Telegram присылает секрет вебхука
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDispatcher обрабатывает один Telegram update
type UpdateDispatcher interface {
	HandleUpdate(ctx context.Context, update *models.Update)
}

type WebhookHandler struct {
	secret      string
	dispatcher  UpdateDispatcher
	botUsername string
	webhookURL  string
	logger      *zap.Logger
}

func NewWebhookHandler(secret string, dispatcher UpdateDispatcher, botUsername, webhookURL string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:      secret,
		dispatcher:  dispatcher,
		botUsername: botUsername,
		webhookURL:  webhookURL,
		logger:      logger,
	}
}

// Handle принимает update от Telegram. Порядок проверок: секрет, затем тело.
// Внутренние ошибки обработки не превращаются в не-200 ответ, чтобы провайдер
// не устраивал шторм ретраев.
func (h *WebhookHandler) Handle(c *gin.Context) {
	token := c.GetHeader(secretTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		h.logger.Warn("Invalid webhook secret token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var update models.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("Malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty or malformed payload"})
		return
	}

	h.dispatcher.HandleUpdate(c.Request.Context(), &update)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Info отдаёт информацию о вебхуке
func (h *WebhookHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "active",
		"bot_username": h.botUsername,
		"webhook_url":  h.webhookURL,
	})
}
