package api

import (
	"context"
	"net/http"

	"github.com/codemasterspro/cmpro-bot/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReminderProcessor обрабатывает все просроченные напоминания об оплате
type ReminderProcessor interface {
	ProcessDue(ctx context.Context) (service.ReminderStats, error)
}

type CronHandler struct {
	reminders ReminderProcessor
	logger    *zap.Logger
}

func NewCronHandler(reminders ReminderProcessor, logger *zap.Logger) *CronHandler {
	return &CronHandler{reminders: reminders, logger: logger}
}

// Reminders запускает рассылку напоминаний. Эндпоинт дергает внешний
// планировщик, ошибки отдельных отправок не валят весь прогон.
func (h *CronHandler) Reminders(c *gin.Context) {
	stats, err := h.reminders.ProcessDue(c.Request.Context())
	if err != nil {
		h.logger.Error("Reminder run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	h.logger.Info("Reminder run finished",
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("errors", stats.Errors),
	)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"tasks": gin.H{
			"payment_reminders": stats,
		},
	})
}
