package app

import (
	"context"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reminderService *service.ReminderService
	interval        time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(reminderService *service.ReminderService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminderService: reminderService,
		interval:        interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runReminderTask периодически рассылает просроченные напоминания об оплате.
// Тот же прогон доступен через HTTP-эндпоинт крона, здесь подстраховка на
// случай, если внешний планировщик не настроен.
func (s *Scheduler) runReminderTask(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (s *Scheduler) processReminders(ctx context.Context) {
	s.logger.Info("Starting payment reminder run")

	stats, err := s.reminderService.ProcessDue(ctx)
	if err != nil {
		s.logger.Error("Failed to process reminders", zap.Error(err))
		return
	}

	s.logger.Info("Payment reminder run completed",
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("errors", stats.Errors),
	)
}
