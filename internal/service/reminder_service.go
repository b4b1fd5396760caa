package service

import (
	"context"
	"fmt"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"go.uber.org/zap"
)

// ReminderStore доступ к напоминаниям об оплате
type ReminderStore interface {
	GetDue(ctx context.Context, now time.Time) ([]*model.PaymentReminder, error)
	MarkSent(ctx context.Context, id int64) error
}

// ReminderNotifier отправляет напоминание студенту
type ReminderNotifier interface {
	SendPaymentReminder(ctx context.Context, student *model.Student) error
}

// ReminderStats статистика обработки напоминаний
type ReminderStats struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

type ReminderService struct {
	reminders ReminderStore
	notifier  ReminderNotifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewReminderService(reminders ReminderStore, notifier ReminderNotifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessDue обрабатывает все напоминания с наступившим сроком: отправляет
// сообщение студенту и помечает напоминание отправленным. Ошибка по одному
// напоминанию не прерывает обработку остальных.
func (s *ReminderService) ProcessDue(ctx context.Context) (ReminderStats, error) {
	due, err := s.reminders.GetDue(ctx, s.now())
	if err != nil {
		return ReminderStats{}, fmt.Errorf("get due reminders: %w", err)
	}

	stats := ReminderStats{Total: len(due)}

	for _, reminder := range due {
		if err := s.processOne(ctx, reminder); err != nil {
			stats.Errors++
			s.logger.Error("Failed to process payment reminder",
				zap.Int64("reminder_id", reminder.ID),
				zap.Int64("student_id", reminder.StudentID),
				zap.Error(err))
			continue
		}

		stats.Processed++
		s.logger.Info("Payment reminder processed",
			zap.Int64("reminder_id", reminder.ID),
			zap.Int64("student_id", reminder.StudentID))
	}

	return stats, nil
}

func (s *ReminderService) processOne(ctx context.Context, reminder *model.PaymentReminder) error {
	if reminder.Student != nil {
		if err := s.notifier.SendPaymentReminder(ctx, reminder.Student); err != nil {
			return fmt.Errorf("send reminder: %w", err)
		}
	}

	if err := s.reminders.MarkSent(ctx, reminder.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	return nil
}
