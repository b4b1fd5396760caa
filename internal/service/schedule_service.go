package service

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"go.uber.org/zap"
)

// LessonStore доступ к занятиям
type LessonStore interface {
	GetUpcoming(ctx context.Context, limit int) ([]*model.Lesson, error)
}

type ScheduleService struct {
	lessons LessonStore
	logger  *zap.Logger
}

func NewScheduleService(lessons LessonStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{lessons: lessons, logger: logger}
}

// UpcomingLessons возвращает ближайшие будущие занятия
func (s *ScheduleService) UpcomingLessons(ctx context.Context, limit int) ([]*model.Lesson, error) {
	lessons, err := s.lessons.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming lessons: %w", err)
	}
	return lessons, nil
}
