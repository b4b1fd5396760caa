package main

import (
	"context"
	"log"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/app"
	"github.com/codemasterspro/cmpro-bot/internal/config"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/codemasterspro/cmpro-bot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Наполняет базу стартовыми данными: направления, группы и занятия
// на ближайший месяц. Повторный запуск безопасен.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	directionRepo := repository.NewDirectionRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)

	logger.Info("Starting database seeding")

	directions, err := seedDirections(ctx, directionRepo, logger)
	if err != nil {
		logger.Fatal("Failed to seed directions", zap.Error(err))
	}

	groups, err := seedGroups(ctx, groupRepo, directions, logger)
	if err != nil {
		logger.Fatal("Failed to seed groups", zap.Error(err))
	}

	if err := seedLessons(ctx, lessonRepo, groups, logger); err != nil {
		logger.Fatal("Failed to seed lessons", zap.Error(err))
	}

	logger.Info("Database seeding completed")
}

func seedDirections(ctx context.Context, repo *repository.DirectionRepository, logger *zap.Logger) ([]*model.Direction, error) {
	seed := []*model.Direction{
		{
			Code:        model.DirectionPython,
			Title:       "Python",
			Description: "Изучите один из самых популярных языков программирования. От веб-разработки до машинного обучения.",
		},
		{
			Code:        model.DirectionJavaScript,
			Title:       "JavaScript",
			Description: "Освойте современную веб-разработку с React, Node.js и другими популярными технологиями.",
		},
		{
			Code:        model.DirectionGo,
			Title:       "Go",
			Description: "Изучите высокопроизводительный язык программирования от Google для создания масштабируемых приложений.",
		},
		{
			Code:        model.DirectionDataAnalytics,
			Title:       "Data Analytics",
			Description: "Научитесь анализировать данные с помощью Python, SQL и современных инструментов аналитики.",
		},
	}

	result := make([]*model.Direction, 0, len(seed))
	for _, d := range seed {
		existing, err := repo.GetByCode(ctx, d.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logger.Info("Direction already exists, skipping", zap.String("code", string(d.Code)))
			result = append(result, existing)
			continue
		}

		if err := repo.Create(ctx, d); err != nil {
			return nil, err
		}
		logger.Info("Created direction", zap.String("title", d.Title))
		result = append(result, d)
	}

	return result, nil
}

func seedGroups(ctx context.Context, repo *repository.GroupRepository, directions []*model.Direction, logger *zap.Logger) ([]*model.Group, error) {
	titles := map[model.DirectionCode][]string{
		model.DirectionPython:        {"Python для начинающих", "Python Advanced"},
		model.DirectionJavaScript:    {"JavaScript Fundamentals", "React & Node.js"},
		model.DirectionGo:            {"Go Basics", "Go Microservices"},
		model.DirectionDataAnalytics: {"Data Analysis с Python", "Machine Learning"},
	}

	var result []*model.Group
	for _, direction := range directions {
		existing, err := repo.GetActiveByDirection(ctx, direction.ID)
		if err != nil {
			return nil, err
		}

		have := make(map[string]*model.Group, len(existing))
		for _, g := range existing {
			have[g.Title] = g
		}

		for _, title := range titles[direction.Code] {
			if g, ok := have[title]; ok {
				logger.Info("Group already exists, skipping", zap.String("title", title))
				result = append(result, g)
				continue
			}

			group := &model.Group{Title: title, DirectionID: direction.ID}
			if err := repo.Create(ctx, group); err != nil {
				return nil, err
			}
			logger.Info("Created group", zap.String("title", title), zap.String("direction", direction.Title))
			result = append(result, group)
		}
	}

	return result, nil
}

func seedLessons(ctx context.Context, repo *repository.LessonRepository, groups []*model.Group, logger *zap.Logger) error {
	if len(groups) == 0 {
		logger.Warn("No groups found, skipping lesson creation")
		return nil
	}

	topics := []string{
		"Введение в программирование",
		"Основы синтаксиса",
		"Переменные и типы данных",
		"Условные операторы",
		"Циклы и итерации",
		"Функции и методы",
		"Работа с файлами",
		"Обработка ошибок",
		"Объектно-ориентированное программирование",
		"Работа с базами данных",
		"Веб-разработка",
		"API и интеграции",
		"Тестирование кода",
		"Деплой и DevOps",
		"Проектная работа",
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	created := 0
	for day := 0; day < 30; day++ {
		if day%3 != 0 {
			continue
		}
		startsAt := start.AddDate(0, 0, day)
		for _, group := range groups {
			lesson := &model.Lesson{
				GroupID:  group.ID,
				Topic:    topics[created%len(topics)],
				StartsAt: startsAt,
				EndsAt:   startsAt.Add(2 * time.Hour),
			}
			if err := repo.Create(ctx, lesson); err != nil {
				return err
			}
			created++
		}
	}

	logger.Info("Created lessons", zap.Int("count", created))
	return nil
}
