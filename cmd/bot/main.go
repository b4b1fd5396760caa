package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/api"
	"github.com/codemasterspro/cmpro-bot/internal/app"
	"github.com/codemasterspro/cmpro-bot/internal/config"
	"github.com/codemasterspro/cmpro-bot/internal/controller"
	"github.com/codemasterspro/cmpro-bot/internal/controller/fsm"
	"github.com/codemasterspro/cmpro-bot/internal/controller/middleware"
	"github.com/codemasterspro/cmpro-bot/internal/controller/state"
	"github.com/codemasterspro/cmpro-bot/internal/i18n"
	"github.com/codemasterspro/cmpro-bot/internal/repository"
	"github.com/codemasterspro/cmpro-bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting cmpro bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	translator, err := i18n.New(cfg.DefaultLang, logger)
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}

	// Репозитории
	studentRepo := repository.NewStudentRepository(pool)
	directionRepo := repository.NewDirectionRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	// Telegram
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Сервисы
	enrollService := service.NewEnrollService(studentRepo, directionRepo, enrollmentRepo, reminderRepo, logger)
	scheduleService := service.NewScheduleService(lessonRepo, logger)
	notifier := controller.NewNotifier(b, translator, logger)
	reminderService := service.NewReminderService(reminderRepo, notifier, logger)

	// Контроллер
	sessions := state.NewManager()
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, logger)
	machine := fsm.NewMachine(sessions, enrollService, scheduleService, translator, cfg.AdminToken, cfg.BotUsername, loc, logger)
	dispatcher := controller.NewDispatcher(b, machine, sessions, limiter, enrollService, translator, logger)

	if err := registerWebhook(ctx, b, cfg); err != nil {
		logger.Fatal("Failed to register webhook", zap.Error(err))
	}
	logger.Info("Webhook registered", zap.String("url", cfg.WebhookURL()))

	// Фоновая рассылка напоминаний
	scheduler := app.NewScheduler(reminderService, time.Hour, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP
	webhookHandler := api.NewWebhookHandler(cfg.WebhookSecret, dispatcher, cfg.BotUsername, cfg.WebhookURL(), logger)
	cronHandler := api.NewCronHandler(reminderService, logger)
	healthHandler := api.NewHealthHandler(cfg.Environment, cfg.Timezone, cfg.DefaultLang)
	router := api.NewRouter(webhookHandler, cronHandler, healthHandler, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Stopped")
}

func registerWebhook(ctx context.Context, b *bot.Bot, cfg *config.Config) error {
	if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         cfg.WebhookURL(),
		SecretToken: cfg.WebhookSecret,
	}); err != nil {
		return err
	}

	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "Главное меню"},
			{Command: "enroll", Description: "Записаться на курс"},
			{Command: "schedule", Description: "Расписание занятий"},
			{Command: "lang", Description: "Тіл / Язык"},
			{Command: "cancel", Description: "Отменить текущее действие"},
			{Command: "admin", Description: "Вход для администратора"},
		},
	})
	return err
}
