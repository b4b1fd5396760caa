package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger настраивает логгер под окружение: в production - JSON с ISO8601
// временем для агрегаторов, иначе - цветной консольный вывод для разработки.
func NewLogger(env string) *zap.Logger {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Бот пишет только в stdout: логи собирает платформа
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build(zap.Fields(zap.String("service", "cmpro-bot")))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}
