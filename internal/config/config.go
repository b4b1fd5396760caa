package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	WebhookSecret string `envconfig:"TELEGRAM_WEBHOOK_SECRET" required:"true"`
	AppBaseURL    string `envconfig:"APP_BASE_URL" required:"true"`
	BotUsername   string `envconfig:"PUBLIC_BOT_USERNAME" default:"@cmpro_bot"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	AdminToken         string `envconfig:"ADMIN_ACCESS_TOKEN" required:"true"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"20"`

	DefaultLang string `envconfig:"DEFAULT_LANG" default:"ru"`
	Timezone    string `envconfig:"TIMEZONE" default:"Asia/Almaty"`

	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	Environment string `envconfig:"ENV" default:"development"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.TelegramToken) < 10 {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN looks invalid")
	}
	if len(c.WebhookSecret) < 16 {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET must be at least 16 characters")
	}
	if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must be a PostgreSQL connection string")
	}
	if !strings.HasPrefix(c.AppBaseURL, "http://") && !strings.HasPrefix(c.AppBaseURL, "https://") {
		return fmt.Errorf("APP_BASE_URL must start with http:// or https://")
	}
	if c.DefaultLang != "ru" && c.DefaultLang != "kk" {
		return fmt.Errorf("DEFAULT_LANG must be ru or kk, got %q", c.DefaultLang)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// WebhookURL возвращает полный URL для регистрации вебхука
func (c *Config) WebhookURL() string {
	return c.AppBaseURL + "/api/webhook"
}
