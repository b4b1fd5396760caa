package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/codemasterspro/cmpro-bot/internal/controller/fsm"
	"github.com/codemasterspro/cmpro-bot/internal/controller/middleware"
	"github.com/codemasterspro/cmpro-bot/internal/controller/state"
	"github.com/codemasterspro/cmpro-bot/internal/i18n"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender отправляет сообщения в Telegram. Реализуется *bot.Bot.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// LangResolver возвращает сохранённый язык студента
type LangResolver interface {
	StudentLanguage(ctx context.Context, telegramID int64) (model.Language, bool, error)
}

// Dispatcher принимает Telegram update, прогоняет его через middleware
// (rate limit, определение языка, логирование) и передаёт конечному автомату.
// События одного пользователя обрабатываются строго по одному.
type Dispatcher struct {
	sender   Sender
	machine  *fsm.Machine
	sessions *state.Manager
	limiter  *middleware.RateLimiter
	langs    LangResolver
	tr       *i18n.Translator
	logger   *zap.Logger

	userLocks sync.Map // telegramID -> *sync.Mutex
}

func NewDispatcher(
	sender Sender,
	machine *fsm.Machine,
	sessions *state.Manager,
	limiter *middleware.RateLimiter,
	langs LangResolver,
	tr *i18n.Translator,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		machine:  machine,
		sessions: sessions,
		limiter:  limiter,
		langs:    langs,
		tr:       tr,
		logger:   logger,
	}
}

// HandleUpdate обрабатывает один update целиком. Никогда не возвращает
// ошибку наружу: вебхук должен ответить провайдеру 200 в любом случае.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update *models.Update) {
	ev, callbackID, ok := extractEvent(update)
	if !ok {
		d.logger.Debug("Update without handler", zap.Int64("update_id", update.ID))
		return
	}

	// События одного пользователя обрабатываем последовательно
	lock, _ := d.userLocks.LoadOrStore(ev.TelegramID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	logger := d.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("update_id", update.ID),
		zap.Int64("telegram_id", ev.TelegramID),
	)

	logger.Info("Update received", zap.Int("kind", int(ev.Kind)))

	if allowed, notify := d.limiter.Allow(ev.TelegramID); !allowed {
		if notify {
			d.send(ctx, logger, fsm.Reply{
				ChatID: ev.ChatID,
				Text:   d.tr.T(d.resolveLang(ctx, ev.TelegramID), "errors.rate_limited"),
			})
		}
		return
	}

	lang := d.resolveLang(ctx, ev.TelegramID)

	// Гасим "часики" на кнопке
	if callbackID != "" {
		if _, err := d.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID}); err != nil {
			logger.Warn("Failed to answer callback query", zap.Error(err))
		}
	}

	replies, err := d.machine.Handle(ctx, ev)
	if err != nil {
		logger.Error("Failed to handle event", zap.Error(err))
		d.send(ctx, logger, fsm.Reply{ChatID: ev.ChatID, Text: d.tr.T(lang, "errors.general")})
		return
	}

	for _, reply := range replies {
		d.send(ctx, logger, reply)
	}

	logger.Info("Update processed")
}

// resolveLang определяет язык пользователя: сессия, затем БД, затем язык
// по умолчанию. Результат кэшируется в сессии.
func (d *Dispatcher) resolveLang(ctx context.Context, telegramID int64) string {
	if lang, ok := d.sessions.Lang(telegramID); ok {
		return lang
	}

	lang := d.tr.DefaultLang()
	if stored, found, err := d.langs.StudentLanguage(ctx, telegramID); err != nil {
		d.logger.Error("Failed to get student language",
			zap.Int64("telegram_id", telegramID), zap.Error(err))
	} else if found && d.tr.Has(string(stored)) {
		lang = string(stored)
	}

	d.sessions.SetLang(telegramID, lang)
	return lang
}

func (d *Dispatcher) send(ctx context.Context, logger *zap.Logger, reply fsm.Reply) {
	_, err := d.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      reply.ChatID,
		Text:        reply.Text,
		ReplyMarkup: reply.Keyboard,
	})
	if err != nil {
		logger.Error("Failed to send message",
			zap.Int64("chat_id", reply.ChatID),
			zap.Error(err))
	}
}

// extractEvent превращает Telegram update в событие конечного автомата.
// Возвращает callback query ID для ответа провайдеру, если это нажатие кнопки.
func extractEvent(update *models.Update) (fsm.Event, string, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		ev := fsm.Event{
			TelegramID: cb.From.ID,
			ChatID:     cb.From.ID,
			Kind:       fsm.EventCallback,
			Data:       cb.Data,
		}
		if cb.Message.Message != nil {
			ev.ChatID = cb.Message.Message.Chat.ID
		}
		return ev, cb.ID, true

	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		ev := fsm.Event{
			TelegramID: msg.From.ID,
			ChatID:     msg.Chat.ID,
		}

		switch {
		case msg.Contact != nil:
			ev.Kind = fsm.EventContact
			ev.Phone = normalizeContactPhone(msg.Contact.PhoneNumber)
		case strings.HasPrefix(msg.Text, "/"):
			ev.Kind = fsm.EventCommand
			// Отрезаем упоминание бота: /start@cmpro_bot
			ev.Text, _, _ = strings.Cut(msg.Text, "@")
		default:
			ev.Kind = fsm.EventText
			ev.Text = msg.Text
		}

		return ev, "", true

	default:
		return fsm.Event{}, "", false
	}
}

// normalizeContactPhone добавляет "+", которого нет у контактов Telegram
func normalizeContactPhone(phone string) string {
	if phone != "" && !strings.HasPrefix(phone, "+") {
		return "+" + phone
	}
	return phone
}
