package controller

import (
	"context"
	"fmt"

	"github.com/codemasterspro/cmpro-bot/internal/i18n"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Notifier отправляет служебные уведомления студентам на их языке
type Notifier struct {
	sender Sender
	tr     *i18n.Translator
	logger *zap.Logger
}

func NewNotifier(sender Sender, tr *i18n.Translator, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, tr: tr, logger: logger}
}

// SendPaymentReminder отправляет студенту напоминание об оплате
func (n *Notifier) SendPaymentReminder(ctx context.Context, student *model.Student) error {
	lang := string(student.Lang)
	if !n.tr.Has(lang) {
		lang = n.tr.DefaultLang()
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: student.TelegramID,
		Text:   n.tr.T(lang, "payment.reminder"),
	})
	if err != nil {
		return fmt.Errorf("send payment reminder: %w", err)
	}

	n.logger.Info("Payment reminder sent", zap.Int64("student_id", student.ID))
	return nil
}
