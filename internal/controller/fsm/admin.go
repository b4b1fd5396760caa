package fsm

import (
	"context"
	"strconv"
	"strings"

	"github.com/codemasterspro/cmpro-bot/internal/controller/keyboard"
	"github.com/codemasterspro/cmpro-bot/internal/controller/state"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleAdminCallback обрабатывает кнопки админ-панели. Все действия требуют
// установленного флага администратора в сессии.
func (m *Machine) handleAdminCallback(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	if !m.sessions.IsAdmin(ev.TelegramID) {
		m.sessions.SetState(ev.TelegramID, state.StateAwaitAdminToken)
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.access_required")}}, nil
	}

	data := ev.Data

	switch {
	case data == CbAdminMenu:
		m.sessions.SetState(ev.TelegramID, state.StateAdminMenu)
		return []Reply{m.adminMenuReply(ev.ChatID, lang)}, nil

	case data == CbAdminLogout:
		m.sessions.SetAdmin(ev.TelegramID, false)
		m.sessions.SetState(ev.TelegramID, state.StateIdle)
		m.logger.Info("Admin logout", zap.Int64("telegram_id", ev.TelegramID))
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.logged_out"), Keyboard: m.mainMenu(lang)}}, nil

	case strings.HasPrefix(data, CbAdminEnrollments):
		page, err := strconv.Atoi(strings.TrimPrefix(data, CbAdminEnrollments))
		if err != nil || page < 0 {
			page = 0
		}
		return m.showEnrollmentsPage(ctx, ev, lang, page)

	case strings.HasPrefix(data, CbApprove):
		return m.decideEnrollment(ctx, ev, lang, strings.TrimPrefix(data, CbApprove), true)

	case strings.HasPrefix(data, CbReject):
		return m.decideEnrollment(ctx, ev, lang, strings.TrimPrefix(data, CbReject), false)

	default:
		return nil, nil
	}
}

// showEnrollmentsPage показывает страницу pending заявок с кнопками
// одобрения/отклонения и пагинацией
func (m *Machine) showEnrollmentsPage(ctx context.Context, ev Event, lang string, page int) ([]Reply, error) {
	enrollments, totalPages, err := m.enroll.PendingPage(ctx, page, EnrollmentsPageSize)
	if err != nil {
		return nil, err
	}

	if len(enrollments) == 0 {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.no_enrollments"), Keyboard: m.adminMenuKeyboard(lang)}}, nil
	}

	var sb strings.Builder
	sb.WriteString(m.tr.T(lang, "admin.enrollments_list"))

	kb := keyboard.NewBuilder()
	for _, e := range enrollments {
		sb.WriteString("\n\n")
		sb.WriteString(m.tr.Tf(lang, "admin.enrollment_item", map[string]string{
			"name":      orDash(e.Student.FullName),
			"phone":     orDash(e.Student.Phone),
			"direction": e.Direction.Title,
			"date":      e.CreatedAt.In(m.loc).Format("02.01.2006 15:04"),
		}))

		id := strconv.FormatInt(e.ID, 10)
		kb.Row(
			keyboard.Button(m.tr.T(lang, "admin.approve")+" "+orDash(e.Student.FullName), CbApprove+id),
			keyboard.Button(m.tr.T(lang, "admin.reject"), CbReject+id),
		)
	}

	kb.AddPagination(CbAdminEnrollments, page, totalPages)
	kb.Row(keyboard.Button(m.tr.T(lang, "buttons.back"), CbAdminMenu))

	return []Reply{{ChatID: ev.ChatID, Text: sb.String(), Keyboard: kb.Build()}}, nil
}

// decideEnrollment одобряет или отклоняет заявку и уведомляет студента.
// Повторное нажатие по уже рассмотренной заявке уведомление не отправляет.
func (m *Machine) decideEnrollment(ctx context.Context, ev Event, lang, rawID string, approve bool) ([]Reply, error) {
	enrollmentID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil
	}

	var enrollment *model.Enrollment
	var changed bool
	if approve {
		enrollment, changed, err = m.enroll.Approve(ctx, enrollmentID)
	} else {
		enrollment, changed, err = m.enroll.Reject(ctx, enrollmentID)
	}

	if err != nil {
		if isEnrollmentNotFound(err) {
			return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.general")}}, nil
		}
		return nil, err
	}

	if !changed {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.already_processed")}}, nil
	}

	adminKey, studentKey := "admin.approved", "admin.student_approved"
	if !approve {
		adminKey, studentKey = "admin.rejected", "admin.student_rejected"
	}

	replies := []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, adminKey)}}

	// Ровно одно уведомление студенту на его языке
	if enrollment.Student != nil && enrollment.Direction != nil {
		replies = append(replies, Reply{
			ChatID: enrollment.Student.TelegramID,
			Text: m.tr.Tf(string(enrollment.Student.Lang), studentKey, map[string]string{
				"direction": enrollment.Direction.Title,
			}),
		})
	}

	m.logger.Info("Enrollment decision",
		zap.Int64("enrollment_id", enrollmentID),
		zap.Bool("approved", approve),
		zap.Int64("admin_telegram_id", ev.TelegramID))

	// Обновляем список заявок после решения
	listReplies, err := m.showEnrollmentsPage(ctx, ev, lang, 0)
	if err != nil {
		// Решение уже применено, поэтому ошибку обновления списка не поднимаем
		m.logger.Error("Failed to refresh enrollments page", zap.Error(err))
		return replies, nil
	}

	return append(replies, listReplies...), nil
}

func (m *Machine) adminMenuReply(chatID int64, lang string) Reply {
	return Reply{
		ChatID:   chatID,
		Text:     m.tr.T(lang, "admin.menu"),
		Keyboard: m.adminMenuKeyboard(lang),
	}
}

func (m *Machine) adminMenuKeyboard(lang string) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button(m.tr.T(lang, "admin.enrollments"), CbAdminEnrollments+"0")).
		Row(keyboard.Button(m.tr.T(lang, "admin.logout"), CbAdminLogout)).
		Build()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
