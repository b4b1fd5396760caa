package fsm

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codemasterspro/cmpro-bot/internal/controller/keyboard"
	"github.com/codemasterspro/cmpro-bot/internal/controller/state"
	"github.com/codemasterspro/cmpro-bot/internal/i18n"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	// NameMinLength минимальная длина имени в символах
	NameMinLength = 2

	// EnrollmentsPageSize размер страницы списка заявок в админ-панели
	EnrollmentsPageSize = 5

	// ScheduleLimit сколько ближайших занятий показывать
	ScheduleLimit = 10
)

// EnrollmentFlow операции записи на курс и работы с заявками
type EnrollmentFlow interface {
	GetOrCreateStudent(ctx context.Context, telegramID int64, lang model.Language) (*model.Student, error)
	ActiveDirections(ctx context.Context) ([]*model.Direction, error)
	Enroll(ctx context.Context, telegramID int64, fullName, phone string, lang model.Language, code model.DirectionCode) (*model.Enrollment, error)
	PendingPage(ctx context.Context, page, pageSize int) ([]*model.Enrollment, int, error)
	Approve(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error)
	Reject(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error)
	ChangeLanguage(ctx context.Context, telegramID int64, lang model.Language) error
}

// ScheduleView операции просмотра расписания
type ScheduleView interface {
	UpcomingLessons(ctx context.Context, limit int) ([]*model.Lesson, error)
}

// Machine конечный автомат диалога: по текущему состоянию пользователя и
// входящему событию возвращает ответные сообщения и переводит состояние.
// Не зависит от транспорта - отправкой занимается диспетчер.
type Machine struct {
	sessions    *state.Manager
	enroll      EnrollmentFlow
	schedule    ScheduleView
	tr          *i18n.Translator
	adminToken  string
	botUsername string
	loc         *time.Location
	logger      *zap.Logger
}

func NewMachine(
	sessions *state.Manager,
	enroll EnrollmentFlow,
	schedule ScheduleView,
	tr *i18n.Translator,
	adminToken string,
	botUsername string,
	loc *time.Location,
	logger *zap.Logger,
) *Machine {
	return &Machine{
		sessions:    sessions,
		enroll:      enroll,
		schedule:    schedule,
		tr:          tr,
		adminToken:  adminToken,
		botUsername: botUsername,
		loc:         loc,
		logger:      logger,
	}
}

// Handle обрабатывает одно событие. Ошибка означает сбой хранилища или другой
// внутренний отказ: состояние пользователя при этом не меняется, а диспетчер
// показывает общее сообщение об ошибке.
func (m *Machine) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	lang := m.lang(ev.TelegramID)

	// Кнопка отмены на reply-клавиатуре приходит обычным текстом
	if ev.Kind == EventText && m.isCancelText(ev.Text) {
		return m.cancel(ev, lang), nil
	}

	switch ev.Kind {
	case EventCommand:
		return m.handleCommand(ctx, ev, lang)
	case EventCallback:
		return m.handleCallback(ctx, ev, lang)
	case EventContact:
		return m.handleContact(ctx, ev, lang)
	default:
		return m.handleText(ctx, ev, lang)
	}
}

func (m *Machine) handleCommand(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	switch ev.Text {
	case "/start":
		if _, err := m.enroll.GetOrCreateStudent(ctx, ev.TelegramID, model.Language(lang)); err != nil {
			return nil, err
		}

		m.sessions.ClearDraft(ev.TelegramID)

		text := m.tr.T(lang, "welcome.title") + "\n\n" +
			m.tr.T(lang, "welcome.description") + "\n\n" +
			m.tr.T(lang, "welcome.menu")

		return []Reply{{ChatID: ev.ChatID, Text: text, Keyboard: m.mainMenu(lang)}}, nil

	case "/enroll":
		return m.startEnroll(ev, lang, ""), nil

	case "/schedule":
		return m.showSchedule(ctx, ev, lang)

	case "/lang":
		return []Reply{m.langMenuReply(ev.ChatID, lang)}, nil

	case "/cancel":
		return m.cancel(ev, lang), nil

	case "/admin":
		if m.sessions.IsAdmin(ev.TelegramID) {
			m.sessions.SetState(ev.TelegramID, state.StateAdminMenu)
			return []Reply{m.adminMenuReply(ev.ChatID, lang)}, nil
		}

		m.sessions.SetState(ev.TelegramID, state.StateAwaitAdminToken)
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.access_required")}}, nil

	default:
		// Неизвестная команда - показываем главное меню
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "welcome.menu"), Keyboard: m.mainMenu(lang)}}, nil
	}
}

func (m *Machine) handleText(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	text := strings.TrimSpace(ev.Text)

	switch m.sessions.GetState(ev.TelegramID) {
	case state.StateAwaitName:
		return m.receiveName(ev, lang, text)

	case state.StateAwaitPhone:
		return m.receivePhone(ctx, ev, lang, text)

	case state.StateAwaitDirection:
		// Направление выбирается кнопкой
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil

	case state.StateAwaitAdminToken:
		return m.receiveAdminToken(ev, lang, text), nil

	case state.StateAdminMenu:
		return []Reply{m.adminMenuReply(ev.ChatID, lang)}, nil

	default:
		// Произвольный текст вне диалога - показываем меню
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "welcome.menu"), Keyboard: m.mainMenu(lang)}}, nil
	}
}

func (m *Machine) handleContact(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	if m.sessions.GetState(ev.TelegramID) != state.StateAwaitPhone {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "welcome.menu"), Keyboard: m.mainMenu(lang)}}, nil
	}
	return m.receivePhone(ctx, ev, lang, ev.Phone)
}

// receiveName обрабатывает шаг ввода имени
func (m *Machine) receiveName(ev Event, lang, name string) ([]Reply, error) {
	if utf8.RuneCountInString(name) < NameMinLength {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil
	}

	m.sessions.SetDraftName(ev.TelegramID, name)
	m.sessions.SetState(ev.TelegramID, state.StateAwaitPhone)

	text := m.tr.Tf(lang, "enroll.name_received", map[string]string{"name": name})
	kb := keyboard.Contact(m.tr.T(lang, "enroll.share_contact"), m.tr.T(lang, "buttons.cancel"))

	return []Reply{{ChatID: ev.ChatID, Text: text, Keyboard: kb}}, nil
}

// receivePhone обрабатывает шаг ввода телефона. Если направление выбрано с
// карточки, заявка создаётся сразу; иначе телефон сохраняется и состояние
// продвигается только после успешной загрузки списка направлений, чтобы сбой
// хранилища не оставил диалог в полупройденном виде.
func (m *Machine) receivePhone(ctx context.Context, ev Event, lang, phone string) ([]Reply, error) {
	if !IsPhoneValid(phone) {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "enroll.invalid_phone")}}, nil
	}

	// Направление уже выбрано с карточки - шаг выбора пропускается
	if code := m.sessions.Draft(ev.TelegramID).Direction; code != "" {
		m.sessions.SetDraftPhone(ev.TelegramID, phone)
		return m.completeEnrollment(ctx, ev, lang, code)
	}

	directions, err := m.enroll.ActiveDirections(ctx)
	if err != nil {
		return nil, err
	}

	m.sessions.SetDraftPhone(ev.TelegramID, phone)
	m.sessions.SetState(ev.TelegramID, state.StateAwaitDirection)

	kb := keyboard.NewBuilder()
	for _, d := range directions {
		kb.Row(keyboard.Button(d.Title, CbSelectDirection+string(d.Code)))
	}
	kb.Row(keyboard.Button(m.tr.T(lang, "buttons.cancel"), CbCancel))

	return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "enroll.phone_received"), Keyboard: kb.Build()}}, nil
}

// receiveAdminToken сверяет токен администратора. Неверный токен всегда
// возвращает пользователя в StateIdle.
func (m *Machine) receiveAdminToken(ev Event, lang, token string) []Reply {
	if subtle.ConstantTimeCompare([]byte(token), []byte(m.adminToken)) == 1 {
		m.sessions.SetAdmin(ev.TelegramID, true)
		m.sessions.SetState(ev.TelegramID, state.StateAdminMenu)

		m.logger.Info("Admin access granted", zap.Int64("telegram_id", ev.TelegramID))

		return []Reply{
			{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.access_granted")},
			m.adminMenuReply(ev.ChatID, lang),
		}
	}

	m.sessions.SetAdmin(ev.TelegramID, false)
	m.sessions.SetState(ev.TelegramID, state.StateIdle)

	m.logger.Warn("Admin access denied", zap.Int64("telegram_id", ev.TelegramID))

	return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "admin.access_denied")}}
}

func (m *Machine) handleCallback(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	data := ev.Data

	switch {
	case data == CbNoop:
		return nil, nil

	case data == CbCancel:
		return m.cancel(ev, lang), nil

	case data == CbEnroll:
		return m.startEnroll(ev, lang, ""), nil

	case data == CbDirections:
		return m.showDirections(ctx, ev, lang)

	case strings.HasPrefix(data, CbDirectionInfo):
		return m.showDirectionDetails(ctx, ev, lang, strings.TrimPrefix(data, CbDirectionInfo))

	case strings.HasPrefix(data, CbEnrollDirection):
		return m.startDirectionEnroll(ctx, ev, lang, strings.TrimPrefix(data, CbEnrollDirection))

	case data == CbSchedule:
		return m.showSchedule(ctx, ev, lang)

	case data == CbSupport:
		text := m.tr.Tf(lang, "support.message", map[string]string{"bot": m.botUsername})
		return []Reply{{ChatID: ev.ChatID, Text: text, Keyboard: m.mainMenu(lang)}}, nil

	case data == CbLangMenu:
		return []Reply{m.langMenuReply(ev.ChatID, lang)}, nil

	case strings.HasPrefix(data, CbSetLang):
		return m.setLanguage(ctx, ev, strings.TrimPrefix(data, CbSetLang))

	case strings.HasPrefix(data, CbSelectDirection):
		return m.selectDirection(ctx, ev, lang, strings.TrimPrefix(data, CbSelectDirection))

	case data == CbAdminMenu || data == CbAdminLogout ||
		strings.HasPrefix(data, CbAdminEnrollments) ||
		strings.HasPrefix(data, CbApprove) ||
		strings.HasPrefix(data, CbReject):
		return m.handleAdminCallback(ctx, ev, lang)

	default:
		m.logger.Warn("Unknown callback", zap.String("data", data), zap.Int64("telegram_id", ev.TelegramID))
		return nil, nil
	}
}

// startEnroll начинает диалог записи. Непустой code означает, что направление
// уже выбрано с карточки и шаг выбора будет пропущен.
func (m *Machine) startEnroll(ev Event, lang, code string) []Reply {
	m.sessions.ClearDraft(ev.TelegramID)
	if code != "" {
		m.sessions.SetDraftDirection(ev.TelegramID, code)
	}
	m.sessions.SetState(ev.TelegramID, state.StateAwaitName)

	kb := keyboard.NewBuilder().Row(keyboard.Button(m.tr.T(lang, "buttons.cancel"), CbCancel)).Build()
	return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "enroll.start"), Keyboard: kb}}
}

// startDirectionEnroll начинает запись с кнопки на карточке направления
func (m *Machine) startDirectionEnroll(ctx context.Context, ev Event, lang, code string) ([]Reply, error) {
	direction, err := m.activeDirection(ctx, code)
	if err != nil {
		return nil, err
	}
	if direction == nil {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil
	}

	return m.startEnroll(ev, lang, code), nil
}

// selectDirection завершает запись выбором направления на последнем шаге
func (m *Machine) selectDirection(ctx context.Context, ev Event, lang, code string) ([]Reply, error) {
	if m.sessions.GetState(ev.TelegramID) != state.StateAwaitDirection {
		return nil, nil
	}
	return m.completeEnrollment(ctx, ev, lang, code)
}

// completeEnrollment создаёт студента и заявку по накопленному черновику
func (m *Machine) completeEnrollment(ctx context.Context, ev Event, lang, code string) ([]Reply, error) {
	draft := m.sessions.Draft(ev.TelegramID)

	_, err := m.enroll.Enroll(ctx, ev.TelegramID, draft.Name, draft.Phone, model.Language(lang), model.DirectionCode(code))

	switch {
	case err == nil:
		m.sessions.ClearDraft(ev.TelegramID)
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "enroll.direction_received"), Keyboard: m.mainMenu(lang)}}, nil

	case isAlreadyEnrolled(err):
		// Дубликат - заявка не создаётся, диалог завершается
		m.sessions.ClearDraft(ev.TelegramID)
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "enroll.already_enrolled"), Keyboard: m.mainMenu(lang)}}, nil

	case isDirectionNotFound(err):
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil

	default:
		return nil, err
	}
}

func (m *Machine) setLanguage(ctx context.Context, ev Event, newLang string) ([]Reply, error) {
	if !m.tr.Has(newLang) {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(m.lang(ev.TelegramID), "errors.invalid_input")}}, nil
	}

	if err := m.enroll.ChangeLanguage(ctx, ev.TelegramID, model.Language(newLang)); err != nil {
		return nil, err
	}

	m.sessions.SetLang(ev.TelegramID, newLang)

	return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(newLang, "lang.changed"), Keyboard: m.mainMenu(newLang)}}, nil
}

func (m *Machine) showDirections(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	directions, err := m.enroll.ActiveDirections(ctx)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(m.tr.T(lang, "directions.title"))
	kb := keyboard.NewBuilder()
	for _, d := range directions {
		sb.WriteString("\n\n")
		sb.WriteString(d.Title)
		if d.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(d.Description)
		}
		kb.Row(keyboard.Button(d.Title, CbDirectionInfo+string(d.Code)))
	}
	kb.Row(keyboard.Button(m.tr.T(lang, "buttons.back"), CbCancel))

	return []Reply{{ChatID: ev.ChatID, Text: sb.String(), Keyboard: kb.Build()}}, nil
}

// showDirectionDetails показывает карточку направления с кнопкой записи
func (m *Machine) showDirectionDetails(ctx context.Context, ev Event, lang, code string) ([]Reply, error) {
	direction, err := m.activeDirection(ctx, code)
	if err != nil {
		return nil, err
	}
	if direction == nil {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "errors.invalid_input")}}, nil
	}

	text := direction.Title
	if direction.Description != "" {
		text += "\n\n" + direction.Description
	}

	enrollText := m.tr.Tf(lang, "directions.enroll_button", map[string]string{"title": direction.Title})
	kb := keyboard.NewBuilder().
		Row(keyboard.Button(enrollText, CbEnrollDirection+code)).
		Row(keyboard.Button(m.tr.T(lang, "buttons.back"), CbDirections)).
		Build()

	return []Reply{{ChatID: ev.ChatID, Text: text, Keyboard: kb}}, nil
}

// activeDirection находит активное направление по коду, nil если его нет
func (m *Machine) activeDirection(ctx context.Context, code string) (*model.Direction, error) {
	directions, err := m.enroll.ActiveDirections(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range directions {
		if string(d.Code) == code {
			return d, nil
		}
	}
	return nil, nil
}

func (m *Machine) showSchedule(ctx context.Context, ev Event, lang string) ([]Reply, error) {
	lessons, err := m.schedule.UpcomingLessons(ctx, ScheduleLimit)
	if err != nil {
		return nil, err
	}

	if len(lessons) == 0 {
		return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "schedule.no_lessons"), Keyboard: m.mainMenu(lang)}}, nil
	}

	var sb strings.Builder
	sb.WriteString(m.tr.T(lang, "schedule.title"))
	for _, lesson := range lessons {
		starts := lesson.StartsAt.In(m.loc)
		args := map[string]string{
			"date":  starts.Format("02.01.2006"),
			"time":  starts.Format("15:04"),
			"topic": lesson.Topic,
		}
		if lesson.Group != nil {
			args["group"] = lesson.Group.Title
		}
		if lesson.Direction != nil {
			args["direction"] = lesson.Direction.Title
		}
		sb.WriteString("\n")
		sb.WriteString(m.tr.Tf(lang, "schedule.lesson_format", args))
	}

	return []Reply{{ChatID: ev.ChatID, Text: sb.String(), Keyboard: m.mainMenu(lang)}}, nil
}

// cancel очищает черновик и возвращает пользователя в главное меню
func (m *Machine) cancel(ev Event, lang string) []Reply {
	m.sessions.ClearDraft(ev.TelegramID)
	return []Reply{{ChatID: ev.ChatID, Text: m.tr.T(lang, "cancel.done"), Keyboard: m.mainMenu(lang)}}
}

// langMenuReply меню выбора языка, общее для команды /lang и кнопки меню
func (m *Machine) langMenuReply(chatID int64, lang string) Reply {
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button(m.tr.T(lang, "lang.ru"), CbSetLang+"ru"),
			keyboard.Button(m.tr.T(lang, "lang.kk"), CbSetLang+"kk"),
		).
		Build()
	return Reply{ChatID: chatID, Text: m.tr.T(lang, "lang.select"), Keyboard: kb}
}

func (m *Machine) mainMenu(lang string) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(
			keyboard.Button(m.tr.T(lang, "menu.directions"), CbDirections),
			keyboard.Button(m.tr.T(lang, "menu.enroll"), CbEnroll),
		).
		Row(
			keyboard.Button(m.tr.T(lang, "menu.schedule"), CbSchedule),
			keyboard.Button(m.tr.T(lang, "menu.support"), CbSupport),
		).
		Row(keyboard.Button(m.tr.T(lang, "menu.lang"), CbLangMenu)).
		Build()
}

// lang возвращает язык сессии или язык по умолчанию
func (m *Machine) lang(telegramID int64) string {
	if lang, ok := m.sessions.Lang(telegramID); ok {
		return lang
	}
	return m.tr.DefaultLang()
}

// isCancelText проверяет совпадение текста с кнопкой отмены на любом языке
func (m *Machine) isCancelText(text string) bool {
	text = strings.TrimSpace(text)
	for _, lang := range []string{"ru", "kk"} {
		if text == m.tr.T(lang, "buttons.cancel") {
			return true
		}
	}
	return false
}
