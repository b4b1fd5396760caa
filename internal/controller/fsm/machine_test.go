package fsm

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codemasterspro/cmpro-bot/internal/controller/state"
	"github.com/codemasterspro/cmpro-bot/internal/i18n"
	"github.com/codemasterspro/cmpro-bot/internal/model"
	"github.com/codemasterspro/cmpro-bot/internal/service"
)

const testAdminToken = "test-admin-token-0123456789"

type enrollCall struct {
	telegramID int64
	fullName   string
	phone      string
	code       model.DirectionCode
}

type mockEnrollFlow struct {
	directions []*model.Direction
	enrollErr  error
	enrolls    []enrollCall

	pending    []*model.Enrollment
	totalPages int

	decideResult  *model.Enrollment
	decideChanged bool
	decideErr     error
	decideCalls   int

	langChanges map[int64]model.Language
}

func (m *mockEnrollFlow) GetOrCreateStudent(ctx context.Context, telegramID int64, lang model.Language) (*model.Student, error) {
	return &model.Student{ID: telegramID, TelegramID: telegramID, Lang: lang}, nil
}

func (m *mockEnrollFlow) ActiveDirections(ctx context.Context) ([]*model.Direction, error) {
	return m.directions, nil
}

func (m *mockEnrollFlow) Enroll(ctx context.Context, telegramID int64, fullName, phone string, lang model.Language, code model.DirectionCode) (*model.Enrollment, error) {
	if m.enrollErr != nil {
		return nil, m.enrollErr
	}
	m.enrolls = append(m.enrolls, enrollCall{telegramID, fullName, phone, code})
	return &model.Enrollment{ID: int64(len(m.enrolls)), Status: model.EnrollmentStatusPending}, nil
}

func (m *mockEnrollFlow) PendingPage(ctx context.Context, page, pageSize int) ([]*model.Enrollment, int, error) {
	return m.pending, m.totalPages, nil
}

func (m *mockEnrollFlow) Approve(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error) {
	return m.decide()
}

func (m *mockEnrollFlow) Reject(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error) {
	return m.decide()
}

func (m *mockEnrollFlow) decide() (*model.Enrollment, bool, error) {
	m.decideCalls++
	if m.decideErr != nil {
		return nil, false, m.decideErr
	}
	// Первое нажатие меняет статус, остальные идемпотентны
	changed := m.decideChanged && m.decideCalls == 1
	return m.decideResult, changed, nil
}

func (m *mockEnrollFlow) ChangeLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	if m.langChanges == nil {
		m.langChanges = make(map[int64]model.Language)
	}
	m.langChanges[telegramID] = lang
	return nil
}

type mockScheduleView struct {
	lessons []*model.Lesson
}

func (m *mockScheduleView) UpcomingLessons(ctx context.Context, limit int) ([]*model.Lesson, error) {
	return m.lessons, nil
}

func newTestMachine(t *testing.T, enroll *mockEnrollFlow, schedule *mockScheduleView) (*Machine, *state.Manager, *i18n.Translator) {
	t.Helper()

	tr, err := i18n.New("ru", zap.NewNop())
	require.NoError(t, err)

	sessions := state.NewManager()
	machine := NewMachine(sessions, enroll, schedule, tr, testAdminToken, "@cmpro_bot", time.UTC, zap.NewNop())

	return machine, sessions, tr
}

func command(userID int64, text string) Event {
	return Event{TelegramID: userID, ChatID: userID, Kind: EventCommand, Text: text}
}

func textEvent(userID int64, text string) Event {
	return Event{TelegramID: userID, ChatID: userID, Kind: EventText, Text: text}
}

func callback(userID int64, data string) Event {
	return Event{TelegramID: userID, ChatID: userID, Kind: EventCallback, Data: data}
}

func TestStartShowsMainMenu(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), command(1, "/start"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, tr.T("ru", "welcome.title"))
	assert.NotNil(t, replies[0].Keyboard)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
}

func TestEnrollCommandStartsDialog(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), command(1, "/enroll"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Equal(t, tr.T("ru", "enroll.start"), replies[0].Text)
	assert.Equal(t, state.StateAwaitName, sessions.GetState(1))
}

func TestLangCommandShowsLanguageMenu(t *testing.T) {
	machine, _, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), command(1, "/lang"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Equal(t, tr.T("ru", "lang.select"), replies[0].Text)

	kb, ok := replies[0].Keyboard.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, CbSetLang+"ru", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CbSetLang+"kk", kb.InlineKeyboard[0][1].CallbackData)
}

func TestScheduleCommandShowsSchedule(t *testing.T) {
	machine, _, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), command(1, "/schedule"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Equal(t, tr.T("ru", "schedule.no_lessons"), replies[0].Text)
}

func TestEnrollHappyPath(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{
		{ID: 10, Code: model.DirectionPython, Title: "Python"},
		{ID: 11, Code: model.DirectionGo, Title: "Go"},
	}}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	_, err := machine.Handle(ctx, callback(1, CbEnroll))
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitName, sessions.GetState(1))

	replies, err := machine.Handle(ctx, textEvent(1, "Алиса Иванова"))
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitPhone, sessions.GetState(1))
	assert.Contains(t, replies[0].Text, "Алиса Иванова")

	replies, err = machine.Handle(ctx, textEvent(1, "+7 700 123 45 67"))
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitDirection, sessions.GetState(1))
	assert.Equal(t, tr.T("ru", "enroll.phone_received"), replies[0].Text)
	assert.NotNil(t, replies[0].Keyboard)

	replies, err = machine.Handle(ctx, callback(1, CbSelectDirection+"python"))
	require.NoError(t, err)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
	assert.Equal(t, tr.T("ru", "enroll.direction_received"), replies[0].Text)

	require.Len(t, enroll.enrolls, 1)
	assert.Equal(t, enrollCall{1, "Алиса Иванова", "+7 700 123 45 67", model.DirectionPython}, enroll.enrolls[0])
}

func TestEnrollNameTooShort(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))

	replies, err := machine.Handle(ctx, textEvent(1, "A"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "errors.invalid_input"), replies[0].Text)
	assert.Equal(t, state.StateAwaitName, sessions.GetState(1))
}

func TestEnrollInvalidPhone(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))
	machine.Handle(ctx, textEvent(1, "Алиса"))

	replies, err := machine.Handle(ctx, textEvent(1, "12345"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "enroll.invalid_phone"), replies[0].Text)
	assert.Equal(t, state.StateAwaitPhone, sessions.GetState(1))
}

func TestEnrollViaSharedContact(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{{ID: 10, Code: model.DirectionPython, Title: "Python"}}}
	machine, sessions, _ := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))
	machine.Handle(ctx, textEvent(1, "Алиса"))

	ev := Event{TelegramID: 1, ChatID: 1, Kind: EventContact, Phone: "+77001234567"}
	_, err := machine.Handle(ctx, ev)
	require.NoError(t, err)

	assert.Equal(t, state.StateAwaitDirection, sessions.GetState(1))
	assert.Equal(t, "+77001234567", sessions.Draft(1).Phone)
}

func TestDirectionStepIgnoresText(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{{ID: 10, Code: model.DirectionPython, Title: "Python"}}}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))
	machine.Handle(ctx, textEvent(1, "Алиса"))
	machine.Handle(ctx, textEvent(1, "+77001234567"))

	replies, err := machine.Handle(ctx, textEvent(1, "python"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "errors.invalid_input"), replies[0].Text)
	assert.Equal(t, state.StateAwaitDirection, sessions.GetState(1))
	assert.Empty(t, enroll.enrolls)
}

func TestDirectionsListHasButtonPerDirection(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{
		{ID: 10, Code: model.DirectionPython, Title: "Python", Description: "Основы Python"},
		{ID: 11, Code: model.DirectionGo, Title: "Go"},
	}}
	machine, _, tr := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbDirections))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, tr.T("ru", "directions.title"))
	assert.Contains(t, replies[0].Text, "Основы Python")

	kb, ok := replies[0].Keyboard.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	// По кнопке на направление плюс ряд с кнопкой "назад"
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "Python", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, CbDirectionInfo+"python", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CbDirectionInfo+"go", kb.InlineKeyboard[1][0].CallbackData)
}

func TestDirectionDetailsShowsEnrollButton(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{
		{ID: 10, Code: model.DirectionPython, Title: "Python", Description: "Основы Python"},
	}}
	machine, _, tr := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbDirectionInfo+"python"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Python")
	assert.Contains(t, replies[0].Text, "Основы Python")

	kb, ok := replies[0].Keyboard.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	enrollText := tr.Tf("ru", "directions.enroll_button", map[string]string{"title": "Python"})
	assert.Equal(t, enrollText, kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, CbEnrollDirection+"python", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CbDirections, kb.InlineKeyboard[1][0].CallbackData)
}

func TestDirectionDetailsUnknownCode(t *testing.T) {
	machine, _, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbDirectionInfo+"rust"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Equal(t, tr.T("ru", "errors.invalid_input"), replies[0].Text)
}

func TestEnrollFromDirectionCardSkipsDirectionStep(t *testing.T) {
	enroll := &mockEnrollFlow{directions: []*model.Direction{
		{ID: 10, Code: model.DirectionPython, Title: "Python"},
	}}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	replies, err := machine.Handle(ctx, callback(1, CbEnrollDirection+"python"))
	require.NoError(t, err)
	assert.Equal(t, tr.T("ru", "enroll.start"), replies[0].Text)
	assert.Equal(t, state.StateAwaitName, sessions.GetState(1))
	assert.Equal(t, "python", sessions.Draft(1).Direction)

	machine.Handle(ctx, textEvent(1, "Алиса Иванова"))

	// После телефона заявка создаётся сразу, без шага выбора направления
	replies, err = machine.Handle(ctx, textEvent(1, "+77001234567"))
	require.NoError(t, err)
	assert.Equal(t, tr.T("ru", "enroll.direction_received"), replies[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))

	require.Len(t, enroll.enrolls, 1)
	assert.Equal(t, enrollCall{1, "Алиса Иванова", "+77001234567", model.DirectionPython}, enroll.enrolls[0])
}

func TestEnrollFromDirectionCardUnknownCode(t *testing.T) {
	enroll := &mockEnrollFlow{}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbEnrollDirection+"rust"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "errors.invalid_input"), replies[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
}

func TestSelectDirectionOutsideDialog(t *testing.T) {
	enroll := &mockEnrollFlow{}
	machine, _, _ := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbSelectDirection+"python"))
	require.NoError(t, err)

	assert.Nil(t, replies)
	assert.Empty(t, enroll.enrolls)
}

func TestEnrollDuplicate(t *testing.T) {
	enroll := &mockEnrollFlow{
		directions: []*model.Direction{{ID: 10, Code: model.DirectionPython, Title: "Python"}},
		enrollErr:  service.ErrAlreadyEnrolled,
	}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))
	machine.Handle(ctx, textEvent(1, "Алиса"))
	machine.Handle(ctx, textEvent(1, "+77001234567"))

	replies, err := machine.Handle(ctx, callback(1, CbSelectDirection+"python"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "enroll.already_enrolled"), replies[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
}

func TestCancelButtonText(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})
	ctx := context.Background()

	machine.Handle(ctx, callback(1, CbEnroll))
	machine.Handle(ctx, textEvent(1, "Алиса"))

	// Кнопка отмены с reply-клавиатуры приходит обычным текстом
	replies, err := machine.Handle(ctx, textEvent(1, tr.T("ru", "buttons.cancel")))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "cancel.done"), replies[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
	assert.Equal(t, state.EnrollDraft{}, sessions.Draft(1))
}

func TestAdminTokenFlow(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})
	ctx := context.Background()

	replies, err := machine.Handle(ctx, command(1, "/admin"))
	require.NoError(t, err)
	assert.Equal(t, tr.T("ru", "admin.access_required"), replies[0].Text)
	assert.Equal(t, state.StateAwaitAdminToken, sessions.GetState(1))

	// Неверный токен возвращает в обычный режим
	replies, err = machine.Handle(ctx, textEvent(1, "wrong-token"))
	require.NoError(t, err)
	assert.Equal(t, tr.T("ru", "admin.access_denied"), replies[0].Text)
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
	assert.False(t, sessions.IsAdmin(1))

	machine.Handle(ctx, command(1, "/admin"))

	replies, err = machine.Handle(ctx, textEvent(1, testAdminToken))
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, tr.T("ru", "admin.access_granted"), replies[0].Text)
	assert.Equal(t, state.StateAdminMenu, sessions.GetState(1))
	assert.True(t, sessions.IsAdmin(1))

	// Повторный /admin не спрашивает токен снова
	replies, err = machine.Handle(ctx, command(1, "/admin"))
	require.NoError(t, err)
	assert.Equal(t, tr.T("ru", "admin.menu"), replies[0].Text)
}

func TestAdminCallbackRequiresAuth(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbAdminEnrollments+"0"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "admin.access_required"), replies[0].Text)
	assert.Equal(t, state.StateAwaitAdminToken, sessions.GetState(1))
}

func TestApproveNotifiesStudentOnce(t *testing.T) {
	enroll := &mockEnrollFlow{
		decideResult: &model.Enrollment{
			ID:        3,
			Status:    model.EnrollmentStatusApproved,
			Student:   &model.Student{ID: 7, TelegramID: 999, Lang: model.LangKazakh},
			Direction: &model.Direction{ID: 10, Title: "Python"},
		},
		decideChanged: true,
	}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})
	ctx := context.Background()

	sessions.SetAdmin(1, true)
	sessions.SetState(1, state.StateAdminMenu)

	replies, err := machine.Handle(ctx, callback(1, CbApprove+"3"))
	require.NoError(t, err)

	// Подтверждение админу, уведомление студенту на его языке, обновлённый список
	require.Len(t, replies, 3)
	assert.Equal(t, int64(1), replies[0].ChatID)
	assert.Equal(t, tr.T("ru", "admin.approved"), replies[0].Text)
	assert.Equal(t, int64(999), replies[1].ChatID)
	assert.Equal(t, tr.Tf("kk", "admin.student_approved", map[string]string{"direction": "Python"}), replies[1].Text)
	assert.Equal(t, tr.T("ru", "admin.no_enrollments"), replies[2].Text)

	// Повторное нажатие по той же заявке студенту ничего не шлёт
	replies, err = machine.Handle(ctx, callback(1, CbApprove+"3"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, tr.T("ru", "admin.already_processed"), replies[0].Text)
}

func TestRejectNotifiesStudent(t *testing.T) {
	enroll := &mockEnrollFlow{
		decideResult: &model.Enrollment{
			ID:        4,
			Status:    model.EnrollmentStatusRejected,
			Student:   &model.Student{ID: 7, TelegramID: 999, Lang: model.LangRussian},
			Direction: &model.Direction{ID: 11, Title: "Go"},
		},
		decideChanged: true,
	}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})

	sessions.SetAdmin(1, true)

	replies, err := machine.Handle(context.Background(), callback(1, CbReject+"4"))
	require.NoError(t, err)

	require.Len(t, replies, 3)
	assert.Equal(t, tr.Tf("ru", "admin.student_rejected", map[string]string{"direction": "Go"}), replies[1].Text)
}

func TestAdminEnrollmentsPage(t *testing.T) {
	enroll := &mockEnrollFlow{
		pending: []*model.Enrollment{
			{
				ID:        1,
				Student:   &model.Student{FullName: "Алиса", Phone: "+77001234567"},
				Direction: &model.Direction{Title: "Python"},
			},
			{
				ID:        2,
				Student:   &model.Student{},
				Direction: &model.Direction{Title: "Go"},
			},
		},
		totalPages: 3,
	}
	machine, sessions, _ := newTestMachine(t, enroll, &mockScheduleView{})

	sessions.SetAdmin(1, true)

	replies, err := machine.Handle(context.Background(), callback(1, CbAdminEnrollments+"0"))
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Алиса")
	assert.Contains(t, replies[0].Text, "Python")
	// Пустые поля показываются прочерком
	assert.Contains(t, replies[0].Text, "—")
	assert.NotNil(t, replies[0].Keyboard)
}

func TestAdminLogout(t *testing.T) {
	machine, sessions, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	sessions.SetAdmin(1, true)
	sessions.SetState(1, state.StateAdminMenu)

	replies, err := machine.Handle(context.Background(), callback(1, CbAdminLogout))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "admin.logged_out"), replies[0].Text)
	assert.False(t, sessions.IsAdmin(1))
	assert.Equal(t, state.StateIdle, sessions.GetState(1))
}

func TestSetLanguage(t *testing.T) {
	enroll := &mockEnrollFlow{}
	machine, sessions, tr := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbSetLang+"kk"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("kk", "lang.changed"), replies[0].Text)
	assert.Equal(t, model.LangKazakh, enroll.langChanges[1])

	lang, ok := sessions.Lang(1)
	assert.True(t, ok)
	assert.Equal(t, "kk", lang)
}

func TestSetUnsupportedLanguage(t *testing.T) {
	enroll := &mockEnrollFlow{}
	machine, _, tr := newTestMachine(t, enroll, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbSetLang+"en"))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "errors.invalid_input"), replies[0].Text)
	assert.Empty(t, enroll.langChanges)
}

func TestScheduleEmpty(t *testing.T) {
	machine, _, tr := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbSchedule))
	require.NoError(t, err)

	assert.Equal(t, tr.T("ru", "schedule.no_lessons"), replies[0].Text)
}

func TestScheduleFormatsLessons(t *testing.T) {
	schedule := &mockScheduleView{lessons: []*model.Lesson{
		{
			ID:        1,
			Topic:     "Основы синтаксиса",
			StartsAt:  time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC),
			Group:     &model.Group{Title: "Go Basics"},
			Direction: &model.Direction{Title: "Go"},
		},
	}}
	machine, _, _ := newTestMachine(t, &mockEnrollFlow{}, schedule)

	replies, err := machine.Handle(context.Background(), callback(1, CbSchedule))
	require.NoError(t, err)

	assert.Contains(t, replies[0].Text, "10.09.2026")
	assert.Contains(t, replies[0].Text, "13:00")
	assert.Contains(t, replies[0].Text, "Основы синтаксиса")
	assert.Contains(t, replies[0].Text, "Go Basics")
}

func TestNoopCallback(t *testing.T) {
	machine, _, _ := newTestMachine(t, &mockEnrollFlow{}, &mockScheduleView{})

	replies, err := machine.Handle(context.Background(), callback(1, CbNoop))
	require.NoError(t, err)
	assert.Nil(t, replies)
}
