package fsm

import "github.com/go-telegram/bot/models"

// EventKind тип входящего события
type EventKind int

const (
	EventCommand EventKind = iota // Команда вида /start
	EventText                     // Обычный текст
	EventCallback                 // Нажатие inline кнопки
	EventContact                  // Пользователь поделился контактом
)

// Event входящее событие диалога, извлечённое из Telegram update
type Event struct {
	TelegramID int64
	ChatID     int64
	Kind       EventKind
	Text       string // Текст сообщения или команда
	Data       string // Callback data для EventCallback
	Phone      string // Номер телефона для EventContact
}

// Reply исходящее сообщение, которое нужно отправить после обработки события
type Reply struct {
	ChatID   int64
	Text     string
	Keyboard models.ReplyMarkup
}

// ========================
// Callback Data Patterns
// ========================

const (
	CbEnroll     = "enroll"
	CbDirections = "directions"
	CbSchedule   = "schedule"
	CbSupport    = "support"
	CbCancel     = "cancel"
	CbNoop       = "noop"

	CbLangMenu = "lang_menu"
	CbSetLang  = "set_lang:" // set_lang:ru

	CbDirectionInfo   = "direction_info:"   // direction_info:python (карточка направления)
	CbEnrollDirection = "enroll_direction:" // enroll_direction:python (запись на конкретное направление)
	CbSelectDirection = "direction:"        // direction:python (выбор на шаге диалога)

	CbAdminMenu        = "admin_menu"
	CbAdminLogout      = "admin_logout"
	CbAdminEnrollments = "admin_enrollments:"  // admin_enrollments:0 (страница)
	CbApprove          = "approve_enrollment:" // approve_enrollment:123
	CbReject           = "reject_enrollment:"  // reject_enrollment:123
)
