package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateIdle UserState = "" // Нет активного диалога

	// Состояния записи на курс
	StateAwaitName      UserState = "await_name"
	StateAwaitPhone     UserState = "await_phone"
	StateAwaitDirection UserState = "await_direction"

	// Состояния админа
	StateAwaitAdminToken UserState = "await_admin_token"
	StateAdminMenu       UserState = "admin_menu"
)

// EnrollDraft черновик заявки, заполняется по шагам диалога.
// Direction заполняется заранее, если запись началась с карточки направления.
type EnrollDraft struct {
	Name      string
	Phone     string
	Direction string
}

// UserData хранит сессию пользователя: состояние диалога, язык,
// флаг администратора и черновик заявки
type UserData struct {
	State       UserState
	Lang        string
	AdminAuthed bool
	Draft       EnrollDraft
}
