package state

import (
	"sync"
)

// Manager управляет сессиями пользователей. Сессия живёт в памяти процесса
// и передаётся в обработчики явно, а не через глобальное состояние.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер сессий
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (m *Manager) GetState(telegramID int64) UserState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.sessions[telegramID]; exists {
		return data.State
	}
	return StateIdle
}

// SetState устанавливает состояние пользователя. Переход в StateIdle не
// удаляет сессию: язык и флаг администратора переживают завершение диалога.
func (m *Manager) SetState(telegramID int64, st UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).State = st
}

// Lang возвращает язык пользователя, если он известен
func (m *Manager) Lang(telegramID int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.sessions[telegramID]; exists && data.Lang != "" {
		return data.Lang, true
	}
	return "", false
}

// SetLang запоминает язык пользователя
func (m *Manager) SetLang(telegramID int64, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).Lang = lang
}

// IsAdmin проверяет флаг администратора
func (m *Manager) IsAdmin(telegramID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.sessions[telegramID]; exists {
		return data.AdminAuthed
	}
	return false
}

// SetAdmin устанавливает флаг администратора
func (m *Manager) SetAdmin(telegramID int64, authed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).AdminAuthed = authed
}

// Draft возвращает копию черновика заявки
func (m *Manager) Draft(telegramID int64) EnrollDraft {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.sessions[telegramID]; exists {
		return data.Draft
	}
	return EnrollDraft{}
}

// SetDraftName сохраняет имя в черновике
func (m *Manager) SetDraftName(telegramID int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).Draft.Name = name
}

// SetDraftPhone сохраняет телефон в черновике
func (m *Manager) SetDraftPhone(telegramID int64, phone string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).Draft.Phone = phone
}

// SetDraftDirection сохраняет в черновике заранее выбранное направление
func (m *Manager) SetDraftDirection(telegramID int64, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensure(telegramID).Draft.Direction = code
}

// ClearDraft очищает черновик и возвращает пользователя в StateIdle
func (m *Manager) ClearDraft(telegramID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, exists := m.sessions[telegramID]; exists {
		data.Draft = EnrollDraft{}
		data.State = StateIdle
	}
}

// Clear полностью удаляет сессию пользователя
func (m *Manager) Clear(telegramID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, telegramID)
}

func (m *Manager) ensure(telegramID int64) *UserData {
	data, exists := m.sessions[telegramID]
	if !exists {
		data = &UserData{}
		m.sessions[telegramID] = data
	}
	return data
}
