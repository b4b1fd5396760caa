package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerDefaultState(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateIdle, m.GetState(42))
	assert.False(t, m.IsAdmin(42))

	_, ok := m.Lang(42)
	assert.False(t, ok)
}

func TestManagerStateTransitions(t *testing.T) {
	m := NewManager()

	m.SetState(1, StateAwaitName)
	assert.Equal(t, StateAwaitName, m.GetState(1))

	m.SetState(1, StateAwaitPhone)
	assert.Equal(t, StateAwaitPhone, m.GetState(1))

	// Состояния пользователей независимы
	assert.Equal(t, StateIdle, m.GetState(2))
}

func TestManagerDraft(t *testing.T) {
	m := NewManager()

	m.SetDraftName(1, "Алиса")
	m.SetDraftPhone(1, "+77001234567")
	m.SetDraftDirection(1, "python")

	draft := m.Draft(1)
	assert.Equal(t, "Алиса", draft.Name)
	assert.Equal(t, "+77001234567", draft.Phone)
	assert.Equal(t, "python", draft.Direction)
}

func TestClearDraftKeepsLangAndAdmin(t *testing.T) {
	m := NewManager()

	m.SetLang(1, "kk")
	m.SetAdmin(1, true)
	m.SetState(1, StateAwaitPhone)
	m.SetDraftName(1, "Алиса")

	m.ClearDraft(1)

	assert.Equal(t, StateIdle, m.GetState(1))
	assert.Equal(t, EnrollDraft{}, m.Draft(1))

	lang, ok := m.Lang(1)
	assert.True(t, ok)
	assert.Equal(t, "kk", lang)
	assert.True(t, m.IsAdmin(1))
}

func TestClearRemovesEverything(t *testing.T) {
	m := NewManager()

	m.SetLang(1, "ru")
	m.SetAdmin(1, true)
	m.SetState(1, StateAdminMenu)

	m.Clear(1)

	assert.Equal(t, StateIdle, m.GetState(1))
	assert.False(t, m.IsAdmin(1))

	_, ok := m.Lang(1)
	assert.False(t, ok)
}
