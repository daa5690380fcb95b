package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m editorModel, msg tea.Msg) (editorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(editorModel)
	require.True(t, ok)
	return em, cmd
}

func TestEditorModel_Prefilled(t *testing.T) {
	m := newEditorModel("Enter your commit message", "Update a.txt\n")
	assert.Equal(t, "Update a.txt", m.Value())
	assert.Contains(t, m.View(), "Enter your commit message")
	assert.NotNil(t, m.Init())
}

func TestEditorModel_TypingAppends(t *testing.T) {
	m := newEditorModel("Edit", "Fix")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" parser")})
	assert.Equal(t, "Fix parser", m.Value())
	assert.False(t, m.submitted)
}

func TestEditorModel_Submit(t *testing.T) {
	m := newEditorModel("Edit", "Fix parser")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.submitted)
	assert.Empty(t, m.View())
}

func TestEditorModel_Cancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newEditorModel("Edit", "Fix parser")
		m, cmd := update(t, m, tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.True(t, m.cancelled)
		assert.False(t, m.submitted)
	}
}
