package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// editorModel is a bubbletea model that edits a prefilled message
type editorModel struct {
	textarea  textarea.Model
	label     string
	submitted bool
	cancelled bool
}

func newEditorModel(label, initial string) editorModel {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(72)
	ta.SetHeight(8)
	ta.SetValue(initial)
	ta.Focus()

	return editorModel{textarea: ta, label: label}
}

// Init implements the Bubbletea Model interface
func (m editorModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements the Bubbletea Model interface
func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyCtrlS, tea.KeyCtrlD:
			m.submitted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.textarea.SetWidth(msg.Width - 6)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View implements the Bubbletea Model interface
func (m editorModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Render(m.label)

	instructions := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("Ctrl+S to save, Esc to cancel")

	return style.Render(fmt.Sprintf("%s\n%s\n\n%s", header, instructions, m.textarea.View()))
}

// Value returns the edited text without surrounding whitespace
func (m editorModel) Value() string {
	return strings.TrimSpace(m.textarea.Value())
}

// EditMessage opens an inline text area prefilled with initial and
// returns the edited text. Esc or Ctrl+C returns ErrInterrupted.
func EditMessage(label, initial string, opts ...tea.ProgramOption) (string, error) {
	p := tea.NewProgram(newEditorModel(label, initial), opts...)

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(editorModel)
	if !ok || m.cancelled {
		return "", ErrInterrupted
	}

	value := m.Value()
	if value == "" {
		return "", ErrEmptyInput
	}
	return value, nil
}
