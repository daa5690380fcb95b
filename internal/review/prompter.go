package review

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huimingz/commitgen/internal/log"
	"github.com/huimingz/commitgen/internal/ui"
)

const editHint = "Type the new message and press Ctrl+D when finished."

// LinePrompter asks questions over plain line-based input. All prompts share
// one scanner so answers typed ahead are not lost between questions.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLinePrompter creates a LinePrompter reading from in and writing to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return NewScannerPrompter(bufio.NewScanner(in), out)
}

// NewScannerPrompter creates a LinePrompter over a scanner that earlier
// prompts, such as the API key prompt, have already read from.
func NewScannerPrompter(scanner *bufio.Scanner, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: scanner, out: out}
}

func (p *LinePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	return ui.ConfirmScanner(question, defaultYes, p.scanner, p.out)
}

// Edit shows the current text and reads a replacement ended by Ctrl+D.
// Submitting nothing keeps the current text.
func (p *LinePrompter) Edit(ctx context.Context, label, initial string) (string, error) {
	prompt := &ui.MultilinePrompt{Prompt: label, Hint: editHint, Initial: initial}
	return prompt.ShowScanner(ctx, p.scanner, p.out)
}

// TerminalPrompter edits in a bubbletea text area and asks yes/no questions
// on the terminal. When the text area cannot take over the terminal, editing
// falls back to a readline prompt.
type TerminalPrompter struct {
	in   io.Reader
	out  io.Writer
	line *LinePrompter
}

// NewTerminalPrompter creates a prompter bound to stdin and stdout
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:   os.Stdin,
		out:  os.Stdout,
		line: NewLinePrompter(os.Stdin, os.Stdout),
	}
}

func (p *TerminalPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	return p.line.Confirm(question, defaultYes)
}

func (p *TerminalPrompter) Edit(ctx context.Context, label, initial string) (string, error) {
	text, err := ui.EditMessage(label, initial, tea.WithInput(p.in), tea.WithOutput(p.out), tea.WithContext(ctx))
	if err == nil || errors.Is(err, ui.ErrInterrupted) || errors.Is(err, ui.ErrEmptyInput) {
		return text, err
	}
	if ctx.Err() != nil {
		return "", ui.ErrInterrupted
	}

	log.Debug("Editor unavailable (%v), using line input", err)
	prompt := &ui.MultilinePrompt{Prompt: label, Hint: editHint, Initial: initial}
	return prompt.ShowWithContext(ctx, p.in, p.out)
}
