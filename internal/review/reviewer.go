package review

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/huimingz/commitgen/internal/log"
	"github.com/huimingz/commitgen/internal/ui"
)

// Prompt texts shown at each gate
const (
	UseMessageQuestion = "Use this message?"
	EditLabel          = "Enter your commit message"
	CommitQuestion     = "Commit with this message?"
)

// ErrCancelled is returned when the user aborts the review. Nothing has been
// staged or committed at that point.
var ErrCancelled = errors.New("commit cancelled by user")

// Prompter asks the user questions. Implementations return ui.ErrInterrupted
// or io.EOF when the user gives up; the reviewer treats both as a cancel.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Edit(ctx context.Context, label, initial string) (string, error)
}

// Option configures a Reviewer
type Option func(*Reviewer)

// WithEditGate enables or disables the "use this message?" gate
func WithEditGate(enabled bool) Option {
	return func(r *Reviewer) {
		r.editGate = enabled
	}
}

// WithConfirmGate enables or disables the "commit with this message?" gate
func WithConfirmGate(enabled bool) Option {
	return func(r *Reviewer) {
		r.confirmGate = enabled
	}
}

// Reviewer walks a candidate message through the review states. A disabled
// gate answers itself with the default, so both gates can be skipped
// independently.
type Reviewer struct {
	prompter    Prompter
	editGate    bool
	confirmGate bool
}

// NewReviewer creates a Reviewer with both gates enabled
func NewReviewer(p Prompter, opts ...Option) *Reviewer {
	r := &Reviewer{
		prompter:    p,
		editGate:    true,
		confirmGate: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Review returns the approved message or ErrCancelled
func (r *Reviewer) Review(ctx context.Context, message string) (string, error) {
	state := Presented
	working := message

	for !state.Terminal() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		event, err := r.decide(ctx, state, &working)
		if err != nil {
			return "", err
		}

		next, err := Transition(state, event)
		if err != nil {
			return "", err
		}
		log.Debug("Review: %s --%s--> %s", state, event, next)
		state = next
	}

	if state == Cancelled {
		return "", ErrCancelled
	}
	return working, nil
}

// decide asks the question belonging to state and maps the answer to an event
func (r *Reviewer) decide(ctx context.Context, state State, working *string) (Event, error) {
	switch state {
	case Presented:
		if !r.editGate {
			return Approve, nil
		}
		ok, err := r.prompter.Confirm(UseMessageQuestion, true)
		if err != nil {
			return asCancel(err)
		}
		if ok {
			return Approve, nil
		}
		return Reject, nil

	case Editing:
		edited, err := r.prompter.Edit(ctx, EditLabel, *working)
		if err != nil {
			return asCancel(err)
		}
		edited = strings.TrimSpace(edited)
		if edited == "" {
			// git refuses empty messages as well
			return Cancel, nil
		}
		*working = edited
		return Submit, nil

	case Accepted:
		if !r.confirmGate {
			return Confirm, nil
		}
		ok, err := r.prompter.Confirm(CommitQuestion, true)
		if err != nil {
			return asCancel(err)
		}
		if ok {
			return Confirm, nil
		}
		return Decline, nil
	}

	return Cancel, &TransitionError{From: state, Event: Cancel}
}

func asCancel(err error) (Event, error) {
	if errors.Is(err, ui.ErrInterrupted) || errors.Is(err, ui.ErrEmptyInput) || errors.Is(err, io.EOF) {
		return Cancel, nil
	}
	return Cancel, err
}
