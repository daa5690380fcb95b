// Package review drives the human review of a candidate commit message.
package review

import "fmt"

// State is a step of the review
type State int

const (
	Presented State = iota
	Editing
	Accepted
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Presented:
		return "Presented"
	case Editing:
		return "Editing"
	case Accepted:
		return "Accepted"
	case Confirmed:
		return "Confirmed"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further event is accepted
func (s State) Terminal() bool {
	return s == Confirmed || s == Cancelled
}

// Event is a user decision that moves the review forward
type Event int

const (
	// Approve keeps the presented message
	Approve Event = iota
	// Reject asks to edit the presented message
	Reject
	// Submit finishes editing
	Submit
	// Confirm passes the commit gate
	Confirm
	// Decline refuses the commit gate
	Decline
	// Cancel aborts from any non-terminal state
	Cancel
)

func (e Event) String() string {
	switch e {
	case Approve:
		return "Approve"
	case Reject:
		return "Reject"
	case Submit:
		return "Submit"
	case Confirm:
		return "Confirm"
	case Decline:
		return "Decline"
	case Cancel:
		return "Cancel"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// TransitionError reports an event that the current state does not accept
type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid review transition: %s on %s", e.Event, e.From)
}

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{Presented, Approve}: Accepted,
	{Presented, Reject}:  Editing,
	{Presented, Cancel}:  Cancelled,
	{Editing, Submit}:    Accepted,
	{Editing, Cancel}:    Cancelled,
	{Accepted, Confirm}:  Confirmed,
	{Accepted, Decline}:  Cancelled,
	{Accepted, Cancel}:   Cancelled,
}

// Transition returns the state reached from s on e
func Transition(s State, e Event) (State, error) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, &TransitionError{From: s, Event: e}
	}
	return next, nil
}
