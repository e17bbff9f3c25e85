package states

import (
	"errors"
	"sync"

	"github.com/qysp/pterobot/pkg/embed"
)

// ErrAlreadyReplied is returned when a second reply is attempted for one event.
var ErrAlreadyReplied = errors.New("event already received a reply")

// Responder delivers replies through a gateway.
type Responder interface {
	// Defer acknowledges the event before slow work. Gateways without
	// acknowledgements treat it as a no-op.
	Defer() error

	// Reply sends the envelope.
	Reply(e *embed.Envelope) error
}

// CommandState represents one inbound command event, independent of the gateway.
type CommandState struct {
	// Command is the lowercased command name or interaction id.
	Command string

	// Args are the remaining whitespace separated tokens of a text command.
	Args []string

	// UserID identifies who issued the command.
	UserID string

	responder Responder

	mu      sync.Mutex
	replied bool
}

// New creates the state for one event.
func New(command string, args []string, userID string, responder Responder) *CommandState {
	return &CommandState{
		Command:   command,
		Args:      args,
		UserID:    userID,
		responder: responder,
	}
}

// Defer acknowledges the event.
func (s *CommandState) Defer() error {
	return s.responder.Defer()
}

// Reply sends the envelope. Only the first reply of an event is delivered.
func (s *CommandState) Reply(e *embed.Envelope) error {
	s.mu.Lock()
	if s.replied {
		s.mu.Unlock()
		return ErrAlreadyReplied
	}
	s.replied = true
	s.mu.Unlock()

	return s.responder.Reply(e)
}

// Replied returns whether a reply was sent.
func (s *CommandState) Replied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replied
}
