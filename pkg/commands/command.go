package commands

import (
	"context"

	"github.com/qysp/pterobot/pkg/states"
)

// Command basic command interface.
type Command interface {
	// Name command name.
	Name() string

	// Aliases command name aliases.
	Aliases() []string

	// Description command (help) description.
	Description() string

	// Active whether the command is active.
	Active() bool

	// Execute handles one event and sends at most one reply.
	// Returned errors are logged by the dispatcher; no reply is sent for them.
	Execute(ctx context.Context, s *states.CommandState) error
}
