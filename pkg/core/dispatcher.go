package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/qysp/pterobot/pkg/commands"
	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/states"
)

// ParseCommand extracts the command name and arguments from a text message.
// ok is false when the message does not start with prefix or names nothing.
func ParseCommand(prefix, content string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(parts) == 0 {
		return "", nil, false
	}

	return strings.ToLower(parts[0]), parts[1:], true
}

// Dispatcher routes command events to the registered commands.
type Dispatcher struct {
	index  *commands.CommandIndex
	logger *common.GlobalLogger
}

// NewDispatcher creates a dispatcher over index.
func NewDispatcher(index *commands.CommandIndex, logger *common.GlobalLogger) *Dispatcher {
	if logger == nil {
		logger = common.Logger
	}
	return &Dispatcher{index: index, logger: logger}
}

// Commands returns the registered commands.
func (d *Dispatcher) Commands() []commands.Command {
	return d.index.List()
}

// Dispatch runs the command named by s. Unknown commands are ignored without a reply.
// It reports whether a command was found.
func (d *Dispatcher) Dispatch(ctx context.Context, s *states.CommandState) bool {
	command := d.index.Get(s.Command)
	if command == nil {
		return false
	}

	log := d.logger.With(zap.String("command", command.Name()), zap.String("user", s.UserID))
	log.Debug("dispatching", s.Command)

	if err := command.Execute(ctx, s); err != nil {
		log.Error("command failed:", err)
	}

	return true
}
