package commands

import (
	"github.com/qysp/pterobot/pkg/commands/help"
	"github.com/qysp/pterobot/pkg/commands/power"
	"github.com/qysp/pterobot/pkg/commands/status"
	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/common/config"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/panel"
)

// Deps are the collaborators shared by the commands.
type Deps struct {
	Config    *config.Config
	Panel     panel.API
	Formatter *embed.Formatter

	// Audit may be nil.
	Audit power.Recorder

	Logger *common.GlobalLogger
}

// CommandIndex represents the index for bot commands mapped with their name and aliases.
type CommandIndex struct {
	byName map[string]Command
	list   []Command
}

// Init initializes the command index.
// Commands are registered by name as well as alias.
func Init(deps Deps) *CommandIndex {
	logger := deps.Logger
	if logger == nil {
		logger = common.Logger
	}

	index := &CommandIndex{byName: map[string]Command{}}

	index.register(
		status.Init(deps.Panel, deps.Formatter, deps.Config.CommandHint("start")),
		power.Init(power.Options{
			Name:        "start",
			Description: "Start the server if it is not already running.",
			Signal:      panel.SignalStart,
			Title:       "Server started!",
			Panel:       deps.Panel,
			Formatter:   deps.Formatter,
			ServerID:    deps.Config.ServerID,
			ProxyID:     deps.Config.ProxyServerID,
			Audit:       deps.Audit,
			Logger:      logger,
		}),
		power.Init(power.Options{
			Name:        "restart",
			Description: "Restart the server if it is not already running.",
			Signal:      panel.SignalRestart,
			Title:       "Server restarted!",
			Panel:       deps.Panel,
			Formatter:   deps.Formatter,
			ServerID:    deps.Config.ServerID,
			ProxyID:     deps.Config.ProxyServerID,
			Audit:       deps.Audit,
			Logger:      logger,
		}),
	)

	// Help lists everything registered before it, plus itself.
	entries := make([]help.Entry, 0, len(index.list)+1)
	for _, cmd := range index.list {
		entries = append(entries, help.Entry{
			Name:        cmd.Name(),
			Aliases:     cmd.Aliases(),
			Description: cmd.Description(),
		})
	}
	index.register(help.Init(entries, deps.Formatter, deps.Config.HelpFooter, deps.Config.CommandHint))

	return index
}

// register adds commands to the command index.
func (ci *CommandIndex) register(commands ...Command) {
	for _, cmd := range commands {
		if !cmd.Active() {
			continue
		}

		// Make a list of all commands without their aliases.
		ci.list = append(ci.list, cmd)

		ci.Set(cmd.Name(), cmd)
		for _, alias := range cmd.Aliases() {
			if !ci.Has(alias) {
				ci.Set(alias, cmd)
			}
		}
	}
}

// Set registers a bot command.
func (ci *CommandIndex) Set(cmdName string, cmd Command) {
	ci.byName[cmdName] = cmd
}

// Has returns a bool indicating whether the command index already has a registered command with that name.
func (ci *CommandIndex) Has(cmdName string) bool {
	_, ok := ci.byName[cmdName]
	return ok
}

// Get returns the registered command by name or alias.
func (ci *CommandIndex) Get(cmdName string) Command {
	return ci.byName[cmdName]
}

// List returns every registered command once, in registration order.
func (ci *CommandIndex) List() []Command {
	return ci.list
}
