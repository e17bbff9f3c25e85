package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/panel"
	"github.com/qysp/pterobot/pkg/states"
)

// StartButtonID is the id of the button offered when the server is offline.
const StartButtonID = "start-server"

// Status server status command.
type Status struct {
	panel     panel.API
	formatter *embed.Formatter
	startHint string
}

// Init creates the status command. startHint is how users type the start command.
func Init(api panel.API, formatter *embed.Formatter, startHint string) *Status {
	return &Status{
		panel:     api,
		formatter: formatter,
		startHint: startHint,
	}
}

func (*Status) Name() string {
	return "status"
}

func (*Status) Aliases() []string {
	return []string{}
}

func (*Status) Description() string {
	return "Show server status and connected players."
}

func (*Status) Active() bool {
	return true
}

func (c *Status) Execute(ctx context.Context, s *states.CommandState) error {
	if err := s.Defer(); err != nil {
		return err
	}

	res, err := c.panel.Resources(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		return s.Reply(c.formatter.Unhandled(res.StatusCode, res.PrettyBody()))
	}

	switch res.State {
	case panel.StateOffline, panel.StateStopping:
		e := c.formatter.Info("Server is **offline**", fmt.Sprintf("Use `%s` to start the server.", c.startHint))
		e.Button = &embed.Button{ID: StartButtonID, Label: "Start server"}
		return s.Reply(e)
	case panel.StateStarting:
		return s.Reply(c.formatter.Info("Server is currently **starting**"))
	case panel.StateRunning:
		players, err := c.panel.Players(ctx)
		if err != nil {
			return err
		}
		return s.Reply(c.formatter.Success("Server is **online**", PlayerSummary(players)))
	case panel.StateUnknown:
	}

	return s.Reply(c.formatter.Unhandled(res.StatusCode, res.PrettyBody()))
}

// PlayerSummary lists the players with their names escaped for markdown.
func PlayerSummary(players []string) string {
	if len(players) == 0 {
		return "No players connected"
	}

	escaped := make([]string, len(players))
	for i, p := range players {
		escaped[i] = embed.EscapeMarkdown(p)
	}
	return fmt.Sprintf("Players (%d): %s", len(players), strings.Join(escaped, ", "))
}
