package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/states"
)

// Entry describes a command in the help message.
type Entry struct {
	Name        string
	Aliases     []string
	Description string
}

// Help lists the available commands. It never touches the network.
type Help struct {
	entries   []Entry
	formatter *embed.Formatter
	footer    string
	hint      func(name string) string
}

// Init creates the help command. hint formats a command name the way users type it.
func Init(entries []Entry, formatter *embed.Formatter, footer string, hint func(name string) string) *Help {
	h := &Help{
		formatter: formatter,
		footer:    footer,
		hint:      hint,
	}
	h.entries = append(append([]Entry{}, entries...), Entry{
		Name:        h.Name(),
		Aliases:     h.Aliases(),
		Description: h.Description(),
	})
	return h
}

func (*Help) Name() string {
	return "help"
}

func (*Help) Aliases() []string {
	return []string{}
}

func (*Help) Description() string {
	return "Show this help message."
}

func (*Help) Active() bool {
	return true
}

func (c *Help) Execute(ctx context.Context, s *states.CommandState) error {
	if len(s.Args) > 0 {
		return s.Reply(c.usage(strings.ToLower(s.Args[0])))
	}

	fields := make([]embed.Field, 0, len(c.entries))
	for _, e := range c.entries {
		fields = append(fields, embed.Field{
			Name:  "`" + c.hint(e.Name) + "`",
			Value: e.Description,
		})
	}

	return s.Reply(c.formatter.New(embed.Envelope{
		Title:  "Server manager",
		Fields: fields,
		Footer: c.footer,
	}, embed.Options{}))
}

// usage describes a single command.
func (c *Help) usage(name string) *embed.Envelope {
	for _, e := range c.entries {
		if e.Name != name && !contains(e.Aliases, name) {
			continue
		}

		fields := []embed.Field{}
		if len(e.Aliases) > 0 {
			fields = append(fields, embed.Field{
				Name:  "Aliases",
				Value: strings.Join(e.Aliases, ", "),
			})
		}

		return c.formatter.New(embed.Envelope{
			Title:       fmt.Sprintf("Command \"%s\" usage", e.Name),
			Description: "`" + c.hint(e.Name) + "`\n" + e.Description,
			Fields:      fields,
			Footer:      c.footer,
		}, embed.Options{})
	}

	return c.formatter.Warning(
		fmt.Sprintf("Unknown command `%s`.", name),
		fmt.Sprintf("Use `%s` to list all commands.", c.hint(c.Name())),
	)
}

func contains(col []string, s string) bool {
	for _, item := range col {
		if item == s {
			return true
		}
	}
	return false
}
