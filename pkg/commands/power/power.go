package power

import (
	"context"
	"fmt"
	"time"

	"github.com/nleeper/goment"
	"golang.org/x/sync/errgroup"

	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/models"
	"github.com/qysp/pterobot/pkg/panel"
	"github.com/qysp/pterobot/pkg/states"
)

// StartupWait is how long the server usually needs after a power signal.
const StartupWait = 60 * time.Second

// Recorder stores the power signals sent by the bot.
type Recorder interface {
	Record(ctx context.Context, event *models.PowerEvent) error
}

// Options configure a power command.
type Options struct {
	Name        string
	Aliases     []string
	Description string

	// Signal is sent to the primary server. The proxy always receives a start signal.
	Signal panel.Signal

	// Title of the success reply.
	Title string

	Panel     panel.API
	Formatter *embed.Formatter
	ServerID  string

	// ProxyID is optional.
	ProxyID string

	// Audit is optional.
	Audit Recorder

	Logger *common.GlobalLogger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Power sends a power signal to a server that is not running.
type Power struct {
	opts Options
}

// Init creates a power command.
func Init(opts Options) *Power {
	if opts.Logger == nil {
		opts.Logger = common.Logger
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Aliases == nil {
		opts.Aliases = []string{}
	}
	return &Power{opts: opts}
}

func (c *Power) Name() string {
	return c.opts.Name
}

func (c *Power) Aliases() []string {
	return c.opts.Aliases
}

func (c *Power) Description() string {
	return c.opts.Description
}

func (*Power) Active() bool {
	return true
}

// Execute refuses to act on a running server, for restart as well as start.
func (c *Power) Execute(ctx context.Context, s *states.CommandState) error {
	f := c.opts.Formatter

	if err := s.Defer(); err != nil {
		return err
	}

	res, err := c.opts.Panel.Resources(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		return s.Reply(f.Unhandled(res.StatusCode, res.PrettyBody()))
	}
	if res.State == panel.StateRunning {
		return s.Reply(f.Error("Server is already running!"))
	}

	err = c.send(ctx)
	c.record(ctx, s.UserID, err)
	if err != nil {
		return s.Reply(f.Error(
			fmt.Sprintf("Could not send the %s signal.", c.opts.Signal),
			"```"+err.Error()+"```",
		))
	}

	e := f.Success(c.opts.Title, fmt.Sprintf(
		"Please allow up to %d seconds for the server to complete startup.",
		int(StartupWait.Seconds()),
	))
	e.Footer = c.eta()
	return s.Reply(e)
}

// send signals the primary server and, when configured, starts the proxy concurrently.
// Only the primary's outcome is returned.
func (c *Power) send(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		return c.opts.Panel.Power(ctx, c.opts.ServerID, c.opts.Signal)
	})

	if c.opts.ProxyID != "" {
		// Fire and forget: proxy failures are logged and never reach the user.
		g.Go(func() error {
			if err := c.opts.Panel.Power(ctx, c.opts.ProxyID, panel.SignalStart); err != nil {
				c.opts.Logger.Debug("proxy start signal failed:", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *Power) record(ctx context.Context, userID string, sendErr error) {
	if c.opts.Audit == nil {
		return
	}

	event := &models.PowerEvent{
		ServerID:  c.opts.ServerID,
		Signal:    string(c.opts.Signal),
		UserID:    userID,
		Succeeded: sendErr == nil,
	}
	if sendErr != nil {
		event.Error = sendErr.Error()
	}

	if err := c.opts.Audit.Record(ctx, event); err != nil {
		c.opts.Logger.Error(err)
	}
}

func (c *Power) eta() string {
	g, err := goment.New(c.opts.Now())
	if err != nil {
		return ""
	}
	g.Add(int(StartupWait.Seconds()), "seconds")
	return "Expected online around " + g.Format("HH:mm:ss")
}
