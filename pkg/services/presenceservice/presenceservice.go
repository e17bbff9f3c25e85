package presenceservice

import (
	"context"
	"fmt"
	"time"

	"github.com/qysp/pterobot/pkg/common"
)

// DefaultActivity is shown while the player count is unknown.
const DefaultActivity = "Minecraft"

// PlayerLister fetches the connected players.
type PlayerLister interface {
	Players(ctx context.Context) ([]string, error)
}

// Setter replaces the bot's activity text.
type Setter interface {
	SetPresence(name string) error
}

// Service keeps the bot's activity in sync with the player count.
// The last known count is only touched by the ticker goroutine.
type Service struct {
	players  PlayerLister
	setter   Setter
	helpHint string
	logger   *common.GlobalLogger

	known     bool
	lastCount *int

	stopped chan struct{}
	done    chan struct{}
}

// New creates a presence service. helpHint is appended to every activity, e.g. "/help".
func New(players PlayerLister, setter Setter, helpHint string, logger *common.GlobalLogger) *Service {
	if logger == nil {
		logger = common.Logger
	}
	return &Service{
		players:  players,
		setter:   setter,
		helpHint: helpHint,
		logger:   logger,
		stopped:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start refreshes the presence immediately and then every interval until ctx ends or Stop is called.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer close(s.done)
		defer ticker.Stop()

		s.refresh(ctx)
		for {
			select {
			case <-ticker.C:
				s.refresh(ctx)
			case <-s.stopped:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the refresh loop and waits for it to exit.
func (s *Service) Stop() {
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
	<-s.done
}

// refresh updates the activity when the player count changed since the last call.
func (s *Service) refresh(ctx context.Context) {
	var count *int
	players, err := s.players.Players(ctx)
	if err != nil {
		s.logger.Debug("player list unavailable:", err)
	} else {
		n := len(players)
		count = &n
	}

	if s.known && equal(count, s.lastCount) {
		return
	}

	if err := s.setter.SetPresence(Activity(count, s.helpHint)); err != nil {
		s.logger.Warn("failed to update presence:", err)
		return
	}

	s.known = true
	s.lastCount = count
}

// Activity formats the activity text for a player count; nil means unknown.
func Activity(count *int, helpHint string) string {
	if count == nil {
		return fmt.Sprintf("%s | %s", DefaultActivity, helpHint)
	}

	plural := "s"
	if *count == 1 {
		plural = ""
	}
	return fmt.Sprintf("with %d player%s | %s", *count, plural, helpHint)
}

func equal(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
