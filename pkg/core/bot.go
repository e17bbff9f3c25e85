package core

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/qysp/pterobot/assets"
	"github.com/qysp/pterobot/pkg/commands"
	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/common/config"
	"github.com/qysp/pterobot/pkg/database"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/panel"
	"github.com/qysp/pterobot/pkg/services/presenceservice"
)

// Gateway connects the dispatcher to a chat platform.
type Gateway interface {
	Open() error
	Close() error
	SetPresence(name string) error
}

// Bot holds everything needed to serve commands.
type Bot struct {
	Config     *config.Config
	Dispatcher *Dispatcher
	Audit      *database.AuditLog
	Gateway    Gateway
	Presence   *presenceservice.Service
}

// New assembles a bot from cfg without connecting to anything.
func New(cfg *config.Config) (*Bot, error) {
	logger := common.Logger

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := panel.NewClient(httpClient, cfg.PanelURL, cfg.PanelAPIToken, cfg.ServerID, cfg.PlayerListEndpoint)

	formatter := &embed.Formatter{
		Address: cfg.ServerAddress,
		Website: cfg.Website,
		Icon:    loadIcon(cfg.BrandIcon, logger),
	}

	b := &Bot{Config: cfg}

	deps := commands.Deps{
		Config:    cfg,
		Panel:     api,
		Formatter: formatter,
		Logger:    logger,
	}
	if cfg.DatabasePath != "" {
		audit, err := database.Connect(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		b.Audit = audit
		deps.Audit = audit
	}

	b.Dispatcher = NewDispatcher(commands.Init(deps), logger)

	switch cfg.Gateway {
	case config.GatewayDisgord:
		b.Gateway = NewDisgordGateway(cfg.DiscordToken, cfg.CommandPrefix, b.Dispatcher, logger)
	case config.GatewayDiscordgo:
		gw, err := NewDiscordgoGateway(cfg.DiscordToken, b.Dispatcher, logger)
		if err != nil {
			b.close()
			return nil, err
		}
		b.Gateway = gw
	default:
		b.close()
		return nil, fmt.Errorf("unknown gateway %q", cfg.Gateway)
	}

	b.Presence = presenceservice.New(api, b.Gateway, cfg.HelpCommand(), logger)

	return b, nil
}

// Run connects the gateway and serves commands until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Gateway.Open(); err != nil {
		b.close()
		return err
	}

	b.Presence.Start(ctx, b.Config.PresenceInterval)

	<-ctx.Done()
	common.Logger.Info("shutting down")

	b.Presence.Stop()
	err := b.Gateway.Close()
	b.close()
	return err
}

func (b *Bot) close() {
	if b.Audit == nil {
		return
	}
	if err := b.Audit.Close(); err != nil {
		common.Logger.Error(err)
	}
}

// loadIcon reads the image attached to every reply.
// The built-in icon is used when path is empty or unreadable.
func loadIcon(path string, logger *common.GlobalLogger) *embed.Attachment {
	builtin := &embed.Attachment{Name: assets.GrassName, Data: assets.Grass}
	if path == "" {
		return builtin
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("brand icon unavailable, using built-in icon:", err)
		return builtin
	}

	return &embed.Attachment{Name: filepath.Base(path), Data: data}
}
