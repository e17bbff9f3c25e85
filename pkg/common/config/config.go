package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Gateway names.
const (
	GatewayDisgord   = "disgord"
	GatewayDiscordgo = "discordgo"
)

// Config represents the environmental configuration of the bot.
type Config struct {
	// Discord bot token.
	DiscordToken string

	// Which Discord library receives commands, see Gateway* constants.
	Gateway string

	// Prefix for text commands (disgord gateway only).
	CommandPrefix string

	// Server management panel.
	PanelURL      string
	PanelAPIToken string
	ServerID      string
	ProxyServerID string

	PlayerListEndpoint string

	// Branding shown on every reply.
	ServerAddress string
	Website       string
	BrandIcon     string
	HelpFooter    string

	PresenceInterval time.Duration
	HTTPTimeout      time.Duration

	// Empty disables the power audit log.
	DatabasePath string

	Debug bool
}

// Load reads the configuration from the environment.
// All missing required variables are reported at once.
func Load() (*Config, error) {
	c := &Config{
		DiscordToken:       os.Getenv("DISCORD_TOKEN"),
		Gateway:            strings.ToLower(os.Getenv("GATEWAY")),
		CommandPrefix:      os.Getenv("COMMAND_PREFIX"),
		PanelURL:           strings.TrimRight(os.Getenv("PANEL_URL"), "/"),
		PanelAPIToken:      os.Getenv("PANEL_API_TOKEN"),
		ServerID:           os.Getenv("SERVER_ID"),
		ProxyServerID:      os.Getenv("PROXY_SERVER_ID"),
		PlayerListEndpoint: os.Getenv("PLAYER_LIST_ENDPOINT"),
		ServerAddress:      os.Getenv("SERVER_ADDRESS"),
		Website:            os.Getenv("WEBSITE"),
		BrandIcon:          os.Getenv("BRAND_ICON"),
		HelpFooter:         os.Getenv("HELP_FOOTER"),
		DatabasePath:       os.Getenv("DATABASE_PATH"),
	}

	if c.Gateway == "" {
		c.Gateway = GatewayDiscordgo
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}

	// Presence refresh interval.
	interval, err := strconv.ParseInt(os.Getenv("PRESENCE_INTERVAL"), 10, 64)
	if err != nil || interval <= 0 {
		interval = 15000
	}
	c.PresenceInterval = time.Duration(interval) * time.Millisecond

	timeout, err := strconv.ParseInt(os.Getenv("HTTP_TIMEOUT"), 10, 64)
	if err != nil || timeout < 0 {
		timeout = 0
	}
	c.HTTPTimeout = time.Duration(timeout) * time.Millisecond

	debug, err := strconv.ParseBool(os.Getenv("DEBUG"))
	if err != nil {
		debug = false
	}
	c.Debug = debug

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every required value is present and the gateway is known.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"DISCORD_TOKEN", c.DiscordToken},
		{"PANEL_URL", c.PanelURL},
		{"PANEL_API_TOKEN", c.PanelAPIToken},
		{"SERVER_ID", c.ServerID},
		{"PLAYER_LIST_ENDPOINT", c.PlayerListEndpoint},
		{"SERVER_ADDRESS", c.ServerAddress},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.Gateway {
	case GatewayDisgord, GatewayDiscordgo:
	default:
		return fmt.Errorf("unknown gateway %q", c.Gateway)
	}
	return nil
}

// HelpCommand returns how users invoke the help command on the configured gateway.
func (c *Config) HelpCommand() string {
	if c.Gateway == GatewayDisgord {
		return c.CommandPrefix + "help"
	}
	return "/help"
}

// CommandHint formats a command name the way users type it on the configured gateway.
func (c *Config) CommandHint(name string) string {
	if c.Gateway == GatewayDisgord {
		return c.CommandPrefix + name
	}
	return "/" + name
}
