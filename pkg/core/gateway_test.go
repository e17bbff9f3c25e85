package core

import (
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qysp/pterobot/pkg/common/config"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/panel/paneltest"
)

func sampleEnvelope() *embed.Envelope {
	return &embed.Envelope{
		Title:       "Server manager",
		Description: "Server is **offline**",
		Color:       embed.ColorInfo,
		Fields:      []embed.Field{{Name: "`/start`", Value: "Start the server."}},
		Footer:      "footer",
		Author:      &embed.Author{Name: "mc.example.com", IconURL: "attachment://grass.png"},
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Attachment:  &embed.Attachment{Name: "grass.png", Data: []byte("png")},
		Button:      &embed.Button{ID: "start-server", Label: "Start server"},
	}
}

func TestDiscordgoMessage(t *testing.T) {
	data := discordgoMessage(sampleEnvelope())

	require.Len(t, data.Embeds, 1)
	em := data.Embeds[0]
	assert.Equal(t, "Server manager", em.Title)
	assert.Equal(t, "Server is **offline**", em.Description)
	assert.Equal(t, embed.ColorInfo, em.Color)
	assert.Equal(t, "footer", em.Footer.Text)
	assert.Equal(t, "mc.example.com", em.Author.Name)
	assert.Equal(t, "attachment://grass.png", em.Author.IconURL)
	assert.Equal(t, "2024-05-01T12:00:00Z", em.Timestamp)
	require.Len(t, em.Fields, 1)
	assert.Equal(t, "`/start`", em.Fields[0].Name)

	require.Len(t, data.Components, 1)
	row, ok := data.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	button, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "start-server", button.CustomID)
	assert.Equal(t, discordgo.SuccessButton, button.Style)

	require.Len(t, data.Files, 1)
	assert.Equal(t, "grass.png", data.Files[0].Name)
	assert.Equal(t, "image/png", data.Files[0].ContentType)
	content, err := io.ReadAll(data.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))
}

func TestDiscordgoMessage_Minimal(t *testing.T) {
	data := discordgoMessage(&embed.Envelope{Description: "x"})

	require.Len(t, data.Embeds, 1)
	assert.Nil(t, data.Embeds[0].Footer)
	assert.Nil(t, data.Embeds[0].Author)
	assert.Empty(t, data.Embeds[0].Timestamp)
	assert.Nil(t, data.Components)
	assert.Nil(t, data.Files)
}

func TestDisgordMessage(t *testing.T) {
	params := disgordMessage(sampleEnvelope())

	require.NotNil(t, params.Embed)
	assert.Equal(t, "Server manager", params.Embed.Title)
	assert.Equal(t, embed.ColorInfo, params.Embed.Color)
	assert.Equal(t, "footer", params.Embed.Footer.Text)
	assert.Equal(t, "mc.example.com", params.Embed.Author.Name)
	assert.True(t, params.Embed.Timestamp.Time.Equal(sampleEnvelope().Timestamp))
	require.Len(t, params.Embed.Fields, 1)
	require.Len(t, params.Files, 1)
	assert.Equal(t, "grass.png", params.Files[0].FileName)
}

func TestInteractionCommand(t *testing.T) {
	name, ok := interactionCommand(&discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "status"},
	})
	assert.True(t, ok)
	assert.Equal(t, "status", name)

	name, ok = interactionCommand(&discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "start-server"},
	})
	assert.True(t, ok)
	assert.Equal(t, "start", name)

	_, ok = interactionCommand(&discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "other-button"},
	})
	assert.False(t, ok)

	_, ok = interactionCommand(&discordgo.Interaction{Type: discordgo.InteractionPing})
	assert.False(t, ok)
}

func TestSlashCommands(t *testing.T) {
	d := newDispatcher(t, paneltest.New(t, "offline"), nil)

	cmds := slashCommands(d)
	require.Len(t, cmds, 4)

	var names []string
	for _, c := range cmds {
		names = append(names, c.Name)
		assert.NotEmpty(t, c.Description)
		assert.Equal(t, discordgo.ChatApplicationCommand, c.Type)
	}
	assert.Equal(t, []string{"status", "start", "restart", "help"}, names)
}

func TestNew_BuildsConfiguredGateway(t *testing.T) {
	s := paneltest.New(t, "offline")
	cfg := &config.Config{
		DiscordToken:       "token",
		Gateway:            config.GatewayDiscordgo,
		CommandPrefix:      "!",
		PanelURL:           s.URL,
		PanelAPIToken:      paneltest.Token,
		ServerID:           "primary",
		PlayerListEndpoint: s.PlayersURL(),
		ServerAddress:      "mc.example.com",
		BrandIcon:          "does/not/exist.png",
		PresenceInterval:   time.Second,
	}

	b, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &DiscordgoGateway{}, b.Gateway)
	assert.Nil(t, b.Audit)
	assert.Len(t, b.Dispatcher.Commands(), 4)

	cfg.Gateway = "irc"
	_, err = New(cfg)
	assert.Error(t, err)
}
