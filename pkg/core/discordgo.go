package core

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/qysp/pterobot/pkg/commands/status"
	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/states"
)

// DiscordgoGateway receives slash commands and button presses through discordgo.
type DiscordgoGateway struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	logger     *common.GlobalLogger
}

// NewDiscordgoGateway creates a discordgo session for token.
func NewDiscordgoGateway(token string, dispatcher *Dispatcher, logger *common.GlobalLogger) (*DiscordgoGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	// Interactions need no privileged intents.
	session.Identify.Intents = discordgo.IntentsGuilds

	return &DiscordgoGateway{
		session:    session,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Open connects to Discord. Slash commands are registered once the session is ready.
func (g *DiscordgoGateway) Open() error {
	g.session.AddHandler(g.onReady)
	g.session.AddHandler(g.onInteraction)

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	if gb, err := g.session.GatewayBot(); err == nil {
		g.logger.Info("Remaining gateway sessions:", gb.SessionStartLimit.Remaining)
	}

	return nil
}

// Close disconnects from Discord.
func (g *DiscordgoGateway) Close() error {
	return g.session.Close()
}

// SetPresence replaces the bot's "Playing" activity.
func (g *DiscordgoGateway) SetPresence(name string) error {
	return g.session.UpdateGameStatus(0, name)
}

func (g *DiscordgoGateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	g.logger.Info(r.User.String(), "ready")

	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", slashCommands(g.dispatcher)); err != nil {
		g.logger.Error("failed to register slash commands:", err)
	}
}

func (g *DiscordgoGateway) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		return
	}

	name, ok := interactionCommand(i.Interaction)
	if !ok {
		return
	}

	var userID string
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	}

	st := states.New(name, nil, userID, &interactionResponder{
		session:     s,
		interaction: i.Interaction,
	})
	g.dispatcher.Dispatch(context.Background(), st)
}

// interactionCommand maps a slash command or a button press to a command name.
func interactionCommand(i *discordgo.Interaction) (string, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name, true
	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID == status.StartButtonID {
			return "start", true
		}
		return "", false
	default:
		return "", false
	}
}

func slashCommands(d *Dispatcher) []*discordgo.ApplicationCommand {
	var cmds []*discordgo.ApplicationCommand
	for _, c := range d.Commands() {
		cmds = append(cmds, &discordgo.ApplicationCommand{
			Name:        c.Name(),
			Description: c.Description(),
			Type:        discordgo.ChatApplicationCommand,
		})
	}
	return cmds
}

type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	deferred    bool
}

func (r *interactionResponder) Defer() error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to defer interaction: %w", err)
	}
	r.deferred = true
	return nil
}

func (r *interactionResponder) Reply(e *embed.Envelope) error {
	msg := discordgoMessage(e)

	if r.deferred {
		edit := &discordgo.WebhookEdit{
			Embeds: &msg.Embeds,
			Files:  msg.Files,
		}
		if msg.Components != nil {
			edit.Components = &msg.Components
		}
		_, err := r.session.InteractionResponseEdit(r.interaction, edit)
		return err
	}

	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: msg,
	})
}

// discordgoMessage converts an envelope into discordgo's response data.
func discordgoMessage(e *embed.Envelope) *discordgo.InteractionResponseData {
	em := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}

	for _, f := range e.Fields {
		em.Fields = append(em.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if e.Footer != "" {
		em.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}

	if e.Author != nil {
		em.Author = &discordgo.MessageEmbedAuthor{
			Name:    e.Author.Name,
			URL:     e.Author.URL,
			IconURL: e.Author.IconURL,
		}
	}

	if !e.Timestamp.IsZero() {
		em.Timestamp = e.Timestamp.Format(time.RFC3339)
	}

	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{em},
	}

	if e.Button != nil {
		data.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    e.Button.Label,
						Style:    discordgo.SuccessButton,
						CustomID: e.Button.ID,
					},
				},
			},
		}
	}

	if e.Attachment != nil {
		data.Files = []*discordgo.File{{
			Name:        e.Attachment.Name,
			ContentType: mime.TypeByExtension(filepath.Ext(e.Attachment.Name)),
			Reader:      bytes.NewReader(e.Attachment.Data),
		}}
	}

	return data
}
