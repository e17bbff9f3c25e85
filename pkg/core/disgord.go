package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andersfylling/disgord"

	"github.com/qysp/pterobot/pkg/common"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/states"
)

// DisgordGateway receives prefixed text commands through disgord.
// Envelope buttons are not rendered.
type DisgordGateway struct {
	client     *disgord.Client
	prefix     string
	dispatcher *Dispatcher
	logger     *common.GlobalLogger
}

// NewDisgordGateway creates a disgord client for token.
func NewDisgordGateway(token, prefix string, dispatcher *Dispatcher, logger *common.GlobalLogger) *DisgordGateway {
	conf := disgord.Config{
		BotToken: token,
	}
	if common.DisGordLogger != nil {
		conf.Logger = common.DisGordLogger
	}

	return &DisgordGateway{
		client:     disgord.New(conf),
		prefix:     prefix,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Open connects to Discord and starts listening for messages.
func (g *DisgordGateway) Open() error {
	if err := g.client.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect disgord client: %w", err)
	}

	g.client.On(disgord.EvtMessageCreate, g.onMessage)

	g.logger.Info("disgord gateway ready, listening for prefix", g.prefix)
	return nil
}

// Close disconnects from Discord.
func (g *DisgordGateway) Close() error {
	return g.client.Disconnect()
}

// SetPresence replaces the bot's activity text.
func (g *DisgordGateway) SetPresence(name string) error {
	return g.client.UpdateStatusString(name)
}

func (g *DisgordGateway) onMessage(_ disgord.Session, evt *disgord.MessageCreate) {
	msg := evt.Message
	if msg == nil || msg.Author == nil || msg.Author.Bot {
		return
	}

	name, args, ok := ParseCommand(g.prefix, msg.Content)
	if !ok {
		return
	}

	s := states.New(name, args, msg.Author.ID.String(), &disgordResponder{
		client:    g.client,
		channelID: msg.ChannelID,
	})
	g.dispatcher.Dispatch(context.Background(), s)
}

type disgordResponder struct {
	client    *disgord.Client
	channelID disgord.Snowflake
}

func (*disgordResponder) Defer() error {
	return nil
}

func (r *disgordResponder) Reply(e *embed.Envelope) error {
	_, err := r.client.CreateMessage(context.Background(), r.channelID, disgordMessage(e))
	return err
}

// disgordMessage converts an envelope into disgord's message parameters.
func disgordMessage(e *embed.Envelope) *disgord.CreateMessageParams {
	em := &disgord.Embed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}

	for _, f := range e.Fields {
		em.Fields = append(em.Fields, &disgord.EmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if e.Footer != "" {
		em.Footer = &disgord.EmbedFooter{Text: e.Footer}
	}

	if e.Author != nil {
		em.Author = &disgord.EmbedAuthor{
			Name:    e.Author.Name,
			URL:     e.Author.URL,
			IconURL: e.Author.IconURL,
		}
	}

	if !e.Timestamp.IsZero() {
		em.Timestamp = disgord.Time{Time: e.Timestamp}
	}

	params := &disgord.CreateMessageParams{Embed: em}
	if e.Attachment != nil {
		params.Files = []disgord.CreateMessageFileParams{{
			Reader:   bytes.NewReader(e.Attachment.Data),
			FileName: e.Attachment.Name,
		}}
	}

	return params
}
