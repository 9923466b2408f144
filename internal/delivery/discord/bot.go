package discord

import (
	"context"
	"fmt"
	"sync"

	"alias/internal/application"
	"alias/internal/game"
	"alias/internal/repository"

	"github.com/bwmarrin/discordgo"
)

type api interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Config struct {
	Token   string
	Prefix  string
	GuildID string
}

type Bot struct {
	session *discordgo.Session
	api     api
	engine  *game.Engine
	reports application.ReportService
	words   repository.Words
	logger  application.Logger

	prefix  string
	guildID string

	mu         sync.Mutex
	countdowns map[int64]*countdown
}

type countdown struct {
	round     uint64
	messageID string
	text      string
}

func NewBot(cfg Config, engine *game.Engine, reports application.ReportService, words repository.Words, logger application.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentDirectMessages | discordgo.IntentMessageContent

	b := newBot(s, engine, reports, words, logger, cfg.Prefix)
	b.session = s
	b.guildID = cfg.GuildID
	return b, nil
}

func newBot(api api, engine *game.Engine, reports application.ReportService, words repository.Words, logger application.Logger, prefix string) *Bot {
	if prefix == "" {
		prefix = "!"
	}
	return &Bot{
		api:        api,
		engine:     engine,
		reports:    reports,
		words:      words,
		logger:     logger,
		prefix:     prefix,
		countdowns: make(map[int64]*countdown),
	}
}

func (b *Bot) Name() string {
	return "discord"
}

func (b *Bot) Init() error {
	b.engine.SetNotifier(b)
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onMessage)
	return nil
}

func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return err
	}

	b.logger.Info("Discord Bot Started. Registering slash commands...")

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, slashCommands())
	if err != nil {
		b.logger.Error("Failed to register commands: %s", err.Error())
	} else {
		b.logger.Info("Slash commands registered successfully")
	}

	<-ctx.Done()
	return nil
}

func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.Warn("failed to close discord session: %s", err.Error())
	}
}
