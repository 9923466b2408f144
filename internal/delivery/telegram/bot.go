package telegram

import (
	"context"
	"fmt"
	"sync"

	"alias/internal/application"
	"alias/internal/game"
	"alias/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api     api
	engine  *game.Engine
	reports application.ReportService
	words   repository.Words
	logger  application.Logger

	mu         sync.Mutex
	countdowns map[int64]*countdown
}

// countdown is the message that shows the time left in a running round.
type countdown struct {
	round     uint64
	messageID int
	text      string
}

func NewBot(token string, engine *game.Engine, reports application.ReportService, words repository.Words, logger application.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot authorized on account %s", bot.Self.UserName)

	return newBot(bot, engine, reports, words, logger), nil
}

func newBot(api api, engine *game.Engine, reports application.ReportService, words repository.Words, logger application.Logger) *Bot {
	return &Bot{
		api:        api,
		engine:     engine,
		reports:    reports,
		words:      words,
		logger:     logger,
		countdowns: make(map[int64]*countdown),
	}
}

func (b *Bot) Name() string {
	return "telegram"
}

func (b *Bot) Init() error {
	b.engine.SetNotifier(b)

	commands := make([]tgbotapi.BotCommand, 0, len(game.Commands))
	for _, c := range game.Commands {
		commands = append(commands, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		b.logger.Warn("failed to set telegram commands: %s", err.Error())
	} else {
		b.logger.Info("telegram commands are set up")
	}
	return nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
