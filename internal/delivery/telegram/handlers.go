package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alias/internal/application"
	"alias/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.IsCommand():
		b.handleCommand(ctx, update.Message.Chat.ID, update.Message.Command())
	case update.Message.Text != "":
		b.handleText(update.Message.Chat.ID, update.Message.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		b.reply(chatID, b.engine.BeginConfiguration(chatID), nil)
	case "cancel":
		b.reply(chatID, b.engine.CancelGame(chatID), nil)
	case "help":
		b.sendMessage(chatID, game.HelpText("/", b.words.Available()), game.KbNone)
	case "score":
		b.reply(chatID, b.engine.Status(chatID), nil)
	case "next":
		r, err := b.engine.RequestNextRound(chatID)
		b.reply(chatID, r, err)
	case "stop":
		r, err := b.engine.EndRound(chatID)
		b.reply(chatID, r, err)
	case "stats":
		b.handleStats(ctx, chatID)
	case "history":
		b.handleHistory(ctx, chatID)
	case "export":
		b.handleExport(ctx, chatID)
	case "sync_sheet":
		b.handleSyncSheet(ctx, chatID)
	default:
		b.sendMessage(chatID, "Unknown command. Use /help to see what I can do.", game.KbNone)
	}
}

func (b *Bot) handleText(chatID int64, text string) {
	r, err := b.engine.HandleText(chatID, text)
	if errors.Is(err, game.ErrWrongStep) || errors.Is(err, game.ErrSessionNotFound) {
		// chatter outside of game setup
		return
	}
	b.reply(chatID, r, err)
}

func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	if q.Message == nil {
		b.answerCallback(q.ID, "")
		return
	}
	chatID := q.Message.Chat.ID

	r, err := b.engine.Press(chatID, q.Data)
	if err != nil {
		b.answerCallback(q.ID, r.Text)
		if errors.Is(err, game.ErrInvalidInput) && r.Text != "" {
			b.reply(chatID, r, err)
		}
		return
	}
	b.answerCallback(q.ID, "")

	// the next word replaces the pressed one
	if r.Word != nil && b.countdownFor(chatID, r.Round) {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, q.Message.MessageID, r.Text, *inlineKeyboard(r.Keyboard))
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	b.reply(chatID, r, nil)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	stats, err := b.reports.Leaderboard(ctx, chatID)
	if errors.Is(err, application.ErrNoHistory) {
		b.sendMessage(chatID, "No finished games in this chat yet.", game.KbNone)
		return
	}
	if err != nil {
		b.logger.Error("chat %d: stats failed: %s", chatID, err.Error())
		b.sendMessage(chatID, "Could not load the statistics, try again later.", game.KbNone)
		return
	}

	b.sendMessage(chatID, formatLeaderboard(stats, statsLimit), game.KbNone)
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	games, err := b.reports.RecentGames(ctx, chatID)
	if errors.Is(err, application.ErrNoHistory) {
		b.sendMessage(chatID, "No finished games in this chat yet.", game.KbNone)
		return
	}
	if err != nil {
		b.logger.Error("chat %d: history failed: %s", chatID, err.Error())
		b.sendMessage(chatID, "Could not load the game history, try again later.", game.KbNone)
		return
	}

	b.sendMessage(chatID, formatHistory(games), game.KbNone)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	data, err := b.reports.GetExcelReport(ctx, chatID)
	if err != nil {
		b.logger.Warn("chat %d: export failed: %s", chatID, err.Error())
		b.sendMessage(chatID, "Export failed: "+err.Error(), game.KbNone)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: exportFileName, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("chat %d: failed to send export: %s", chatID, err.Error())
	}
}

func (b *Bot) handleSyncSheet(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	url, err := b.reports.SyncToGoogleSheet(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, "Sync failed: "+err.Error(), game.KbNone)
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Leaderboard published!\nLink: %s", url), game.KbNone)
}

// reply renders an engine reply and keeps the countdown message in step with
// the round. Error notices never touch the countdown.
func (b *Bot) reply(chatID int64, r game.Reply, err error) {
	if err == nil && r.Phase != game.PhaseInRound {
		b.dropCountdown(chatID, r.Round)
	}

	b.sendMessage(chatID, strings.TrimSpace(r.Text), r.Keyboard)

	if err == nil && r.Phase == game.PhaseInRound && r.Word != nil {
		b.startCountdown(chatID, r)
	}
}

// RoundTick edits the countdown message. A failed edit ends the round.
func (b *Bot) RoundTick(chatID int64, remaining time.Duration) error {
	text := game.FormatRemaining(remaining)

	b.mu.Lock()
	c, ok := b.countdowns[chatID]
	if !ok || c.messageID == 0 || c.text == text {
		b.mu.Unlock()
		return nil
	}
	c.text = text
	messageID := c.messageID
	b.mu.Unlock()

	_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (b *Bot) RoundOver(chatID int64, r game.Reply) {
	b.reply(chatID, r, nil)
}
