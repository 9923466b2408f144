package telegram

import (
	"fmt"
	"strings"

	"alias/internal/game"
	"alias/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func inlineKeyboard(kb game.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	rows := kb.Buttons()
	if len(rows) == 0 {
		return nil
	}

	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		markup = append(markup, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	kbMarkup := tgbotapi.NewInlineKeyboardMarkup(markup...)
	return &kbMarkup
}

func (b *Bot) sendMessage(chatID int64, text string, kb game.Keyboard) (tgbotapi.Message, error) {
	if text == "" {
		return tgbotapi.Message{}, nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := inlineKeyboard(kb); markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("chat %d: failed to send message: %s", chatID, err.Error())
	}
	return sent, err
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Warn("failed to answer callback: %s", err.Error())
	}
}

func (b *Bot) hasCountdown(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.countdowns[chatID]
	return ok
}

// countdownFor reports whether the chat shows the countdown of round.
func (b *Bot) countdownFor(chatID int64, round uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.countdowns[chatID]
	return ok && c.round == round
}

// startCountdown shows the countdown of r.Round, replacing one left over from
// an earlier round. The map entry is claimed before the message is sent.
func (b *Bot) startCountdown(chatID int64, r game.Reply) {
	text := game.FormatRemaining(r.Remaining)

	b.mu.Lock()
	old, ok := b.countdowns[chatID]
	if ok && old.round == r.Round {
		b.mu.Unlock()
		return
	}
	c := &countdown{round: r.Round, text: text}
	b.countdowns[chatID] = c
	var oldID int
	if ok {
		oldID = old.messageID
	}
	b.mu.Unlock()

	b.deleteMessage(chatID, oldID)

	sent, err := b.sendMessage(chatID, text, game.KbNone)

	b.mu.Lock()
	current := b.countdowns[chatID] == c
	switch {
	case err != nil && current:
		delete(b.countdowns, chatID)
	case err == nil && current:
		c.messageID = sent.MessageID
	}
	b.mu.Unlock()

	if err == nil && !current {
		// dropped or replaced while sending
		b.deleteMessage(chatID, sent.MessageID)
	}
}

// dropCountdown removes the countdown of round or of any earlier round.
func (b *Bot) dropCountdown(chatID int64, round uint64) {
	b.mu.Lock()
	c, ok := b.countdowns[chatID]
	if !ok || c.round > round {
		b.mu.Unlock()
		return
	}
	delete(b.countdowns, chatID)
	messageID := c.messageID
	b.mu.Unlock()

	b.deleteMessage(chatID, messageID)
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Debug("chat %d: countdown message already gone: %s", chatID, err.Error())
	}
}

func getMedalEmoji(position int) string {
	switch position {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return "▪️"
	}
}

func formatLeaderboard(stats []models.TeamStats, limit int) string {
	if len(stats) > limit {
		stats = stats[:limit]
	}

	var sb strings.Builder
	sb.WriteString("Leaderboard:\n\n")
	for i, st := range stats {
		sb.WriteString(fmt.Sprintf("%s %s: %d wins in %d games, %d words\n",
			getMedalEmoji(i), st.Name, st.Wins, st.Games, st.Words))
	}
	return sb.String()
}

func formatHistory(games []models.GameRecord) string {
	var sb strings.Builder
	sb.WriteString("Recent games:\n\n")
	for i, g := range games {
		teams := make([]string, 0, len(g.Teams))
		for _, t := range g.Teams {
			if t.Winner {
				teams = append(teams, fmt.Sprintf("%s %d 🏆", t.Name, t.Score))
				continue
			}
			teams = append(teams, fmt.Sprintf("%s %d", t.Name, t.Score))
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s/%s, %d rounds: %s\n",
			i+1, g.FinishedAt.Format(historyTimeLayout), g.Language, g.Difficulty, g.Rounds, strings.Join(teams, ", ")))
	}
	return sb.String()
}
