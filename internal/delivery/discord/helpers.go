package discord

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"alias/internal/game"
	"alias/internal/models"

	"github.com/bwmarrin/discordgo"
)

func parseChannelID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

func channelID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

func (b *Bot) parseCommand(content string) (string, bool) {
	if !strings.HasPrefix(content, b.prefix) {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, b.prefix))
	if len(fields) == 0 {
		return "", false
	}
	return strings.ToLower(fields[0]), true
}

func buttonStyle(data string) discordgo.ButtonStyle {
	switch {
	case strings.HasSuffix(data, models.Explained.String()):
		return discordgo.SuccessButton
	case strings.HasSuffix(data, models.Skipped.String()), strings.HasSuffix(data, ":stop"):
		return discordgo.DangerButton
	case strings.HasPrefix(data, "round:"):
		return discordgo.PrimaryButton
	default:
		return discordgo.SecondaryButton
	}
}

func components(kb game.Keyboard) []discordgo.MessageComponent {
	rows := kb.Buttons()
	if len(rows) == 0 {
		return nil
	}

	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    btn.Label,
				Style:    buttonStyle(btn.Data),
				CustomID: btn.Data,
			})
		}
		out = append(out, discordgo.ActionsRow{Components: buttons})
	}
	return out
}

// truncate cuts text on a rune boundary to fit a Discord message.
func truncate(text string) string {
	if len(text) <= maxMessageLength {
		return text
	}
	cut := maxMessageTruncation
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func (b *Bot) sendTo(chatID int64) func(result) error {
	return func(res result) error {
		msg := &discordgo.MessageSend{
			Content:    truncate(strings.TrimSpace(res.reply.Text)),
			Components: components(res.reply.Keyboard),
		}
		if res.embed != nil {
			msg.Embeds = []*discordgo.MessageEmbed{res.embed}
		}
		if res.file != nil {
			msg.Files = []*discordgo.File{res.file}
		}
		if msg.Content == "" && len(msg.Embeds) == 0 && len(msg.Files) == 0 {
			return nil
		}
		_, err := b.api.ChannelMessageSendComplex(channelID(chatID), msg)
		return err
	}
}

func (b *Bot) respondTo(i *discordgo.Interaction) func(result) error {
	return func(res result) error {
		data := &discordgo.InteractionResponseData{
			Content:    truncate(strings.TrimSpace(res.reply.Text)),
			Components: components(res.reply.Keyboard),
		}
		if res.embed != nil {
			data.Embeds = []*discordgo.MessageEmbed{res.embed}
		}
		if res.err != nil {
			data.Flags = discordgo.MessageFlagsEphemeral
		}
		return b.api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		})
	}
}

func (b *Bot) editResponse(i *discordgo.Interaction) func(result) error {
	return func(res result) error {
		content := truncate(strings.TrimSpace(res.reply.Text))
		edit := &discordgo.WebhookEdit{Content: &content}
		if res.embed != nil {
			edit.Embeds = &[]*discordgo.MessageEmbed{res.embed}
		}
		if res.file != nil {
			edit.Files = []*discordgo.File{res.file}
		}
		_, err := b.api.InteractionResponseEdit(i, edit)
		return err
	}
}

func (b *Bot) respondMessage(i *discordgo.Interaction, msg string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := b.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	})
	if err != nil {
		b.logger.Warn("failed to respond to interaction: %s", err.Error())
	}
}

func (b *Bot) hasCountdown(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.countdowns[chatID]
	return ok
}

// countdownFor reports whether the channel shows the countdown of round.
func (b *Bot) countdownFor(chatID int64, round uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.countdowns[chatID]
	return ok && c.round == round
}

// startCountdown shows the countdown of round, replacing one left over from
// an earlier round. Handlers run concurrently, so the map entry is claimed
// before the message is sent.
func (b *Bot) startCountdown(chatID int64, round uint64, remaining time.Duration) {
	text := game.FormatRemaining(remaining)

	b.mu.Lock()
	old, ok := b.countdowns[chatID]
	if ok && old.round == round {
		b.mu.Unlock()
		return
	}
	c := &countdown{round: round, text: text}
	b.countdowns[chatID] = c
	var oldID string
	if ok {
		oldID = old.messageID
	}
	b.mu.Unlock()

	b.deleteMessage(chatID, oldID)

	msg, err := b.api.ChannelMessageSendComplex(channelID(chatID), &discordgo.MessageSend{Content: text})
	if err != nil {
		b.logger.Error("channel %d: failed to send countdown: %s", chatID, err.Error())
	}

	b.mu.Lock()
	current := b.countdowns[chatID] == c
	switch {
	case err != nil && current:
		delete(b.countdowns, chatID)
	case err == nil && current:
		c.messageID = msg.ID
	}
	b.mu.Unlock()

	if err == nil && !current {
		// dropped or replaced while sending
		b.deleteMessage(chatID, msg.ID)
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

func (b *Bot) deleteMessage(chatID int64, messageID string) {
	if messageID == "" {
		return
	}
	if err := b.api.ChannelMessageDelete(channelID(chatID), messageID); err != nil {
		b.logger.Debug("channel %d: countdown message already gone: %s", chatID, err.Error())
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

func leaderboardEmbed(stats []models.TeamStats, limit int) *discordgo.MessageEmbed {
	if len(stats) > limit {
		stats = stats[:limit]
	}

	var sb strings.Builder
	for i, st := range stats {
		sb.WriteString(fmt.Sprintf("%s %s: `%d` wins in %d games, %d words\n",
			getMedalEmoji(i), st.Name, st.Wins, st.Games, st.Words))
	}

	return &discordgo.MessageEmbed{
		Title:       "Leaderboard",
		Description: sb.String(),
		Color:       colorGold,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Alias"},
	}
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
