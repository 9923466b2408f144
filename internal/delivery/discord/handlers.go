package discord

import (
	"errors"
	"strings"
	"time"

	"alias/internal/game"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	chatID, err := parseChannelID(i.ChannelID)
	if err != nil {
		b.logger.Warn("interaction from unexpected channel %q", i.ChannelID)
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(i.Interaction, chatID, i.ApplicationCommandData().Name)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i.Interaction, chatID, i.MessageComponentData().CustomID)
	}
}

func (b *Bot) handleSlashCommand(i *discordgo.Interaction, chatID int64, name string) {
	if !isReportCommand(name) {
		b.deliver(chatID, b.command(chatID, name, "/"), b.respondTo(i))
		return
	}

	err := b.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Error("channel %d: failed to defer response: %s", chatID, err.Error())
		return
	}
	b.deliver(chatID, b.command(chatID, name, "/"), b.editResponse(i))
}

func (b *Bot) handleComponent(i *discordgo.Interaction, chatID int64, customID string) {
	r, err := b.engine.Press(chatID, customID)
	if err != nil {
		b.respondMessage(i, valueOrDefault(r.Text, "This button is no longer active."), true)
		return
	}

	// the next word replaces the pressed one
	if r.Word != nil && b.countdownFor(chatID, r.Round) {
		err := b.api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    r.Text,
				Components: components(r.Keyboard),
			},
		})
		if err == nil {
			return
		}
		b.logger.Warn("channel %d: failed to update word message: %s", chatID, err.Error())
	}
	b.deliver(chatID, engineResult(r, nil), b.respondTo(i))
}

func (b *Bot) onMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	chatID, err := parseChannelID(m.ChannelID)
	if err != nil {
		return
	}

	content := strings.TrimSpace(m.Content)
	if name, ok := b.parseCommand(content); ok {
		b.deliver(chatID, b.command(chatID, name, b.prefix), b.sendTo(chatID))
		return
	}

	r, err := b.engine.HandleText(chatID, content)
	if errors.Is(err, game.ErrWrongStep) || errors.Is(err, game.ErrSessionNotFound) {
		// chatter outside of game setup
		return
	}
	b.deliver(chatID, engineResult(r, err), b.sendTo(chatID))
}

// deliver sends res and keeps the countdown message in step with the round.
// Error notices never touch the countdown.
func (b *Bot) deliver(chatID int64, res result, send func(result) error) {
	settled := res.engine && res.err == nil
	if settled && res.reply.Phase != game.PhaseInRound {
		b.dropCountdown(chatID, res.reply.Round)
	}

	if err := send(res); err != nil {
		b.logger.Error("channel %d: failed to send message: %s", chatID, err.Error())
		return
	}

	if settled && res.reply.Phase == game.PhaseInRound && res.reply.Word != nil {
		b.startCountdown(chatID, res.reply.Round, res.reply.Remaining)
	}
}

// RoundTick edits the countdown message. A failed edit ends the round.
func (b *Bot) RoundTick(chatID int64, remaining time.Duration) error {
	text := game.FormatRemaining(remaining)

	b.mu.Lock()
	c, ok := b.countdowns[chatID]
	if !ok || c.messageID == "" || c.text == text {
		b.mu.Unlock()
		return nil
	}
	c.text = text
	messageID := c.messageID
	b.mu.Unlock()

	_, err := b.api.ChannelMessageEdit(channelID(chatID), messageID, text)
	return err
}

func (b *Bot) RoundOver(chatID int64, r game.Reply) {
	b.deliver(chatID, engineResult(r, nil), b.sendTo(chatID))
}
