package discord

import (
	"context"
	"errors"
	"fmt"

	"alias/internal/application"
	"alias/internal/game"

	"github.com/bwmarrin/discordgo"
)

func slashCommands() []*discordgo.ApplicationCommand {
	commands := make([]*discordgo.ApplicationCommand, 0, len(game.Commands))
	for _, c := range game.Commands {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return commands
}

func isReportCommand(name string) bool {
	switch name {
	case "stats", "history", "export", "sync_sheet":
		return true
	}
	return false
}

// result is one outgoing message. engine is set when reply came from the
// game engine and so describes the round.
type result struct {
	reply  game.Reply
	err    error
	engine bool
	embed  *discordgo.MessageEmbed
	file   *discordgo.File
}

func engineResult(r game.Reply, err error) result {
	return result{reply: r, err: err, engine: true}
}

func textResult(text string) result {
	return result{reply: game.Reply{Text: text, Keyboard: game.KbNone}}
}

func (b *Bot) command(chatID int64, name, prefix string) result {
	switch name {
	case "start":
		return engineResult(b.engine.BeginConfiguration(chatID), nil)
	case "cancel":
		return engineResult(b.engine.CancelGame(chatID), nil)
	case "help":
		return textResult(game.HelpText(prefix, b.words.Available()))
	case "score":
		return engineResult(b.engine.Status(chatID), nil)
	case "next":
		return engineResult(b.engine.RequestNextRound(chatID))
	case "stop":
		return engineResult(b.engine.EndRound(chatID))
	case "stats", "history", "export", "sync_sheet":
		return b.report(chatID, name)
	default:
		return textResult(fmt.Sprintf("Unknown command. Use %shelp to see what I can do.", prefix))
	}
}

func (b *Bot) report(chatID int64, name string) result {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	switch name {
	case "stats":
		stats, err := b.reports.Leaderboard(ctx, chatID)
		if errors.Is(err, application.ErrNoHistory) {
			return textResult("No finished games in this channel yet.")
		}
		if err != nil {
			b.logger.Error("channel %d: stats failed: %s", chatID, err.Error())
			return textResult("Could not load the statistics, try again later.")
		}
		return result{embed: leaderboardEmbed(stats, statsLimit)}

	case "history":
		games, err := b.reports.RecentGames(ctx, chatID)
		if errors.Is(err, application.ErrNoHistory) {
			return textResult("No finished games in this channel yet.")
		}
		if err != nil {
			b.logger.Error("channel %d: history failed: %s", chatID, err.Error())
			return textResult("Could not load the game history, try again later.")
		}
		return textResult(formatHistory(games))

	case "export":
		data, err := b.reports.GetExcelReport(ctx, chatID)
		if err != nil {
			b.logger.Warn("channel %d: export failed: %s", chatID, err.Error())
			return textResult("Export failed: " + err.Error())
		}
		res := textResult("Your report is ready!")
		res.file = &discordgo.File{Name: exportFileName, ContentType: xlsxMimeType, Reader: bytesReader(data)}
		return res

	default:
		url, err := b.reports.SyncToGoogleSheet(ctx, chatID)
		if err != nil {
			return textResult("Sync failed: " + err.Error())
		}
		return textResult(fmt.Sprintf("Leaderboard published!\nLink: %s", url))
	}
}
