package game

import (
	"fmt"
	"strings"

	"alias/internal/models"
)

// Command is a chat command offered by the bots.
type Command struct {
	Name        string
	Description string
}

var Commands = []Command{
	{Name: "start", Description: "Start a new game"},
	{Name: "cancel", Description: "Cancel the current game"},
	{Name: "help", Description: "Show how to play"},
	{Name: "score", Description: "Show the scoreboard"},
	{Name: "next", Description: "Start the next round"},
	{Name: "stop", Description: "End the running round"},
	{Name: "stats", Description: "Leaderboard of finished games"},
	{Name: "history", Description: "Recent finished games"},
	{Name: "export", Description: "Download the leaderboard as xlsx"},
	{Name: "sync_sheet", Description: "Publish the leaderboard to Google Sheets"},
}

// HelpText lists the commands with the given prefix and the word lists that
// can be played.
func HelpText(prefix string, catalogs []models.CatalogKey) string {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, c := range Commands {
		sb.WriteString(fmt.Sprintf("%s%s - %s\n", prefix, c.Name, c.Description))
	}

	sb.WriteString("\nHow to play:\n")
	sb.WriteString(fmt.Sprintf("1. Start the game with %sstart.\n", prefix))
	sb.WriteString("2. Choose the language and difficulty.\n")
	sb.WriteString(fmt.Sprintf("3. Enter the number of teams (%d-%d) and their names.\n", MinTeams, MaxTeams))
	sb.WriteString("4. Set the round duration and the number of words needed to win.\n")
	sb.WriteString("5. During the round explain words. Press ✅ if the word is explained, ❌ if skipped.\n")
	sb.WriteString("6. The game ends when a team reaches the set number of words.\n")

	if len(catalogs) > 0 {
		sb.WriteString("\nWord lists:")
		for _, c := range catalogs {
			sb.WriteString(fmt.Sprintf(" %s/%s", c.Language, c.Difficulty))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
