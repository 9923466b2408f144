package discord

import "time"

const (
	// Display limits
	statsLimit           = 10
	maxMessageLength     = 2000
	maxMessageTruncation = 1990

	reportTimeout  = 30 * time.Second
	exportFileName    = "alias_stats.xlsx"
	historyTimeLayout = "02.01 15:04"
	xlsxMimeType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Embed colors
	colorGold = 0xFFD700 // Leaderboard
)
