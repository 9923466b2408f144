package application

const (
	// History limits
	defaultHistoryLimit = 10
	exportHistoryLimit  = 500

	// Google Sheets configuration
	sheetsTitleFormat    = "Alias stats (chat %d)"
	sheetsOwnerRole      = "writer"
	sheetsClearRange     = "A1:Z1000"
	sheetsStartCell      = "A1"
	spreadsheetURLFormat = "https://docs.google.com/spreadsheets/d/%s"

	// Excel report configuration
	excelLeaderboardSheet = "Leaderboard"
	excelGamesSheet       = "Games"
	excelDateLayout       = "2006-01-02 15:04"
)

var leaderboardHeaders = []string{"Rank", "Team", "Games", "Wins", "Words", "WinRate %"}
