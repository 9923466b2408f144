package telegram

import "time"

const (
	updatesTimeout = 60
	reportTimeout  = 30 * time.Second
	statsLimit     = 10
	exportFileName = "alias_stats.xlsx"

	historyTimeLayout = "02.01 15:04"
)
