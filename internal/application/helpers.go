package application

import (
	"fmt"
	"strings"

	"alias/internal/models"
)

func calculateWinRate(wins, games int) float64 {
	if games == 0 {
		return 0.0
	}
	return (float64(wins) / float64(games)) * 100
}

func leaderboardRows(stats []models.TeamStats) [][]interface{} {
	rows := make([][]interface{}, 0, len(stats)+1)
	header := make([]interface{}, len(leaderboardHeaders))
	for i, h := range leaderboardHeaders {
		header[i] = h
	}
	rows = append(rows, header)

	for i, st := range stats {
		rows = append(rows, []interface{}{
			i + 1,
			st.Name,
			st.Games,
			st.Wins,
			st.Words,
			fmt.Sprintf("%.1f", calculateWinRate(st.Wins, st.Games)),
		})
	}
	return rows
}

func formatTeams(teams []models.TeamResult) string {
	parts := make([]string, len(teams))
	for i, t := range teams {
		parts[i] = fmt.Sprintf("%s %d", t.Name, t.Score)
	}
	return strings.Join(parts, ", ")
}
