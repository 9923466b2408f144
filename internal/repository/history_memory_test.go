package repository

import (
	"context"
	"testing"
	"time"

	"alias/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(chatID int64, winner string, teams ...models.TeamResult) models.GameRecord {
	for i := range teams {
		teams[i].Winner = teams[i].Name == winner
	}
	return models.GameRecord{
		ChatID:     chatID,
		Winner:     winner,
		Language:   models.LanguageEnglish,
		Difficulty: models.DifficultyEasy,
		Rounds:     4,
		WinTarget:  15,
		FinishedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Teams:      teams,
	}
}

func TestHistoryMemory_ListGames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHistoryMemory()

	require.NoError(t, h.SaveGame(ctx, game(1, "A", models.TeamResult{Name: "A", Score: 15}, models.TeamResult{Name: "B", Score: 9})))
	require.NoError(t, h.SaveGame(ctx, game(2, "X", models.TeamResult{Name: "X", Score: 15}, models.TeamResult{Name: "Y", Score: 3})))
	require.NoError(t, h.SaveGame(ctx, game(1, "B", models.TeamResult{Name: "A", Score: 11}, models.TeamResult{Name: "B", Score: 16})))

	games, err := h.ListGames(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 3, games[0].ID)
	assert.Equal(t, "B", games[0].Winner)
	assert.Equal(t, 1, games[1].ID)
	for _, team := range games[0].Teams {
		assert.Equal(t, 3, team.GameID)
	}

	games, err = h.ListGames(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 3, games[0].ID)

	games, err = h.ListGames(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestHistoryMemory_TeamStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHistoryMemory()

	require.NoError(t, h.SaveGame(ctx, game(1, "A", models.TeamResult{Name: "A", Score: 15}, models.TeamResult{Name: "B", Score: 9})))
	require.NoError(t, h.SaveGame(ctx, game(1, "A", models.TeamResult{Name: "A", Score: 15}, models.TeamResult{Name: "C", Score: 14})))
	require.NoError(t, h.SaveGame(ctx, game(1, "B", models.TeamResult{Name: "B", Score: 15}, models.TeamResult{Name: "C", Score: 2})))
	require.NoError(t, h.SaveGame(ctx, game(2, "Z", models.TeamResult{Name: "Z", Score: 15}, models.TeamResult{Name: "A", Score: 1})))

	stats, err := h.TeamStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.TeamStats{
		{Name: "A", Games: 2, Wins: 2, Words: 30},
		{Name: "B", Games: 2, Wins: 1, Words: 24},
		{Name: "C", Games: 2, Wins: 0, Words: 16},
	}, stats)
}

func TestHistoryMemory_SaveDoesNotAliasCaller(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := NewHistoryMemory()

	rec := game(1, "A", models.TeamResult{Name: "A", Score: 15}, models.TeamResult{Name: "B", Score: 9})
	require.NoError(t, h.SaveGame(ctx, rec))
	rec.Teams[0].Score = 0

	games, err := h.ListGames(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 15, games[0].Teams[0].Score)
	assert.Zero(t, rec.Teams[0].GameID)
}
