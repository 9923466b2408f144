package repository

import (
	"context"
	"database/sql"
	"fmt"

	"alias/internal/models"

	"github.com/lib/pq"
)

type HistoryPostgres struct {
	db *sql.DB
}

func NewHistoryPostgres(db *sql.DB) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

func (r *HistoryPostgres) SaveGame(ctx context.Context, record models.GameRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (chat_id, winner, language, difficulty, rounds, win_target, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, record.ChatID, record.Winner, string(record.Language), string(record.Difficulty),
		record.Rounds, record.WinTarget, record.FinishedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not insert game: %w", err)
	}

	for i, t := range record.Teams {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO game_teams (game_id, position, team_name, score, is_winner)
			VALUES ($1, $2, $3, $4, $5)
		`, id, i, t.Name, t.Score, t.Winner)
		if err != nil {
			return fmt.Errorf("could not insert team %q: %w", t.Name, err)
		}
	}

	return tx.Commit()
}

func (r *HistoryPostgres) ListGames(ctx context.Context, chatID int64, limit int) ([]models.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, winner, language, difficulty, rounds, win_target, finished_at
		FROM games WHERE chat_id = $1
		ORDER BY finished_at DESC, id DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.GameRecord
	var ids []int64
	index := make(map[int]int)
	for rows.Next() {
		var g models.GameRecord
		var lang, difficulty string
		if err := rows.Scan(&g.ID, &g.ChatID, &g.Winner, &lang, &difficulty, &g.Rounds, &g.WinTarget, &g.FinishedAt); err != nil {
			return nil, err
		}
		g.Language = models.Language(lang)
		g.Difficulty = models.Difficulty(difficulty)
		index[g.ID] = len(games)
		ids = append(ids, int64(g.ID))
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return games, nil
	}

	teamRows, err := r.db.QueryContext(ctx, `
		SELECT game_id, team_name, score, is_winner
		FROM game_teams WHERE game_id = ANY($1)
		ORDER BY game_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer teamRows.Close()

	for teamRows.Next() {
		var t models.TeamResult
		if err := teamRows.Scan(&t.GameID, &t.Name, &t.Score, &t.Winner); err != nil {
			return nil, err
		}
		if i, ok := index[t.GameID]; ok {
			games[i].Teams = append(games[i].Teams, t)
		}
	}
	return games, teamRows.Err()
}

func (r *HistoryPostgres) TeamStats(ctx context.Context, chatID int64) ([]models.TeamStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.team_name,
			   COUNT(*) AS games,
			   COUNT(*) FILTER (WHERE t.is_winner) AS wins,
			   COALESCE(SUM(t.score), 0) AS words
		FROM game_teams t JOIN games g ON g.id = t.game_id
		WHERE g.chat_id = $1
		GROUP BY t.team_name
		ORDER BY wins DESC, words DESC, t.team_name
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.TeamStats
	for rows.Next() {
		var s models.TeamStats
		if err := rows.Scan(&s.Name, &s.Games, &s.Wins, &s.Words); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
