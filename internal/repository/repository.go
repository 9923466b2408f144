package repository

import (
	"context"
	"database/sql"
	"io/fs"

	"alias/internal/models"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type Words interface {
	Load(lang models.Language, difficulty models.Difficulty) map[string]string
	Available() []models.CatalogKey
}

type History interface {
	SaveGame(ctx context.Context, record models.GameRecord) error
	ListGames(ctx context.Context, chatID int64, limit int) ([]models.GameRecord, error)
	TeamStats(ctx context.Context, chatID int64) ([]models.TeamStats, error)
}

type Repository struct {
	Words
	History
}

// NewRepository keeps finished games in postgres when db is set and in memory otherwise.
func NewRepository(db *sql.DB, words fs.FS, logger Logger) *Repository {
	var history History = NewHistoryMemory()
	if db != nil {
		history = NewHistoryPostgres(db)
	}
	return &Repository{
		Words:   NewWordCatalog(words, logger),
		History: history,
	}
}
