package repository

import (
	"context"
	"sort"
	"sync"

	"alias/internal/models"
)

// HistoryMemory keeps finished games for the lifetime of the process.
type HistoryMemory struct {
	mu     sync.RWMutex
	games  []models.GameRecord
	nextID int
}

func NewHistoryMemory() *HistoryMemory {
	return &HistoryMemory{nextID: 1}
}

func (r *HistoryMemory) SaveGame(_ context.Context, record models.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	teams := make([]models.TeamResult, len(record.Teams))
	for i, t := range record.Teams {
		t.GameID = record.ID
		teams[i] = t
	}
	record.Teams = teams
	r.games = append(r.games, record)
	return nil
}

func (r *HistoryMemory) ListGames(_ context.Context, chatID int64, limit int) ([]models.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var games []models.GameRecord
	for i := len(r.games) - 1; i >= 0 && (limit <= 0 || len(games) < limit); i-- {
		if r.games[i].ChatID == chatID {
			games = append(games, r.games[i])
		}
	}
	return games, nil
}

func (r *HistoryMemory) TeamStats(_ context.Context, chatID int64) ([]models.TeamStats, error) {
	r.mu.RLock()
	byName := make(map[string]*models.TeamStats)
	for _, g := range r.games {
		if g.ChatID != chatID {
			continue
		}
		for _, t := range g.Teams {
			st, ok := byName[t.Name]
			if !ok {
				st = &models.TeamStats{Name: t.Name}
				byName[t.Name] = st
			}
			st.Games++
			st.Words += t.Score
			if t.Winner {
				st.Wins++
			}
		}
	}
	r.mu.RUnlock()

	stats := make([]models.TeamStats, 0, len(byName))
	for _, st := range byName {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Wins != stats[j].Wins {
			return stats[i].Wins > stats[j].Wins
		}
		if stats[i].Words != stats[j].Words {
			return stats[i].Words > stats[j].Words
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}
