package application

import (
	"context"
	"errors"
	"fmt"

	"alias/internal/models"
	"alias/internal/repository"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetsDisabled = errors.New("google sheets export is not configured")
	ErrNoHistory      = errors.New("no finished games in this chat yet")
)

type ReportService interface {
	SaveGame(ctx context.Context, record models.GameRecord) error
	Leaderboard(ctx context.Context, chatID int64) ([]models.TeamStats, error)
	RecentGames(ctx context.Context, chatID int64) ([]models.GameRecord, error)
	GetExcelReport(ctx context.Context, chatID int64) ([]byte, error)
	SyncToGoogleSheet(ctx context.Context, chatID int64) (string, error)
}

type ReportServiceImpl struct {
	repo   repository.History
	sheets SheetsService
	logger Logger
}

func NewReportServiceImpl(repo repository.History, sheets SheetsService, logger Logger) *ReportServiceImpl {
	return &ReportServiceImpl{
		repo:   repo,
		sheets: sheets,
		logger: logger,
	}
}

// SaveGame archives a finished game. It is what the game engine records to.
func (s *ReportServiceImpl) SaveGame(ctx context.Context, record models.GameRecord) error {
	if err := s.repo.SaveGame(ctx, record); err != nil {
		return fmt.Errorf("failed to save game of chat %d: %w", record.ChatID, err)
	}
	s.logger.Info("chat %d: archived game won by %s after %d rounds", record.ChatID, record.Winner, record.Rounds)
	return nil
}

func (s *ReportServiceImpl) Leaderboard(ctx context.Context, chatID int64) ([]models.TeamStats, error) {
	stats, err := s.repo.TeamStats(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team stats: %w", err)
	}
	if len(stats) == 0 {
		return nil, ErrNoHistory
	}
	return stats, nil
}

func (s *ReportServiceImpl) RecentGames(ctx context.Context, chatID int64) ([]models.GameRecord, error) {
	games, err := s.repo.ListGames(ctx, chatID, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	if len(games) == 0 {
		return nil, ErrNoHistory
	}
	return games, nil
}

func (s *ReportServiceImpl) GetExcelReport(ctx context.Context, chatID int64) ([]byte, error) {
	stats, err := s.Leaderboard(ctx, chatID)
	if err != nil {
		return nil, err
	}
	games, err := s.repo.ListGames(ctx, chatID, exportHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(excelLeaderboardSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(excelGamesSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for r, row := range leaderboardRows(stats) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(excelLeaderboardSheet, cell, v)
		}
	}
	f.SetColWidth(excelLeaderboardSheet, "A", "A", 8)
	f.SetColWidth(excelLeaderboardSheet, "B", "B", 24)
	f.SetColWidth(excelLeaderboardSheet, "C", "F", 12)

	headers := []string{"ID", "Finished", "Winner", "Language", "Difficulty", "Rounds", "Target", "Teams"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(excelGamesSheet, cell, h)
	}

	row := 2
	for _, g := range games {
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("A%d", row), g.ID)
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("B%d", row), g.FinishedAt.Format(excelDateLayout))
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("C%d", row), g.Winner)
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("D%d", row), string(g.Language))
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("E%d", row), string(g.Difficulty))
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("F%d", row), g.Rounds)
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("G%d", row), g.WinTarget)
		f.SetCellValue(excelGamesSheet, fmt.Sprintf("H%d", row), formatTeams(g.Teams))
		row++
	}
	f.SetColWidth(excelGamesSheet, "B", "B", 18)
	f.SetColWidth(excelGamesSheet, "H", "H", 40)

	if idx, err := f.GetSheetIndex(excelLeaderboardSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportServiceImpl) SyncToGoogleSheet(ctx context.Context, chatID int64) (string, error) {
	if s.sheets == nil {
		return "", ErrSheetsDisabled
	}

	stats, err := s.Leaderboard(ctx, chatID)
	if err != nil {
		return "", err
	}

	url, err := s.sheets.Publish(ctx, chatID, leaderboardRows(stats))
	if err != nil {
		s.logger.Error("chat %d: google sheet sync failed: %s", chatID, err.Error())
		return "", err
	}
	s.logger.Info("chat %d: leaderboard synced to %s", chatID, url)
	return url, nil
}
