package application

import (
	"context"

	"alias/internal/models"

	"github.com/stretchr/testify/mock"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) SaveGame(ctx context.Context, record models.GameRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistory) ListGames(ctx context.Context, chatID int64, limit int) ([]models.GameRecord, error) {
	args := m.Called(ctx, chatID, limit)
	games, _ := args.Get(0).([]models.GameRecord)
	return games, args.Error(1)
}

func (m *MockHistory) TeamStats(ctx context.Context, chatID int64) ([]models.TeamStats, error) {
	args := m.Called(ctx, chatID)
	stats, _ := args.Get(0).([]models.TeamStats)
	return stats, args.Error(1)
}

type MockSheetsClient struct {
	mock.Mock
}

func (m *MockSheetsClient) CreateSpreadsheet(ctx context.Context, title string) (string, string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockSheetsClient) AddPermission(ctx context.Context, spreadsheetID, email, role string) error {
	return m.Called(ctx, spreadsheetID, email, role).Error(0)
}

func (m *MockSheetsClient) MakePublic(ctx context.Context, spreadsheetID string) error {
	return m.Called(ctx, spreadsheetID).Error(0)
}

func (m *MockSheetsClient) ClearRange(ctx context.Context, spreadsheetID, rangeStr string) error {
	return m.Called(ctx, spreadsheetID, rangeStr).Error(0)
}

func (m *MockSheetsClient) UpdateValues(ctx context.Context, spreadsheetID, rangeStr string, values [][]interface{}) error {
	return m.Called(ctx, spreadsheetID, rangeStr, values).Error(0)
}

func (m *MockSheetsClient) FormatHeader(ctx context.Context, spreadsheetID string, columns int) error {
	return m.Called(ctx, spreadsheetID, columns).Error(0)
}
