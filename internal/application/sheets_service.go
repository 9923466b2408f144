package application

import (
	"context"
	"fmt"
	"sync"

	"alias/pkg/sheets"
)

type SheetsService interface {
	Publish(ctx context.Context, chatID int64, rows [][]interface{}) (string, error)
}

// SheetsServiceImpl keeps one public spreadsheet per chat and overwrites it on
// every publish.
type SheetsServiceImpl struct {
	client     sheets.Client
	ownerEmail string

	mu     sync.Mutex
	sheets map[int64]string
}

func NewSheetsServiceImpl(client sheets.Client, ownerEmail string) *SheetsServiceImpl {
	return &SheetsServiceImpl{
		client:     client,
		ownerEmail: ownerEmail,
		sheets:     make(map[int64]string),
	}
}

func (s *SheetsServiceImpl) Publish(ctx context.Context, chatID int64, rows [][]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureSheetExists(ctx, chatID)
	if err != nil {
		return "", err
	}

	if err := s.client.ClearRange(ctx, id, sheetsClearRange); err != nil {
		return "", fmt.Errorf("failed to clear spreadsheet: %w", err)
	}
	if err := s.client.UpdateValues(ctx, id, sheetsStartCell, rows); err != nil {
		return "", fmt.Errorf("failed to update spreadsheet: %w", err)
	}
	if len(rows) > 0 {
		if err := s.client.FormatHeader(ctx, id, len(rows[0])); err != nil {
			return "", fmt.Errorf("failed to format spreadsheet: %w", err)
		}
	}

	return spreadsheetURL(id), nil
}

func (s *SheetsServiceImpl) ensureSheetExists(ctx context.Context, chatID int64) (string, error) {
	if id, ok := s.sheets[chatID]; ok {
		return id, nil
	}

	id, _, err := s.client.CreateSpreadsheet(ctx, fmt.Sprintf(sheetsTitleFormat, chatID))
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	if s.ownerEmail != "" {
		if err := s.client.AddPermission(ctx, id, s.ownerEmail, sheetsOwnerRole); err != nil {
			return "", fmt.Errorf("failed to add owner permission: %w", err)
		}
	}

	if err := s.client.MakePublic(ctx, id); err != nil {
		return "", fmt.Errorf("failed to make spreadsheet public: %w", err)
	}

	s.sheets[chatID] = id
	return id, nil
}

func spreadsheetURL(id string) string {
	return fmt.Sprintf(spreadsheetURLFormat, id)
}
