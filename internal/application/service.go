package application

import (
	"alias/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type Service struct {
	ReportService ReportService
}

// NewService wires the report service. sheets may be nil when no Google
// credentials are configured.
func NewService(repos *repository.Repository, sheets SheetsService, logger Logger) *Service {
	return &Service{
		ReportService: NewReportServiceImpl(repos.History, sheets, logger),
	}
}
