package ports

import "go.trai.ch/cleanbuild/internal/core/domain"

// ReportStore persists run reports.
//
//go:generate mockgen -source=report_store.go -destination=mocks/mock_report_store.go -package=mocks
type ReportStore interface {
	// Put writes the report to path.
	Put(path string, report *domain.Report) error
}
