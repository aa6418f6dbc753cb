package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

var (
	// ErrReportNotFound is returned when a report doesn't exist
	ErrReportNotFound = errors.New("report not found")
)

// ReportRepository handles report persistence
type ReportRepository interface {
	// Save persists a report
	Save(ctx context.Context, rep *domain.Report) error

	// GetByID retrieves a report by ID
	GetByID(ctx context.Context, id string) (*domain.Report, error)

	// GetRecent retrieves the most recent reports, newest first
	GetRecent(ctx context.Context, limit int) ([]*domain.Report, error)

	// CountSince counts reports created at or after the given time
	CountSince(ctx context.Context, since time.Time) (int, error)

	// DeleteOlderThan removes reports created before the given time
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
