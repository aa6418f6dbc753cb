package report

import (
	"context"
	"fmt"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/infra/storage"
)

// StoreReporter persists reports through a ReportRepository (Postgres or
// in-memory).
type StoreReporter struct {
	repo storage.ReportRepository
}

// NewStoreReporter creates a repository-backed sink.
func NewStoreReporter(repo storage.ReportRepository) *StoreReporter {
	return &StoreReporter{repo: repo}
}

func (r *StoreReporter) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx Context,
) (*Handle, error) {
	rep := Build(sig, severity, rctx)
	if err := r.repo.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	return &Handle{Error: sig, ID: rep.ID, Timestamp: rep.CreatedAt}, nil
}
