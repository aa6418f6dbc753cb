// Package memory provides an in-memory ReportRepository for development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/infra/storage"
)

// ReportRepo implements storage.ReportRepository with an in-memory map.
type ReportRepo struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
}

// NewReportRepo creates a new in-memory report repository.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{reports: make(map[string]*domain.Report)}
}

// Save persists a report.
func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rep
	r.reports[rep.ID] = &stored
	return nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, storage.ErrReportNotFound
	}
	out := *rep
	return &out, nil
}

// GetRecent retrieves the most recent reports, newest first.
func (r *ReportRepo) GetRecent(ctx context.Context, limit int) ([]*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out := *rep
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// CountSince counts reports created at or after the given time.
func (r *ReportRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rep := range r.reports {
		if !rep.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// DeleteOlderThan removes reports created before the given time.
func (r *ReportRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, rep := range r.reports {
		if rep.CreatedAt.Before(before) {
			delete(r.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

// Verify interface compliance.
var _ storage.ReportRepository = (*ReportRepo)(nil)
