package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/infra/storage"
)

func TestReportRepo_SaveAndGet(t *testing.T) {
	repo := NewReportRepo()
	ctx := context.Background()

	rep := &domain.Report{
		ID:        "r-1",
		Message:   "boom",
		Severity:  domain.SeverityHigh,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "boom", got.Message)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrReportNotFound)
}

func TestReportRepo_GetRecentOrdering(t *testing.T) {
	repo := NewReportRepo()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &domain.Report{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
}

func TestReportRepo_CountAndPrune(t *testing.T) {
	repo := NewReportRepo()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &domain.Report{ID: "old", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, &domain.Report{ID: "new", CreatedAt: now}))

	count, err := repo.CountSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(ctx, "old")
	assert.ErrorIs(t, err, storage.ErrReportNotFound)
}
