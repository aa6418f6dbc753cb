package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/infra/storage/memory"
)

type stubReporter struct {
	calls int
	err   error
	id    string
}

func (s *stubReporter) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx Context,
) (*Handle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Handle{Error: sig, ID: s.id}, nil
}

func TestBuild(t *testing.T) {
	sig := domain.ErrorSignal{
		Message: "boom",
		Stack:   "at main",
		Source:  "app.js",
		Line:    10,
		Column:  4,
	}
	rctx := Context{
		Source:      "global_error",
		Breadcrumbs: []string{"opened settings"},
	}

	rep := Build(sig, domain.SeverityHigh, rctx)

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "boom", rep.Message)
	assert.Equal(t, "app.js", rep.Source)
	assert.Equal(t, domain.SeverityHigh, rep.Severity)
	assert.Equal(t, []string{"opened settings"}, rep.Breadcrumbs)
	assert.False(t, rep.CreatedAt.IsZero())

	// Different builds get different IDs.
	assert.NotEqual(t, rep.ID, Build(sig, domain.SeverityHigh, rctx).ID)
}

func TestBuild_SourceFallsBackToContext(t *testing.T) {
	rep := Build(domain.ErrorSignal{Message: "boom"}, domain.SeverityLow, Context{Source: "unhandled_rejection"})
	assert.Equal(t, "unhandled_rejection", rep.Source)
}

func TestMulti_FansOutAndReturnsFirstHandle(t *testing.T) {
	first := &stubReporter{id: "first"}
	second := &stubReporter{id: "second"}
	multi := NewMulti(first, second)

	handle, err := multi.ReportError(context.Background(), domain.ErrorSignal{Message: "boom"}, domain.SeverityHigh, Context{})

	require.NoError(t, err)
	assert.Equal(t, "first", handle.ID)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestMulti_PartialFailureStillDelivers(t *testing.T) {
	failing := &stubReporter{err: fmt.Errorf("sink down")}
	healthy := &stubReporter{id: "ok"}
	multi := NewMulti(failing, healthy)

	handle, err := multi.ReportError(context.Background(), domain.ErrorSignal{Message: "boom"}, domain.SeverityHigh, Context{})

	require.NoError(t, err)
	assert.Equal(t, "ok", handle.ID)
}

func TestMulti_AllFailed(t *testing.T) {
	errA := errors.New("a down")
	errB := errors.New("b down")
	multi := NewMulti(&stubReporter{err: errA}, &stubReporter{err: errB})

	_, err := multi.ReportError(context.Background(), domain.ErrorSignal{Message: "boom"}, domain.SeverityHigh, Context{})

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestMulti_NoSinks(t *testing.T) {
	_, err := NewMulti().ReportError(context.Background(), domain.ErrorSignal{Message: "boom"}, domain.SeverityHigh, Context{})
	assert.Error(t, err)
}

func TestLogReporter_NeverFails(t *testing.T) {
	r := NewLogReporter(nil)

	for _, severity := range []domain.Severity{domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh} {
		handle, err := r.ReportError(context.Background(), domain.ErrorSignal{Message: "boom", Line: 3, Column: 1}, severity, Context{})
		require.NoError(t, err)
		assert.NotEmpty(t, handle.ID)
		assert.False(t, handle.Timestamp.IsZero())
	}
}

func TestStoreReporter_Persists(t *testing.T) {
	repo := memory.NewReportRepo()
	r := NewStoreReporter(repo)

	handle, err := r.ReportError(context.Background(),
		domain.ErrorSignal{Message: "boom", Source: "app.js"},
		domain.SeverityMedium,
		Context{Breadcrumbs: []string{"clicked save"}})

	require.NoError(t, err)

	saved, err := repo.GetByID(context.Background(), handle.ID)
	require.NoError(t, err)
	assert.Equal(t, "boom", saved.Message)
	assert.Equal(t, domain.SeverityMedium, saved.Severity)
	assert.Equal(t, []string{"clicked save"}, saved.Breadcrumbs)
}

func TestBreadcrumbs_Ring(t *testing.T) {
	crumbs := NewBreadcrumbs(3)
	for i := 1; i <= 5; i++ {
		crumbs.Add(fmt.Sprintf("step %d", i))
	}

	assert.Equal(t, []string{"step 3", "step 4", "step 5"}, crumbs.Snapshot())
}

func TestBreadcrumbs_SnapshotIsCopy(t *testing.T) {
	crumbs := NewBreadcrumbs(5)
	crumbs.Add("first")

	snap := crumbs.Snapshot()
	snap[0] = "mutated"

	assert.Equal(t, []string{"first"}, crumbs.Snapshot())
}
