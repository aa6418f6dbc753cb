// Package report defines the Reporter interface the pipeline consumes and
// the reference sinks that implement it. The core owns this interface; the
// concrete telemetry backends are collaborators behind it.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Context carries report metadata alongside the signal.
type Context struct {
	Source         string
	Breadcrumbs    []string
	AdditionalData map[string]any
}

// Handle identifies an accepted report.
type Handle struct {
	Error     domain.ErrorSignal
	ID        string
	Timestamp time.Time
}

// Reporter accepts a signal plus severity plus context. Implementations may
// fail; the pipeline logs and swallows those failures, so a sink must never
// assume its errors stop anything.
type Reporter interface {
	ReportError(ctx context.Context, sig domain.ErrorSignal, severity domain.Severity, rctx Context) (*Handle, error)
}

// Build assembles the persisted report form shared by the storage-backed
// sinks, assigning the ID and timestamp.
func Build(sig domain.ErrorSignal, severity domain.Severity, rctx Context) *domain.Report {
	source := sig.Source
	if source == "" {
		source = rctx.Source
	}
	return &domain.Report{
		ID:             uuid.New().String(),
		Message:        sig.Message,
		Stack:          sig.Stack,
		Source:         source,
		Line:           sig.Line,
		Column:         sig.Column,
		Severity:       severity,
		Breadcrumbs:    rctx.Breadcrumbs,
		AdditionalData: rctx.AdditionalData,
		CreatedAt:      time.Now().UTC(),
	}
}
