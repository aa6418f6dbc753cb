package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/faultline/internal/core/domain"
)

// LogReporter writes reports to structured logs. It is the sink of last
// resort and never fails.
type LogReporter struct {
	log *slog.Logger
}

// NewLogReporter creates a log sink; a nil logger uses the default.
func NewLogReporter(log *slog.Logger) *LogReporter {
	if log == nil {
		log = slog.Default()
	}
	return &LogReporter{log: log}
}

func (r *LogReporter) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx Context,
) (*Handle, error) {
	handle := &Handle{
		Error:     sig,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}

	attrs := []any{
		"report_id", handle.ID,
		"message", sig.Message,
		"source", sig.Source,
		"origin", rctx.Source,
		"breadcrumbs", len(rctx.Breadcrumbs),
	}
	if sig.Line > 0 {
		attrs = append(attrs, "line", sig.Line, "column", sig.Column)
	}

	switch severity {
	case domain.SeverityLow:
		r.log.Debug("fault reported", attrs...)
	case domain.SeverityMedium:
		r.log.Warn("fault reported", attrs...)
	default:
		r.log.Error("fault reported", attrs...)
	}
	return handle, nil
}
