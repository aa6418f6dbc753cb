package report

import (
	"context"
	"errors"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Multi fans a report out to every sink. The first handle is returned;
// sink failures are joined so the caller can log them, but any single
// successful sink makes the report count as delivered.
type Multi struct {
	sinks []Reporter
}

// NewMulti creates a fan-out reporter.
func NewMulti(sinks ...Reporter) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx Context,
) (*Handle, error) {
	var handle *Handle
	var errs []error

	for _, sink := range m.sinks {
		h, err := sink.ReportError(ctx, sig, severity, rctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if handle == nil {
			handle = h
		}
	}

	if handle == nil {
		if len(errs) == 0 {
			return nil, errors.New("no report sinks configured")
		}
		return nil, errors.Join(errs...)
	}
	return handle, nil
}
