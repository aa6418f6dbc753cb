package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/report"
)

// Sink pushes JSON-encoded reports onto a capped Redis list, newest first.
// The list is trimmed to maxLen and expires after ttl of inactivity, so an
// abandoned stream cleans itself up.
type Sink struct {
	client *Client
	key    string
	maxLen int64
	ttl    time.Duration
}

// NewSink creates a report sink writing to the given stream name.
func NewSink(client *Client, stream string, maxLen int64, ttl time.Duration) *Sink {
	if maxLen <= 0 {
		maxLen = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sink{
		client: client,
		key:    reportsKey(stream),
		maxLen: maxLen,
		ttl:    ttl,
	}
}

// ReportError implements report.Reporter.
func (s *Sink) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx report.Context,
) (*report.Handle, error) {
	rep := report.Build(sig, severity, rctx)

	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	pipe := s.client.rdb.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	pipe.Expire(ctx, s.key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to push report: %w", err)
	}

	return &report.Handle{Error: sig, ID: rep.ID, Timestamp: rep.CreatedAt}, nil
}

// Recent returns up to limit most recent reports from the stream.
func (s *Sink) Recent(ctx context.Context, limit int64) ([]*domain.Report, error) {
	raw, err := s.client.rdb.LRange(ctx, s.key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	reports := make([]*domain.Report, 0, len(raw))
	for _, item := range raw {
		var rep domain.Report
		if err := json.Unmarshal([]byte(item), &rep); err != nil {
			continue // skip corrupt entries rather than failing the read
		}
		reports = append(reports, &rep)
	}
	return reports, nil
}
