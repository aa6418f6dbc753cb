package health

import (
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/faults/dispatch"
)

// Status represents pipeline health.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// PipelineHealth is the per-pipeline health report.
type PipelineHealth struct {
	Name           string         `json:"name"`
	Status         Status         `json:"status"`
	Captured       uint64         `json:"captured"`
	Reported       uint64         `json:"reported"`
	ReportFailures uint64         `json:"report_failures"`
	Deduplicated   uint64         `json:"deduplicated"`
	Suppressed     uint64         `json:"suppressed"`
	DedupEntries   int            `json:"dedup_entries"`
	Stats          dispatch.Stats `json:"stats"`
}

// StatsSource exposes pipeline counters; the dispatcher implements it.
type StatsSource interface {
	Stats() dispatch.Stats
}

// Monitor aggregates health status from registered pipelines.
type Monitor struct {
	sources    map[string]StatsSource
	lastCheck  time.Time
	lastReport map[string]PipelineHealth
	mu         sync.RWMutex
}

// NewMonitor creates a new health monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		sources:    make(map[string]StatsSource),
		lastReport: make(map[string]PipelineHealth),
	}
}

// Register adds a pipeline under a name.
func (m *Monitor) Register(name string, source StatsSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[name] = source
}

// CheckHealth performs a health check for all pipelines.
func (m *Monitor) CheckHealth() map[string]PipelineHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering dispatcher locks
	if time.Since(m.lastCheck) < time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[string]PipelineHealth)
	for name, source := range m.sources {
		stats := source.Stats()
		health := PipelineHealth{
			Name:           name,
			Status:         statusFor(stats),
			Captured:       stats.Captured,
			Reported:       stats.Reported,
			ReportFailures: stats.ReportFailures,
			Deduplicated:   stats.Deduplicated,
			Suppressed:     stats.Suppressed + stats.SuppressedSilently,
			DedupEntries:   stats.DedupEntries,
			Stats:          stats,
		}
		report[name] = health
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// statusFor derives a status from delivery counters: failures with zero
// deliveries mean the reporter is dark; a high failure ratio is degraded.
func statusFor(stats dispatch.Stats) Status {
	if stats.ReportFailures == 0 {
		return StatusHealthy
	}
	if stats.Reported == 0 {
		return StatusCritical
	}
	if float64(stats.ReportFailures) >= float64(stats.Reported) {
		return StatusDegraded
	}
	return StatusHealthy
}
