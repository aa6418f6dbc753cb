package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietddude/faultline/internal/faults/dispatch"
)

type staticStats struct {
	stats dispatch.Stats
}

func (s staticStats) Stats() dispatch.Stats {
	return s.stats
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusHealthy, statusFor(dispatch.Stats{Reported: 10}))
	assert.Equal(t, StatusHealthy, statusFor(dispatch.Stats{Reported: 10, ReportFailures: 1}))
	assert.Equal(t, StatusDegraded, statusFor(dispatch.Stats{Reported: 2, ReportFailures: 2}))
	assert.Equal(t, StatusCritical, statusFor(dispatch.Stats{ReportFailures: 5}))
}

func TestMonitor_CheckHealth(t *testing.T) {
	m := NewMonitor()
	m.Register("app", staticStats{stats: dispatch.Stats{Captured: 7, Reported: 5, Deduplicated: 2}})

	report := m.CheckHealth()
	health, ok := report["app"]
	assert.True(t, ok)
	assert.Equal(t, StatusHealthy, health.Status)
	assert.Equal(t, uint64(7), health.Captured)
	assert.Equal(t, uint64(2), health.Deduplicated)
}
