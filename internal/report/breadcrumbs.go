package report

import "sync"

// Breadcrumbs is a bounded ring of recent application events attached to
// outgoing reports. This is the only cross-signal history the process
// keeps; nothing survives a restart.
type Breadcrumbs struct {
	mu  sync.Mutex
	buf []string
	max int
}

// NewBreadcrumbs creates a ring keeping the most recent max entries.
func NewBreadcrumbs(max int) *Breadcrumbs {
	if max <= 0 {
		max = 20
	}
	return &Breadcrumbs{max: max}
}

// Add appends a breadcrumb, dropping the oldest when full.
func (b *Breadcrumbs) Add(crumb string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, crumb)
	if len(b.buf) > b.max {
		b.buf = b.buf[len(b.buf)-b.max:]
	}
}

// Snapshot returns a copy of the current trail, oldest first.
func (b *Breadcrumbs) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.buf))
	copy(out, b.buf)
	return out
}
