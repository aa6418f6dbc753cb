// Package dedup suppresses repeat occurrences of the same signal inside a
// sliding time window. One Deduplicator is owned by exactly one dispatcher
// instance; entries are never shared.
package dedup

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/normalize"
)

// DefaultMaxEntries bounds the key map when no capacity is configured.
const DefaultMaxEntries = 512

const keyDelim = "|"

// Deduplicator tracks key -> last-seen timestamps with bounded capacity.
type Deduplicator struct {
	mu         sync.Mutex
	entries    map[string]time.Time
	maxEntries int
	now        func() time.Time
}

// New creates a Deduplicator holding at most maxEntries keys.
// maxEntries <= 0 selects DefaultMaxEntries.
func New(maxEntries int) *Deduplicator {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Deduplicator{
		entries:    make(map[string]time.Time),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Key derives the stable dedup key for a signal: normalized message, source
// (falling back to the first stack frame), line and column, lower-cased.
func Key(sig domain.ErrorSignal) string {
	source := sig.Source
	if source == "" {
		source = firstStackFrame(sig.Stack)
	}

	var location string
	if sig.Line > 0 {
		location = strconv.Itoa(sig.Line)
		if sig.Column > 0 {
			location += "-" + strconv.Itoa(sig.Column)
		}
	}

	key := normalize.Message(sig.Message) + keyDelim + source + keyDelim + location
	return strings.TrimSpace(strings.ToLower(key))
}

// ShouldDebounce reports whether sig is a repeat seen within window. It
// always records the current timestamp under the exact key, so bursts keep
// sliding the window forward rather than expiring after the first hit.
//
// Lookup is exact-match first; absent that, a loose match scans for an
// existing key that contains the new key, taking the most recent matching
// timestamp.
func (d *Deduplicator) ShouldDebounce(sig domain.ErrorSignal, window time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	key := Key(sig)

	var matched time.Time
	found := false
	if ts, ok := d.entries[key]; ok {
		matched = ts
		found = true
	} else {
		for existing, ts := range d.entries {
			if strings.Contains(existing, key) && ts.After(matched) {
				matched = ts
				found = true
			}
		}
	}

	d.entries[key] = now
	d.evictLocked(now, window)

	return found && now.Sub(matched) < window
}

// Len returns the number of tracked keys.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// evictLocked bounds the map: entries older than window are swept first,
// then the oldest survivors until capacity is met. Caller holds d.mu.
func (d *Deduplicator) evictLocked(now time.Time, window time.Duration) {
	if len(d.entries) <= d.maxEntries {
		return
	}

	for key, ts := range d.entries {
		if now.Sub(ts) >= window {
			delete(d.entries, key)
		}
	}

	for len(d.entries) > d.maxEntries {
		var oldestKey string
		var oldest time.Time
		for key, ts := range d.entries {
			if oldestKey == "" || ts.Before(oldest) {
				oldestKey = key
				oldest = ts
			}
		}
		delete(d.entries, oldestKey)
	}
}

// firstStackFrame extracts the first frame line of a stack trace.
func firstStackFrame(stack string) string {
	for _, line := range strings.Split(stack, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "at ") {
			return line
		}
	}
	return ""
}
