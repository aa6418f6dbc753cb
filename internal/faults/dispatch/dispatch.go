// Package dispatch wires the three capture entry points through the
// normalize -> dedup -> suppress -> report pipeline and owns the deferred
// surface decision. It is the only package with side effects on the
// platform: everything upstream of it is pure.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/classify"
	"github.com/vietddude/faultline/internal/faults/dedup"
	"github.com/vietddude/faultline/internal/faults/metrics"
	"github.com/vietddude/faultline/internal/faults/normalize"
	"github.com/vietddude/faultline/internal/faults/recovery"
	"github.com/vietddude/faultline/internal/faults/suppress"
	"github.com/vietddude/faultline/internal/report"
)

// DefaultDebounceWindow is used when the config leaves the window unset.
const DefaultDebounceWindow = time.Second

// Config is the explicit per-instance configuration. No part of it is
// global state; independent dispatchers never contaminate each other.
type Config struct {
	// Rules are evaluated before the built-in suppression rules.
	Rules []domain.SuppressionRule

	// SurfaceToFaultBoundary schedules a deferred surface for unsuppressed
	// global signals so a fault boundary can render them.
	SurfaceToFaultBoundary bool

	// ReportSuppressedErrors sends partially-suppressed signals to the
	// reporter at low severity instead of dropping them entirely.
	ReportSuppressedErrors bool

	// DebounceWindow is the repeat-suppression window (default 1s).
	DebounceWindow time.Duration

	// DedupMaxEntries bounds the dedup key map (default 512).
	DedupMaxEntries int
}

// SurfaceFunc receives a surfaced signal on a fresh stack. It stands in for
// the platform rethrow: the pipeline never throws back into the call site
// that triggered it.
type SurfaceFunc func(sig domain.ErrorSignal)

// Status is the terminal outcome of one pipeline pass.
type Status string

const (
	StatusDeduplicated       Status = "deduplicated"
	StatusSuppressed         Status = "suppressed"
	StatusSuppressedSilently Status = "suppressed_silently"
	StatusReported           Status = "reported"
	StatusContained          Status = "contained"
)

// Outcome describes what the pipeline did with a signal. Kind and Plan are
// only resolved for signals that pass both gates.
type Outcome struct {
	Status           Status
	Signal           domain.ErrorSignal
	Severity         domain.Severity
	Kind             domain.ErrorKind
	Plan             *domain.RecoveryPlan
	Rule             *domain.SuppressionRule
	DefaultPrevented bool
}

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Captured           uint64
	Deduplicated       uint64
	Suppressed         uint64
	SuppressedSilently uint64
	Reported           uint64
	ReportFailures     uint64
	RethrowsScheduled  uint64
	RethrowsSuperseded uint64
	RethrowsFired      uint64
	DedupEntries       int
}

// Dispatcher runs signals to completion in arrival order. The mutex stands
// in for the platform's single-threaded event loop: two signals arriving
// together are processed strictly one after the other.
type Dispatcher struct {
	cfg      Config
	dedup    *dedup.Deduplicator
	engine   *suppress.Engine
	resolver *recovery.Resolver
	reporter report.Reporter
	surface  SurfaceFunc
	sched    Scheduler
	crumbs   *report.Breadcrumbs
	log      *slog.Logger

	mu         sync.Mutex
	pendingSeq uint64
	pendingSig domain.ErrorSignal
	pendingSet bool
	stats      Stats
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithScheduler replaces the deferred-task scheduler (tests use a manual one).
func WithScheduler(s Scheduler) Option {
	return func(d *Dispatcher) { d.sched = s }
}

// WithSurface registers the callback receiving surfaced signals.
func WithSurface(fn SurfaceFunc) Option {
	return func(d *Dispatcher) { d.surface = fn }
}

// WithResolver replaces the default recovery resolver.
func WithResolver(r *recovery.Resolver) Option {
	return func(d *Dispatcher) { d.resolver = r }
}

// WithBreadcrumbs attaches a breadcrumb trail to outgoing reports.
func WithBreadcrumbs(b *report.Breadcrumbs) Option {
	return func(d *Dispatcher) { d.crumbs = b }
}

// WithLogger replaces the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// New creates a Dispatcher. The suppression rule list is fixed for the
// dispatcher's lifetime; changing rules means constructing a new instance.
func New(cfg Config, reporter report.Reporter, opts ...Option) *Dispatcher {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}

	d := &Dispatcher{
		cfg:      cfg,
		dedup:    dedup.New(cfg.DedupMaxEntries),
		engine:   suppress.NewEngineWithBuiltin(cfg.Rules),
		resolver: recovery.NewResolver(),
		reporter: reporter,
		sched:    TimerScheduler{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnGlobalError handles the platform's global error signal.
func (d *Dispatcher) OnGlobalError(ctx context.Context, errVal any, ev Event, source string, line, column int) Outcome {
	sig := normalize.Signal(errVal, normalize.Hints{Source: source, Line: line, Column: column})
	return d.handleGlobal(ctx, sig, ev, OriginGlobalError)
}

// OnUnhandledRejection handles the platform's unhandled-rejection signal.
func (d *Dispatcher) OnUnhandledRejection(ctx context.Context, reason any, ev Event) Outcome {
	sig := normalize.Signal(reason, normalize.Hints{})
	return d.handleGlobal(ctx, sig, ev, OriginRejection)
}

// OnFault handles a fault-boundary callback. The error was already caught
// by the render cycle: no suppression applies, a report is always attempted,
// and non-isolating boundaries get the signal re-surfaced on a fresh stack
// so it propagates to the next ancestor boundary.
func (d *Dispatcher) OnFault(ctx context.Context, errVal any, info FaultInfo) Outcome {
	sig := normalize.Signal(errVal, normalize.Hints{Source: info.Source})

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.Captured++
	metrics.SignalsCaptured.WithLabelValues(string(OriginBoundary)).Inc()

	if d.dedup.ShouldDebounce(sig, d.cfg.DebounceWindow) {
		d.stats.Deduplicated++
		metrics.SignalsDeduplicated.Inc()
		metrics.DedupEntries.Set(float64(d.dedup.Len()))
		return Outcome{Status: StatusDeduplicated, Signal: sig}
	}
	metrics.DedupEntries.Set(float64(d.dedup.Len()))

	severity := domain.SeverityHigh
	if info.Isolate {
		severity = domain.SeverityMedium
	}

	extra := map[string]any{"isolate": info.Isolate}
	if info.ComponentStack != "" {
		extra["component_stack"] = info.ComponentStack
	}
	d.send(ctx, sig, severity, OriginBoundary, extra)

	kind := classify.Signal(sig)
	plan := d.resolver.Resolve(kind)
	outcome := Outcome{
		Signal:   sig,
		Severity: severity,
		Kind:     kind,
		Plan:     &plan,
	}

	if info.Isolate {
		outcome.Status = StatusContained
		return outcome
	}

	d.scheduleSurfaceLocked(sig)
	outcome.Status = StatusReported
	return outcome
}

// Stats returns a snapshot of the pipeline counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	snapshot := d.stats
	snapshot.DedupEntries = d.dedup.Len()
	return snapshot
}

func (d *Dispatcher) handleGlobal(ctx context.Context, sig domain.ErrorSignal, ev Event, origin Origin) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.Captured++
	metrics.SignalsCaptured.WithLabelValues(string(origin)).Inc()

	if d.dedup.ShouldDebounce(sig, d.cfg.DebounceWindow) {
		d.stats.Deduplicated++
		metrics.SignalsDeduplicated.Inc()
		metrics.DedupEntries.Set(float64(d.dedup.Len()))
		return Outcome{Status: StatusDeduplicated, Signal: sig}
	}
	metrics.DedupEntries.Set(float64(d.dedup.Len()))

	res := d.engine.Evaluate(sig)
	if res.Suppressed {
		return d.handleSuppressedLocked(ctx, sig, ev, origin, res)
	}

	d.send(ctx, sig, domain.SeverityHigh, origin, nil)

	kind := classify.Signal(sig)
	plan := d.resolver.Resolve(kind)
	outcome := Outcome{
		Status:   StatusReported,
		Signal:   sig,
		Severity: domain.SeverityHigh,
		Kind:     kind,
		Plan:     &plan,
	}

	if d.cfg.SurfaceToFaultBoundary {
		d.scheduleSurfaceLocked(sig)
	}
	return outcome
}

func (d *Dispatcher) handleSuppressedLocked(ctx context.Context, sig domain.ErrorSignal, ev Event, origin Origin, res domain.SuppressionResult) Outcome {
	if ev != nil {
		ev.PreventDefault()
	}

	if res.Completely {
		d.stats.SuppressedSilently++
		metrics.SignalsSuppressed.WithLabelValues("complete", res.Rule.ID).Inc()
		d.log.Debug("signal suppressed",
			"rule", res.Rule.ID,
			"reason", res.Rule.Reason,
			"message", sig.Message)
		return Outcome{
			Status:           StatusSuppressedSilently,
			Signal:           sig,
			Rule:             res.Rule,
			DefaultPrevented: true,
		}
	}

	d.stats.Suppressed++
	metrics.SignalsSuppressed.WithLabelValues("partial", res.Rule.ID).Inc()

	outcome := Outcome{
		Status:           StatusSuppressed,
		Signal:           sig,
		Rule:             res.Rule,
		DefaultPrevented: true,
	}
	if d.cfg.ReportSuppressedErrors {
		d.send(ctx, sig, domain.SeverityLow, origin, map[string]any{
			"suppressed_by": res.Rule.ID,
		})
		outcome.Severity = domain.SeverityLow
	} else {
		d.log.Debug("signal suppressed without report",
			"rule", res.Rule.ID,
			"message", sig.Message)
	}
	return outcome
}

// send delivers one report, logging and swallowing sink failures. A
// reporting failure must never re-enter the pipeline.
func (d *Dispatcher) send(ctx context.Context, sig domain.ErrorSignal, severity domain.Severity, origin Origin, extra map[string]any) {
	rctx := report.Context{
		Source:         string(origin),
		AdditionalData: extra,
	}
	if d.crumbs != nil {
		rctx.Breadcrumbs = d.crumbs.Snapshot()
	}

	if _, err := d.reporter.ReportError(ctx, sig, severity, rctx); err != nil {
		d.stats.ReportFailures++
		metrics.ReportFailures.Inc()
		d.log.Warn("report delivery failed",
			"error", err,
			"severity", string(severity),
			"message", sig.Message)
		return
	}
	d.stats.Reported++
	metrics.ReportsSent.WithLabelValues(string(severity)).Inc()
}

// scheduleSurfaceLocked arms the single pending-rethrow slot with sig. A
// newer signal overwrites an older unfired one (last write wins); the
// scheduled task delivers the signal held at schedule time and skips itself
// when superseded. Caller holds d.mu.
func (d *Dispatcher) scheduleSurfaceLocked(sig domain.ErrorSignal) {
	if d.pendingSet {
		d.stats.RethrowsSuperseded++
		metrics.RethrowsSuperseded.Inc()
		d.log.Debug("pending rethrow superseded", "message", d.pendingSig.Message)
	}

	d.pendingSeq++
	seq := d.pendingSeq
	d.pendingSig = sig
	d.pendingSet = true
	d.stats.RethrowsScheduled++
	metrics.RethrowsScheduled.Inc()

	d.sched.Schedule(func() {
		d.mu.Lock()
		if !d.pendingSet || d.pendingSeq != seq {
			d.mu.Unlock()
			return
		}
		fired := d.pendingSig
		d.pendingSet = false
		d.stats.RethrowsFired++
		d.mu.Unlock()

		metrics.RethrowsFired.Inc()
		if d.surface != nil {
			d.surface(fired)
		}
	})
}
