package suppress

import "github.com/vietddude/faultline/internal/core/domain"

// builtinRules covers noise every deployment sees. Ordering matters: first
// match wins, and these run after any caller-supplied rules.
var builtinRules = []domain.SuppressionRule{
	domain.NewRule("chunk-load-failed", "Loading chunk").
		Because("stale deploy artifacts; clients recover on reload").
		MustBuild(),
	domain.NewRule("chunk-load-error", "ChunkLoadError").
		Because("stale deploy artifacts; clients recover on reload").
		MustBuild(),
	domain.NewRule("css-chunk-load-failed", "Loading CSS chunk").
		Because("stale deploy artifacts; clients recover on reload").
		MustBuild(),
	domain.NewRule("resize-observer-loop", "ResizeObserver loop").
		Silently().
		Because("benign browser quirk, fires on layout thrash").
		MustBuild(),
	domain.NewRule("cross-origin-script-error", "Script error.").
		Silently().
		Because("opaque cross-origin error, carries no actionable detail").
		MustBuild(),
	domain.NewRule("browser-extension", ".").
		MatchingRegex(".").
		FromSourceRegex(`^(chrome|moz|safari(-web)?)-extension://`).
		Silently().
		Because("errors thrown by user-installed extensions, not our code").
		MustBuild(),
	domain.NewRule("non-error-rejection", "Non-Error promise rejection captured").
		Because("rejection with a non-error payload, kept for telemetry only").
		MustBuild(),
}

// Builtin returns a copy of the built-in rule list.
func Builtin() []domain.SuppressionRule {
	out := make([]domain.SuppressionRule, len(builtinRules))
	copy(out, builtinRules)
	return out
}
