// Package suppress evaluates ordered suppression rules against signals.
// Evaluation is pure; acting on the result (preventing default handling,
// logging, reporting at low severity) belongs to the dispatcher.
package suppress

import (
	"strings"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Engine holds the ordered rule list for one dispatcher instance. The list
// is fixed at construction; hot-swapping rules means building a new engine.
type Engine struct {
	rules []domain.SuppressionRule
}

// NewEngine creates an engine evaluating rules in the given order.
func NewEngine(rules []domain.SuppressionRule) *Engine {
	return &Engine{rules: rules}
}

// NewEngineWithBuiltin appends the built-in noise rules after the caller's
// rules, so caller rules always win on overlap.
func NewEngineWithBuiltin(rules []domain.SuppressionRule) *Engine {
	combined := make([]domain.SuppressionRule, 0, len(rules)+len(builtinRules))
	combined = append(combined, rules...)
	combined = append(combined, builtinRules...)
	return &Engine{rules: combined}
}

// Evaluate returns the first matching rule's verdict; no match passes the
// signal through.
func (e *Engine) Evaluate(sig domain.ErrorSignal) domain.SuppressionResult {
	for i := range e.rules {
		rule := e.rules[i]
		if !matches(rule, sig) {
			continue
		}
		return domain.SuppressionResult{
			Suppressed: true,
			Rule:       &rule,
			Completely: rule.SuppressCompletely,
		}
	}
	return domain.SuppressionResult{}
}

// Rules returns the evaluation order, for diagnostics.
func (e *Engine) Rules() []domain.SuppressionRule {
	return e.rules
}

func matches(rule domain.SuppressionRule, sig domain.ErrorSignal) bool {
	if rule.PatternRegex != nil {
		if !rule.PatternRegex.MatchString(sig.Message) {
			return false
		}
	} else if !containsFold(sig.Message, rule.Pattern) {
		return false
	}

	if rule.SourceRegex != nil {
		return rule.SourceRegex.MatchString(sig.Source)
	}
	if rule.Source != "" {
		return containsFold(sig.Source, rule.Source)
	}
	return true
}

// containsFold is a case-insensitive substring test. Messages arrive with
// inconsistent casing across browsers.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
