package domain

import (
	"fmt"
	"regexp"
)

// SuppressionRule decides whether a signal should be hidden from the user,
// from telemetry, or both. Rules live in ordered lists; the first matching
// rule wins. A rule is immutable once built.
type SuppressionRule struct {
	ID                 string
	Pattern            string         // literal substring match against the message (case-insensitive)
	PatternRegex       *regexp.Regexp // set instead of Pattern for regex matching
	Source             string         // optional literal substring match against the source
	SourceRegex        *regexp.Regexp // set instead of Source for regex matching
	SuppressCompletely bool
	Reason             string
}

// SuppressionResult is the outcome of evaluating a rule list against a signal.
type SuppressionResult struct {
	Suppressed bool
	Rule       *SuppressionRule
	Completely bool
}

// RuleBuilder assembles a SuppressionRule. Pattern compilation errors are
// deferred to Build so construction chains stay fluent.
type RuleBuilder struct {
	rule SuppressionRule
	err  error
}

// NewRule starts a rule matching messages containing pattern as a literal
// substring.
func NewRule(id, pattern string) *RuleBuilder {
	return &RuleBuilder{rule: SuppressionRule{ID: id, Pattern: pattern}}
}

// MatchingRegex replaces the literal pattern with a compiled regex.
func (b *RuleBuilder) MatchingRegex(expr string) *RuleBuilder {
	re, err := regexp.Compile(expr)
	if err != nil {
		b.err = fmt.Errorf("rule %s: invalid pattern regex: %w", b.rule.ID, err)
		return b
	}
	b.rule.Pattern = ""
	b.rule.PatternRegex = re
	return b
}

// FromSource restricts the rule to signals whose source contains src.
func (b *RuleBuilder) FromSource(src string) *RuleBuilder {
	b.rule.Source = src
	return b
}

// FromSourceRegex restricts the rule to signals whose source matches expr.
func (b *RuleBuilder) FromSourceRegex(expr string) *RuleBuilder {
	re, err := regexp.Compile(expr)
	if err != nil {
		b.err = fmt.Errorf("rule %s: invalid source regex: %w", b.rule.ID, err)
		return b
	}
	b.rule.SourceRegex = re
	return b
}

// Silently marks the rule as suppress-completely: no report, no log beyond
// debug, default platform handling prevented.
func (b *RuleBuilder) Silently() *RuleBuilder {
	b.rule.SuppressCompletely = true
	return b
}

// Because records the operator-facing reason for the rule.
func (b *RuleBuilder) Because(reason string) *RuleBuilder {
	b.rule.Reason = reason
	return b
}

// Build returns the finished rule or the first construction error.
func (b *RuleBuilder) Build() (SuppressionRule, error) {
	if b.err != nil {
		return SuppressionRule{}, b.err
	}
	if b.rule.ID == "" {
		return SuppressionRule{}, fmt.Errorf("suppression rule requires an id")
	}
	if b.rule.Pattern == "" && b.rule.PatternRegex == nil {
		return SuppressionRule{}, fmt.Errorf("rule %s: requires a pattern", b.rule.ID)
	}
	return b.rule, nil
}

// MustBuild is Build for static rule tables.
func (b *RuleBuilder) MustBuild() SuppressionRule {
	rule, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rule
}
