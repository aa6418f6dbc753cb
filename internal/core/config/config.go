package config

import (
	"fmt"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	redisclient "github.com/vietddude/faultline/internal/infra/redis"
	"github.com/vietddude/faultline/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig       `yaml:"server"`
	Dispatcher DispatcherConfig   `yaml:"dispatcher"`
	Redis      redisclient.Config `yaml:"redis"`
	Logging    LoggingConfig      `yaml:"logging"`
	Database   postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	IngestPort int `yaml:"ingest_port"`
	HealthPort int `yaml:"health_port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DispatcherConfig holds per-pipeline settings.
type DispatcherConfig struct {
	DebounceMs             int          `yaml:"debounce_ms"`
	DedupMaxEntries        int          `yaml:"dedup_max_entries"`
	SurfaceToFaultBoundary bool         `yaml:"surface_to_fault_boundary"`
	ReportSuppressedErrors bool         `yaml:"report_suppressed_errors"`
	Breadcrumbs            int          `yaml:"breadcrumbs"`
	SuppressionRules       []RuleConfig `yaml:"suppression_rules"`
}

// DebounceWindow returns the configured debounce window.
func (c DispatcherConfig) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RuleConfig is the YAML form of a suppression rule override. Configured
// rules are evaluated before the built-in rules.
type RuleConfig struct {
	ID                 string `yaml:"id"`
	Pattern            string `yaml:"pattern"`
	Regex              bool   `yaml:"regex"`
	Source             string `yaml:"source"`
	SourceRegex        string `yaml:"source_regex"`
	SuppressCompletely bool   `yaml:"suppress_completely"`
	Reason             string `yaml:"reason"`
}

// Compile turns the YAML form into an immutable SuppressionRule.
func (c RuleConfig) Compile() (domain.SuppressionRule, error) {
	builder := domain.NewRule(c.ID, c.Pattern)
	if c.Regex {
		builder = builder.MatchingRegex(c.Pattern)
	}
	if c.SourceRegex != "" {
		builder = builder.FromSourceRegex(c.SourceRegex)
	} else if c.Source != "" {
		builder = builder.FromSource(c.Source)
	}
	if c.SuppressCompletely {
		builder = builder.Silently()
	}
	if c.Reason != "" {
		builder = builder.Because(c.Reason)
	}
	return builder.Build()
}

// CompileRules compiles every configured rule, preserving order.
func (c DispatcherConfig) CompileRules() ([]domain.SuppressionRule, error) {
	rules := make([]domain.SuppressionRule, 0, len(c.SuppressionRules))
	for _, rc := range c.SuppressionRules {
		rule, err := rc.Compile()
		if err != nil {
			return nil, fmt.Errorf("suppression rule %q: %w", rc.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
