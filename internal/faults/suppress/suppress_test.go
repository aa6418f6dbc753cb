package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/faultline/internal/core/domain"
)

func TestEvaluate_FirstMatchWins(t *testing.T) {
	r1 := domain.NewRule("r1", "boom").MustBuild()
	r2 := domain.NewRule("r2", "boom").Silently().MustBuild()
	engine := NewEngine([]domain.SuppressionRule{r1, r2})

	res := engine.Evaluate(domain.ErrorSignal{Message: "boom happened"})
	require.True(t, res.Suppressed)
	assert.Equal(t, "r1", res.Rule.ID)
	assert.False(t, res.Completely)
}

func TestEvaluate_NoMatch(t *testing.T) {
	engine := NewEngine([]domain.SuppressionRule{
		domain.NewRule("r1", "boom").MustBuild(),
	})
	res := engine.Evaluate(domain.ErrorSignal{Message: "fine"})
	assert.False(t, res.Suppressed)
	assert.Nil(t, res.Rule)
}

// Round trip: a rule built with pattern P and id ID suppresses a message
// satisfying P and reports that same ID.
func TestRuleBuilder_RoundTrip(t *testing.T) {
	rule, err := domain.NewRule("quota-noise", "quota exceeded").
		Because("storage quota warnings are not actionable").
		Build()
	require.NoError(t, err)

	engine := NewEngine([]domain.SuppressionRule{rule})
	res := engine.Evaluate(domain.ErrorSignal{Message: "DOMException: quota exceeded"})
	require.True(t, res.Suppressed)
	assert.Equal(t, "quota-noise", res.Rule.ID)
}

func TestRuleBuilder_Errors(t *testing.T) {
	_, err := domain.NewRule("", "x").Build()
	assert.Error(t, err)

	_, err = domain.NewRule("r", "").Build()
	assert.Error(t, err)

	_, err = domain.NewRule("r", "x").MatchingRegex("(").Build()
	assert.Error(t, err)

	_, err = domain.NewRule("r", "x").FromSourceRegex("[").Build()
	assert.Error(t, err)
}

func TestMatches_RegexPattern(t *testing.T) {
	rule := domain.NewRule("timeouts", "").
		MatchingRegex(`timeout after \d+ms`).
		MustBuild()
	engine := NewEngine([]domain.SuppressionRule{rule})

	assert.True(t, engine.Evaluate(domain.ErrorSignal{Message: "timeout after 3000ms"}).Suppressed)
	assert.False(t, engine.Evaluate(domain.ErrorSignal{Message: "timeout after ms"}).Suppressed)
}

func TestMatches_SourceGating(t *testing.T) {
	rule := domain.NewRule("vendor-only", "boom").FromSource("vendor.js").MustBuild()
	engine := NewEngine([]domain.SuppressionRule{rule})

	assert.True(t, engine.Evaluate(domain.ErrorSignal{Message: "boom", Source: "vendor.js"}).Suppressed)
	assert.False(t, engine.Evaluate(domain.ErrorSignal{Message: "boom", Source: "app.js"}).Suppressed)
}

func TestMatches_CaseInsensitive(t *testing.T) {
	rule := domain.NewRule("r", "Loading Chunk").MustBuild()
	engine := NewEngine([]domain.SuppressionRule{rule})
	assert.True(t, engine.Evaluate(domain.ErrorSignal{Message: "loading chunk 9 failed"}).Suppressed)
}

func TestBuiltin_ChunkLoad(t *testing.T) {
	engine := NewEngineWithBuiltin(nil)
	res := engine.Evaluate(domain.ErrorSignal{
		Message: "Loading chunk 3 failed",
		Source:  "chunk-42.js",
	})
	require.True(t, res.Suppressed)
	assert.Equal(t, "chunk-load-failed", res.Rule.ID)
	assert.False(t, res.Completely)
}

func TestBuiltin_SilentRules(t *testing.T) {
	engine := NewEngineWithBuiltin(nil)

	res := engine.Evaluate(domain.ErrorSignal{Message: "ResizeObserver loop limit exceeded"})
	require.True(t, res.Suppressed)
	assert.True(t, res.Completely)

	res = engine.Evaluate(domain.ErrorSignal{Message: "Script error."})
	require.True(t, res.Suppressed)
	assert.True(t, res.Completely)

	res = engine.Evaluate(domain.ErrorSignal{
		Message: "TypeError: whatever",
		Source:  "chrome-extension://abcdef/content.js",
	})
	require.True(t, res.Suppressed)
	assert.True(t, res.Completely)
}

func TestBuiltin_CallerRulesWin(t *testing.T) {
	override := domain.NewRule("my-chunk-rule", "Loading chunk").Silently().MustBuild()
	engine := NewEngineWithBuiltin([]domain.SuppressionRule{override})

	res := engine.Evaluate(domain.ErrorSignal{Message: "Loading chunk 3 failed"})
	require.True(t, res.Suppressed)
	assert.Equal(t, "my-chunk-rule", res.Rule.ID)
	assert.True(t, res.Completely)
}
