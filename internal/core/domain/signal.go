package domain

// ErrorSignal is the canonical representation of a captured fault,
// independent of how it was thrown. It is constructed once by the
// normalizer and never mutated afterwards.
type ErrorSignal struct {
	Message string
	Stack   string
	Source  string
	Line    int
	Column  int
}

// Severity is the reporting severity attached to a signal.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)
