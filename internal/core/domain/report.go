package domain

import "time"

// Report is the persisted form of a reported signal.
type Report struct {
	ID             string
	Message        string
	Stack          string
	Source         string
	Line           int
	Column         int
	Severity       Severity
	Kind           ErrorKind // empty when classification was not performed
	Breadcrumbs    []string
	AdditionalData map[string]any
	CreatedAt      time.Time
}
