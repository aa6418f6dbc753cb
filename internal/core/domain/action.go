package domain

// RecoveryAction is a caller-supplied, named remedy associated with a class
// of fault. Automatic actions may be run without user confirmation; the
// engine itself never invokes a handler.
type RecoveryAction struct {
	ID          string
	Label       string
	Description string
	Automatic   bool
	Handler     func() error
}

// RecoveryPlan is the ordered set of candidate actions for an ErrorKind plus
// the designated default (first automatic action if any, else the first).
type RecoveryPlan struct {
	Actions []RecoveryAction
	Default RecoveryAction
}
