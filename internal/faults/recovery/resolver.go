// Package recovery maps ErrorKinds to ordered recovery plans. The resolver
// only selects actions; invoking a handler is always the caller's decision.
package recovery

import (
	"github.com/vietddude/faultline/internal/core/domain"
)

// Resolver holds the ErrorKind -> actions table for one dispatcher instance.
type Resolver struct {
	table map[domain.ErrorKind][]domain.RecoveryAction
}

// NewResolver creates a resolver pre-populated with the default table.
func NewResolver() *Resolver {
	return &Resolver{table: defaultTable()}
}

// SetActions replaces the plan for one kind with caller-supplied actions,
// typically carrying real handlers.
func (r *Resolver) SetActions(kind domain.ErrorKind, actions ...domain.RecoveryAction) {
	r.table[kind] = actions
}

// Resolve returns the plan for kind. Unmapped or empty kinds fall back to
// the Unknown plan: the pipeline is fail-open and always offers at least a
// reload.
func (r *Resolver) Resolve(kind domain.ErrorKind) domain.RecoveryPlan {
	actions := r.table[kind]
	if len(actions) == 0 {
		actions = r.table[domain.KindUnknown]
	}
	if len(actions) == 0 {
		actions = []domain.RecoveryAction{reloadAction()}
	}

	plan := domain.RecoveryPlan{
		Actions: actions,
		Default: actions[0],
	}
	for _, action := range actions {
		if action.Automatic {
			plan.Default = action
			break
		}
	}
	return plan
}

func defaultTable() map[domain.ErrorKind][]domain.RecoveryAction {
	return map[domain.ErrorKind][]domain.RecoveryAction{
		domain.KindNetwork: {
			{
				ID:          "retry-with-backoff",
				Label:       "Retry",
				Description: "Retry the request with exponential backoff",
				Automatic:   true,
			},
			{
				ID:          "check-connection",
				Label:       "Check connection",
				Description: "Verify the network connection and try again",
			},
			{
				ID:          "use-cached-data",
				Label:       "Use offline data",
				Description: "Continue with the most recent cached data",
			},
		},
		domain.KindAuthentication: {
			{
				ID:          "re-authenticate",
				Label:       "Sign in again",
				Description: "The session expired; sign in to continue",
			},
		},
		domain.KindPermission: {
			{
				ID:          "go-back",
				Label:       "Go back",
				Description: "Return to the previous page",
			},
			{
				ID:          "request-access",
				Label:       "Request access",
				Description: "Ask an administrator for access to this resource",
			},
		},
		domain.KindRateLimit: {
			{
				ID:          "wait-and-retry",
				Label:       "Wait and retry",
				Description: "Wait for the rate limit window to pass, then retry",
				Automatic:   true,
			},
			{
				ID:          "reduce-frequency",
				Label:       "Slow down",
				Description: "Reduce the request frequency before retrying",
			},
		},
		domain.KindServer: {
			{
				ID:          "retry-later",
				Label:       "Try again later",
				Description: "The server had a problem; try again in a moment",
			},
			{
				ID:          "report-issue",
				Label:       "Report issue",
				Description: "Send a report so the problem can be investigated",
			},
		},
		domain.KindValidation: {
			{
				ID:          "review-input",
				Label:       "Review input",
				Description: "Check the highlighted fields and submit again",
			},
		},
		domain.KindClient: {
			reloadAction(),
			{
				ID:          "clear-cache",
				Label:       "Clear cached data",
				Description: "Clear locally cached application data and reload",
			},
		},
		domain.KindUnknown: {
			reloadAction(),
			{
				ID:          "report-issue",
				Label:       "Report issue",
				Description: "Send a report so the problem can be investigated",
			},
		},
	}
}

func reloadAction() domain.RecoveryAction {
	return domain.RecoveryAction{
		ID:          "reload",
		Label:       "Reload",
		Description: "Reload the application",
	}
}
