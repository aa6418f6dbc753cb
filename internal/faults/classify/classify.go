// Package classify maps signals to ErrorKinds using ordered heuristics.
// A message can carry tokens for several kinds (a network failure whose
// body mentions "invalid"), so transport-level kinds are checked before
// Validation and Client. The precedence is the order of kindTokens.
package classify

import (
	"strings"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/normalize"
)

var kindTokens = []struct {
	kind   domain.ErrorKind
	tokens []string
}{
	{domain.KindNetwork, []string{
		"econnreset", "econnrefused", "econnaborted", "etimedout", "enotfound",
		"failed to fetch", "fetch failed", "networkerror", "network error",
		"network request failed", "socket hang up", "connection refused",
		"connection reset", "connection closed", "dns", "timeout", "timed out",
		"offline",
	}},
	{domain.KindAuthentication, []string{
		"401", "unauthorized", "unauthenticated", "authentication",
		"invalid token", "token expired", "jwt expired", "session expired",
		"not logged in",
	}},
	{domain.KindPermission, []string{
		"403", "forbidden", "permission denied", "access denied",
		"not allowed", "insufficient privileges",
	}},
	{domain.KindRateLimit, []string{
		"429", "too many requests", "rate limit", "rate-limit", "quota",
		"throttled",
	}},
	{domain.KindServer, []string{
		"500", "502", "503", "504", "internal server error", "bad gateway",
		"service unavailable", "gateway timeout", "upstream",
	}},
	{domain.KindValidation, []string{
		"validation", "invalid", "required field", "is required", "schema",
		"must be", "malformed", "unprocessable",
	}},
}

// Signal classifies a canonical signal. Falls back to Client for anything
// with an application-level throw (a stack) and Unknown otherwise; the
// pipeline is fail-open and never refuses to classify.
func Signal(sig domain.ErrorSignal) domain.ErrorKind {
	haystack := normalize.Message(sig.Message) + "\n" + strings.ToLower(sig.Stack)

	for _, entry := range kindTokens {
		for _, token := range entry.tokens {
			if strings.Contains(haystack, token) {
				return entry.kind
			}
		}
	}

	if sig.Stack != "" {
		return domain.KindClient
	}
	return domain.KindUnknown
}
