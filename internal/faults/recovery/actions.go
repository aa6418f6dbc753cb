package recovery

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/classify"
)

// BackoffConfig tunes the automatic retry action.
type BackoffConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultBackoffConfig matches the pipeline's "a few quick retries, then
// give up" posture.
var DefaultBackoffConfig = BackoffConfig{
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
	MaxElapsedTime:  30 * time.Second,
}

// RetryWithBackoff builds the automatic retry action around a caller
// operation. Errors the classifier deems non-transient stop the retry loop
// immediately.
func RetryWithBackoff(op func() error, cfg BackoffConfig) domain.RecoveryAction {
	return domain.RecoveryAction{
		ID:          "retry-with-backoff",
		Label:       "Retry",
		Description: "Retry the request with exponential backoff",
		Automatic:   true,
		Handler: func() error {
			b := backoff.NewExponentialBackOff()
			if cfg.InitialInterval > 0 {
				b.InitialInterval = cfg.InitialInterval
			}
			if cfg.MaxInterval > 0 {
				b.MaxInterval = cfg.MaxInterval
			}
			b.MaxElapsedTime = cfg.MaxElapsedTime

			return backoff.Retry(func() error {
				err := op()
				if err == nil {
					return nil
				}
				if !retryable(classify.Error(err)) {
					return backoff.Permanent(err)
				}
				return err
			}, b)
		},
	}
}

// WaitAndRetry builds the rate-limit action. A server-provided retry hint
// (gRPC RetryInfo) overrides the fallback delay.
func WaitAndRetry(op func() error, fallback time.Duration) domain.RecoveryAction {
	return domain.RecoveryAction{
		ID:          "wait-and-retry",
		Label:       "Wait and retry",
		Description: "Wait for the rate limit window to pass, then retry",
		Automatic:   true,
		Handler: func() error {
			err := op()
			if err == nil {
				return nil
			}
			delay := fallback
			if hint, ok := classify.RetryAfter(err); ok {
				delay = hint
			}
			time.Sleep(delay)
			return op()
		},
	}
}

func retryable(kind domain.ErrorKind) bool {
	switch kind {
	case domain.KindNetwork, domain.KindServer, domain.KindRateLimit:
		return true
	default:
		return false
	}
}
