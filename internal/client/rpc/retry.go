package rpc

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
)

// RetryPolicy configures how many attempts a call gets and how long to wait
// between them. Attempt n (zero based) waits BaseDelay*2^n, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Retryable overrides which kinds are retried. Defaults to apperr.IsTransient.
	Retryable func(kind apperr.Kind) bool
}

// DefaultRetryPolicy provides sensible defaults for retries
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.DefaultRPCMaxAttempts,
		BaseDelay:   constants.DefaultRPCBaseDelay,
		MaxDelay:    constants.DefaultRPCMaxDelay,
	}
}

func (p RetryPolicy) retryable(kind apperr.Kind) bool {
	if p.Retryable != nil {
		return p.Retryable(kind)
	}
	return apperr.IsTransient(kind)
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(b, uint64(attempts-1))
}

// Delay returns the wait before retrying after the given zero-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
