package llm

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig holds retry parameters for model round trips.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to the backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns sensible defaults for model requests.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}
}

// Backoff returns the jittered sleep duration before the given attempt
// (1-based). Attempt 1 never sleeps.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt <= 1 || c.BackoffBase <= 0 {
		return 0
	}
	backoff := float64(c.BackoffBase)
	for i := 2; i < attempt; i++ {
		backoff *= c.BackoffMultiplier
	}
	if max := float64(c.MaxBackoff); c.MaxBackoff > 0 && backoff > max {
		backoff = max
	}
	// full jitter keeps concurrent clients from synchronizing
	return time.Duration(rand.Int63n(int64(backoff)) + 1)
}

// Sleep blocks for the attempt's backoff or until the context is done.
func (c RetryConfig) Sleep(ctx context.Context, attempt int) error {
	d := c.Backoff(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
