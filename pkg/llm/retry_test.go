package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffFirstAttemptNeverSleeps(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Zero(t, cfg.Backoff(1))
}

func TestBackoffEveryRetryIsPositive(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:       4,
		BackoffBase:       100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Second,
	}
	for attempt := 2; attempt <= cfg.MaxAttempts; attempt++ {
		d := cfg.Backoff(attempt)
		assert.Positive(t, d, "attempt %d", attempt)
		assert.LessOrEqual(t, d, cfg.MaxBackoff)
	}
}

func TestBackoffZeroBaseDisablesSleep(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3}
	assert.Zero(t, cfg.Backoff(2))
}

func TestSleepHonorsContextDeadline(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:       2,
		BackoffBase:       time.Hour,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Hour,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := cfg.Sleep(ctx, 2)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
