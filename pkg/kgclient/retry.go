package kgclient

import (
	"context"
	"time"
)

// RetryConfig configures how indexing reads are retried
type RetryConfig struct {
	// MaxAttempts is the total number of calls, the first one included
	MaxAttempts int `json:"max_attempts"`
	// BaseDelay is multiplied by the square of the attempt number
	BaseDelay time.Duration `json:"base_delay"`
}

// DefaultRetryConfig returns five attempts waiting 0s, 10s, 40s, 90s and 160s
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   10 * time.Second,
	}
}

// RetryPolicy implements quadratic backoff
type RetryPolicy struct {
	config RetryConfig
}

// NewRetryPolicy creates a new retry policy
func NewRetryPolicy(config RetryConfig) *RetryPolicy {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.BaseDelay < 0 {
		config.BaseDelay = 10 * time.Second
	}
	return &RetryPolicy{config: config}
}

// MaxAttempts returns the total number of calls allowed
func (p *RetryPolicy) MaxAttempts() int {
	return p.config.MaxAttempts
}

// ShouldRetry reports whether another call may follow the given number of
// failed attempts
func (p *RetryPolicy) ShouldRetry(attempts int, err error) bool {
	if err == nil {
		return false
	}
	return attempts < p.config.MaxAttempts
}

// Delay returns the wait before the zero based attempt: attempt² × base
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(attempt*attempt) * p.config.BaseDelay
}

// Sleeper blocks for the given duration or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
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
