package sync

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/remote"
)

// ErrRateLimitExhausted signals that a mutation stayed rate-limited
// through every allowed retry.
var ErrRateLimitExhausted = errors.New("rate limit retries exhausted")

// Retry defaults, tunable through settings but not per call site.
const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 5

	// DefaultBaseDelay is the first backoff delay; it doubles per retry.
	DefaultBaseDelay = 500 * time.Millisecond
)

// retrier wraps a single remote mutation with bounded exponential
// backoff for rate-limit responses. Any other failure is returned
// immediately. The backoff sleep is the only blocking point and honors
// context cancellation, abandoning the remaining retries for the one
// product being processed.
type retrier struct {
	maxRetries int
	baseDelay  time.Duration

	// sleep and jitter are injectable for deterministic tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(d time.Duration) time.Duration
}

func newRetrier(maxRetries int, baseDelay time.Duration) *retrier {
	return &retrier{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
		jitter:     jitterDelay,
	}
}

// do runs op, retrying rate-limited attempts up to maxRetries times.
// Attempt n sleeps baseDelay * 2^n (jittered) before retrying.
func (r *retrier) do(ctx context.Context, op string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, remote.ErrRateLimited) {
			return err
		}
		if attempt >= r.maxRetries {
			return fmt.Errorf("%w: %s failed after %d attempts: %w",
				ErrRateLimitExhausted, op, attempt+1, err)
		}

		delay := r.jitter(r.baseDelay << attempt)
		logging.Debug("rate limited, backing off",
			logging.Operation(op),
			logging.Attempt(attempt+1),
			logging.Err(err),
		)

		if err := r.sleep(ctx, delay); err != nil {
			return fmt.Errorf("%s abandoned during backoff: %w", op, err)
		}
	}
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// jitterDelay spreads a delay over [0.75d, 1.25d) so batch runs do not
// hammer the rate limiter in lockstep.
func jitterDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	half := d / 2
	return d - d/4 + rand.N(half)
}
