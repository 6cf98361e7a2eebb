package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bloxtools/bloxsync/internal/remote"
)

// testRetrier returns a retrier with recorded, non-blocking sleeps and
// no jitter, so backoff delays are deterministic.
func testRetrier(maxRetries int, baseDelay time.Duration) (*retrier, *[]time.Duration) {
	var slept []time.Duration
	r := newRetrier(maxRetries, baseDelay)
	r.jitter = func(d time.Duration) time.Duration { return d }
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestRetrier_SuccessFirstTry(t *testing.T) {
	r, slept := testRetrier(5, time.Second)

	calls := 0
	err := r.do(context.Background(), "create", func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected, slept %v", *slept)
	}
}

func TestRetrier_BackoffDoubles(t *testing.T) {
	r, slept := testRetrier(5, 100*time.Millisecond)

	calls := 0
	err := r.do(context.Background(), "create", func(context.Context) error {
		calls++
		if calls <= 3 {
			return fmt.Errorf("throttled: %w", remote.ErrRateLimited)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("slept %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, (*slept)[i], d)
		}
	}
}

func TestRetrier_Exhaustion(t *testing.T) {
	const maxRetries = 3
	r, _ := testRetrier(maxRetries, time.Millisecond)

	calls := 0
	err := r.do(context.Background(), "create", func(context.Context) error {
		calls++
		return remote.ErrRateLimited
	})

	if calls != maxRetries+1 {
		t.Errorf("calls = %d, want %d", calls, maxRetries+1)
	}
	if !errors.Is(err, ErrRateLimitExhausted) {
		t.Errorf("expected ErrRateLimitExhausted, got %v", err)
	}
	if !errors.Is(err, remote.ErrRateLimited) {
		t.Errorf("exhaustion error should preserve the rate-limit cause, got %v", err)
	}
}

func TestRetrier_NonRetryableFailsImmediately(t *testing.T) {
	r, slept := testRetrier(5, time.Second)

	rejected := &remote.RejectedError{Operation: "create", Status: 400}
	calls := 0
	err := r.do(context.Background(), "create", func(context.Context) error {
		calls++
		return rejected
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry for rejections)", calls)
	}
	var got *remote.RejectedError
	if !errors.As(err, &got) {
		t.Errorf("expected RejectedError passthrough, got %v", err)
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected, slept %v", *slept)
	}
}

func TestRetrier_CancelledDuringBackoff(t *testing.T) {
	r := newRetrier(5, time.Second)
	r.jitter = func(d time.Duration) time.Duration { return d }
	r.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	calls := 0
	err := r.do(context.Background(), "create", func(context.Context) error {
		calls++
		return remote.ErrRateLimited
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (abandoned during first backoff)", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSleepContext_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepContext(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleepContext did not return promptly on cancellation")
	}
}

func TestJitterDelay_Bounds(t *testing.T) {
	base := time.Second
	for range 100 {
		d := jitterDelay(base)
		if d < 750*time.Millisecond || d >= 1250*time.Millisecond {
			t.Fatalf("jittered delay %v outside [750ms, 1250ms)", d)
		}
	}
}
