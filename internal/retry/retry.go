// Package retry runs fallible operations with bounded re-attempts and
// exponential backoff. Callers decide which failures are worth retrying;
// the executor only owns attempt accounting, delays, and cancellation.
package retry

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
)

// Status is advisory telemetry about an in-flight call, emitted to the
// executor's observer. It is not part of the result contract: callers use it
// to drive spinners and log lines, never to make control-flow decisions.
type Status struct {
	Attempt     int
	MaxAttempts int
	Retrying    bool
	Message     string
}

// Executor holds the retry policy for a call. The zero value is usable and
// falls back to the package defaults.
//
// Each Do invocation keeps its own attempt state on the stack, so a single
// Executor value is safe to share across concurrent calls.
type Executor struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// OnStatus, when set, observes retry state transitions. It is called
	// synchronously from the retry loop and must return quickly.
	OnStatus func(Status)
}

// NewExecutor returns an Executor with defaults applied for out-of-range
// arguments.
func NewExecutor(maxAttempts int, baseDelay time.Duration) Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return Executor{MaxAttempts: maxAttempts, BaseDelay: baseDelay}
}

// Do runs op, retrying failures that retryable classifies as transient.
//
// The delay before attempt n+1 is BaseDelay * 2^(n-1), pure exponential with
// no jitter. Non-retryable failures and exhaustion both surface the last
// error from op. If ctx is cancelled while waiting between attempts, the
// wait is abandoned and the context error is returned immediately.
func Do[T any](ctx context.Context, ex Executor, op func(context.Context) (T, error), retryable func(error) bool) (T, error) {
	var zero T

	maxAttempts := ex.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := ex.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	// Reset to idle before the first attempt.
	ex.emit(Status{MaxAttempts: maxAttempts})

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			ex.emit(Status{Attempt: attempt, MaxAttempts: maxAttempts})
			return result, nil
		}
		lastErr = err

		if retryable == nil || !retryable(err) || attempt == maxAttempts {
			break
		}

		next := attempt + 1
		ex.emit(Status{
			Attempt:     next,
			MaxAttempts: maxAttempts,
			Retrying:    true,
			Message:     fmt.Sprintf("retrying (attempt %d/%d)", next, maxAttempts),
		})

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			ex.emit(Status{MaxAttempts: maxAttempts})
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	ex.emit(Status{MaxAttempts: maxAttempts})
	return zero, lastErr
}

func (ex Executor) emit(s Status) {
	if ex.OnStatus != nil {
		ex.OnStatus(s)
	}
}
