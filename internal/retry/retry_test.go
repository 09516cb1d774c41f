package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func alwaysRetry(error) bool { return true }

func TestDoSucceedsFirstAttempt(t *testing.T) {
	ex := NewExecutor(3, time.Millisecond)

	calls := 0
	result, err := Do(context.Background(), ex, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}, alwaysRetry)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	ex := NewExecutor(3, time.Millisecond)

	calls := 0
	result, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	}, alwaysRetry)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetryableError(t *testing.T) {
	ex := NewExecutor(3, time.Millisecond)

	calls := 0
	_, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, alwaysRetry)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	ex := NewExecutor(3, time.Millisecond)

	calls := 0
	_, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		return 0, errFatal
	}, func(err error) bool { return !errors.Is(err, errFatal) })

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestDoNilClassifierNeverRetries(t *testing.T) {
	ex := NewExecutor(3, time.Millisecond)

	calls := 0
	_, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoStatusTransitions(t *testing.T) {
	var seen []Status
	ex := NewExecutor(3, time.Millisecond)
	ex.OnStatus = func(s Status) { seen = append(seen, s) }

	calls := 0
	_, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errTransient
		}
		return 1, nil
	}, alwaysRetry)
	require.NoError(t, err)

	// idle reset, retrying before attempt 2, terminal success.
	require.Len(t, seen, 3)
	assert.False(t, seen[0].Retrying)
	assert.True(t, seen[1].Retrying)
	assert.Equal(t, 2, seen[1].Attempt)
	assert.Equal(t, 3, seen[1].MaxAttempts)
	assert.Equal(t, "retrying (attempt 2/3)", seen[1].Message)
	assert.False(t, seen[2].Retrying)
}

func TestDoBackoffDoubles(t *testing.T) {
	base := 20 * time.Millisecond
	ex := NewExecutor(3, base)

	start := time.Now()
	calls := 0
	_, err := Do(context.Background(), ex, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, alwaysRetry)
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	// Waits of base and 2*base between the three attempts.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	ex := NewExecutor(3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, ex, func(context.Context) (int, error) {
			calls++
			return 0, errTransient
		}, alwaysRetry)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestNewExecutorAppliesDefaults(t *testing.T) {
	ex := NewExecutor(0, 0)
	assert.Equal(t, DefaultMaxAttempts, ex.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, ex.BaseDelay)
}
