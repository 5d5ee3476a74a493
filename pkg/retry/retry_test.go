package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/errors"
)

// fastConfig keeps test backoff in the microsecond range
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Microsecond,
		MaxDelay:     10 * time.Microsecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return fmt.Errorf("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDo_StopsOnInvalidError(t *testing.T) {
	calls := 0
	bad := errors.WrapInvalid(
		fmt.Errorf("%w: url", errors.ErrInvalidConfig),
		"retry", "test", "check url")
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return bad
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "invalid-class errors must not be retried")
	assert.True(t, errors.IsInvalid(err))
}

func TestDo_StopsOnFatalError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return errors.WrapFatal(fmt.Errorf("boom"), "retry", "test", "run")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(5), func() error {
		calls++
		return fmt.Errorf("connection refused")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDo_CancelBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 2.0}

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error { return fmt.Errorf("connection refused") })
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestNormalized_Defaults(t *testing.T) {
	cfg := Config{}.normalized()
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Positive(t, cfg.InitialDelay)
	assert.GreaterOrEqual(t, cfg.MaxDelay, cfg.InitialDelay)
	assert.GreaterOrEqual(t, cfg.Multiplier, 1.0)
}
