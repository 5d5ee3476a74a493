// Package retry provides bounded exponential backoff for startup
// dependencies like the transport connection. The sampling path never
// retries; a failed cycle degrades that cycle only.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/c360/jointstream/errors"
)

// Config bounds a retry sequence.
type Config struct {
	// MaxAttempts caps the total number of calls; values below 1 mean
	// a single attempt
	MaxAttempts int
	// InitialDelay is the wait after the first failure
	InitialDelay time.Duration
	// MaxDelay caps the backoff growth
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts (typically 2.0)
	Multiplier float64
	// Jitter randomizes each delay by up to half its length
	Jitter bool
}

// DefaultConfig returns the backoff used for transport establishment.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 5 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2.0
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	return c
}

// Do calls fn until it succeeds or the attempts are exhausted, backing off
// between failures. It stops early when ctx is cancelled or when fn returns
// an invalid- or fatal-class error; those never heal on retry.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	cfg = cfg.normalized()
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.IsInvalid(err) || errors.IsFatal(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if cfg.Jitter {
			wait += time.Duration(rand.Int63n(int64(delay)/2 + 1))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return lastErr
}
