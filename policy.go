// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Backoff computes the delay before the next attempt. attempt is the zero
// based index of the attempt that just failed.
type Backoff func(attempt int, err error) time.Duration

// FixedBackoff waits the same delay between every attempt.
func FixedBackoff(delay time.Duration) Backoff {
	return func(int, error) time.Duration {
		return delay
	}
}

// ExponentialBackoff grows the delay by multiplier with every attempt,
// capped at max.
func ExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) Backoff {
	return func(attempt int, _ error) time.Duration {
		d := time.Duration(float64(initial) * math.Pow(multiplier, float64(attempt)))
		if d > max || d < 0 {
			return max
		}
		return d
	}
}

// JitterBackoff randomizes base by up to +/- factor to avoid thundering
// herds. factor should be in [0, 1].
func JitterBackoff(base time.Duration, factor float64) Backoff {
	return func(int, error) time.Duration {
		jitter := (rand.Float64()*2 - 1) * factor
		d := time.Duration(float64(base) * (1 + jitter))
		if d < 0 {
			return 0
		}
		return d
	}
}

// ExponentialJitterBackoff combines exponential growth with randomized
// jitter.
func ExponentialJitterBackoff(initial time.Duration, multiplier float64, max time.Duration, factor float64) Backoff {
	exp := ExponentialBackoff(initial, multiplier, max)
	return func(attempt int, err error) time.Duration {
		jitter := (rand.Float64()*2 - 1) * factor
		d := time.Duration(float64(exp(attempt, err)) * (1 + jitter))
		if d < 0 {
			return 0
		}
		return d
	}
}

// RetryPolicy configures [Retry]. The zero value runs a single attempt
// with no delay. Policies are immutable and safe to share across
// concurrent effects.
type RetryPolicy struct {
	// Times is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	Times int

	// Backoff computes the delay between attempts. nil means no delay.
	Backoff Backoff

	// RetryOn reports whether an error is worth retrying. nil retries
	// every error. A false return stops immediately and surfaces the
	// error as is.
	RetryOn func(error) bool

	// Logger, when set, logs each failed attempt before backing off.
	Logger *zap.Logger
}

func (p RetryPolicy) attempts() int {
	if p.Times < 1 {
		return 1
	}
	return p.Times
}

// ErrorStrategy selects which failure [RaceOk] surfaces when every branch
// fails.
type ErrorStrategy int

const (
	// LastError reports the failure that arrived last.
	LastError ErrorStrategy = iota
	// FirstError reports the failure that arrived first.
	FirstError
)

// RaceOkPolicy configures [RaceOk].
type RaceOkPolicy struct {
	// CancelPending cancels the still running branches as soon as a
	// branch succeeds.
	CancelPending bool

	// ErrorStrategy selects the reported failure when no branch
	// succeeds.
	ErrorStrategy ErrorStrategy
}

// DefaultRaceOkPolicy cancels pending branches and reports the last
// failure, matching a plain race-for-first-success.
func DefaultRaceOkPolicy() RaceOkPolicy {
	return RaceOkPolicy{CancelPending: true, ErrorStrategy: LastError}
}

// RateLimitPolicy configures [RateLimit] as a token bucket.
type RateLimitPolicy struct {
	// PerSecond is the sustained execution rate.
	PerSecond float64

	// Burst is the bucket size. Values below 1 default to PerSecond
	// rounded down, with a minimum of 1.
	Burst int
}

func (p RateLimitPolicy) burst() int {
	if p.Burst >= 1 {
		return p.Burst
	}
	if b := int(p.PerSecond); b >= 1 {
		return b
	}
	return 1
}

// RepeatPolicy configures [RepeatUntil].
type RepeatPolicy struct {
	// MaxRounds is the total number of executions before giving up.
	// Values below 1 are treated as 1.
	MaxRounds int

	// Delay is the pause between rounds.
	Delay time.Duration
}

func (p RepeatPolicy) rounds() int {
	if p.MaxRounds < 1 {
		return 1
	}
	return p.MaxRounds
}
