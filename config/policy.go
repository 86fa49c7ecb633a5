// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"time"

	"github.com/tesserae-labs/effect"
)

// Backoff is the document form of an [effect.Backoff] strategy.
type Backoff struct {
	// Strategy selects the backoff curve: "fixed", "exponential",
	// "jitter" or "exponential_jitter". Empty means no delay.
	Strategy string `config:"strategy"`

	// Delay is the pause used by the fixed and jitter strategies.
	Delay time.Duration `config:"delay"`

	// Initial, Multiplier and Max shape the exponential strategies.
	Initial    time.Duration `config:"initial"`
	Multiplier float64       `config:"multiplier"`
	Max        time.Duration `config:"max"`

	// Factor is the jitter magnitude in [0, 1].
	Factor float64 `config:"factor"`
}

// Build converts the document into an [effect.Backoff].
func (b Backoff) Build() (effect.Backoff, error) {
	switch b.Strategy {
	case "":
		return nil, nil
	case "fixed":
		return effect.FixedBackoff(b.Delay), nil
	case "exponential":
		return effect.ExponentialBackoff(b.Initial, b.Multiplier, b.Max), nil
	case "jitter":
		return effect.JitterBackoff(b.Delay, b.Factor), nil
	case "exponential_jitter":
		return effect.ExponentialJitterBackoff(b.Initial, b.Multiplier, b.Max, b.Factor), nil
	default:
		return nil, fmt.Errorf("unknown backoff strategy: %q", b.Strategy)
	}
}

// Retry is the document form of an [effect.RetryPolicy].
type Retry struct {
	Times   int     `config:"times"`
	Backoff Backoff `config:"backoff"`
}

// Policy converts the document into an [effect.RetryPolicy].
func (c Retry) Policy() (effect.RetryPolicy, error) {
	backoff, err := c.Backoff.Build()
	if err != nil {
		return effect.RetryPolicy{}, err
	}
	return effect.RetryPolicy{
		Times:   c.Times,
		Backoff: backoff,
	}, nil
}

// Timeout is the document form of a [effect.Timeout] deadline.
type Timeout struct {
	After time.Duration `config:"after"`
}

// RateLimit is the document form of an [effect.RateLimitPolicy].
type RateLimit struct {
	PerSecond float64 `config:"per_second"`
	Burst     int     `config:"burst"`
}

// Policy converts the document into an [effect.RateLimitPolicy].
func (c RateLimit) Policy() effect.RateLimitPolicy {
	return effect.RateLimitPolicy{
		PerSecond: c.PerSecond,
		Burst:     c.Burst,
	}
}

// Repeat is the document form of an [effect.RepeatPolicy].
type Repeat struct {
	MaxRounds int           `config:"max_rounds"`
	Delay     time.Duration `config:"delay"`
}

// Policy converts the document into an [effect.RepeatPolicy].
func (c Repeat) Policy() effect.RepeatPolicy {
	return effect.RepeatPolicy{
		MaxRounds: c.MaxRounds,
		Delay:     c.Delay,
	}
}

// Breaker is the document form of the [effect.Breaker] options.
type Breaker struct {
	Name        string        `config:"name"`
	TripCount   uint32        `config:"trip_count"`
	MaxRequests uint32        `config:"max_requests"`
	Interval    time.Duration `config:"interval"`
	Timeout     time.Duration `config:"timeout"`
}

// Options converts the document into [effect.BreakerOption]s. Zero valued
// fields are omitted so the combinator defaults apply.
func (c Breaker) Options() []effect.BreakerOption {
	var opts []effect.BreakerOption
	if c.Name != "" {
		opts = append(opts, effect.BreakerName(c.Name))
	}
	if c.TripCount > 0 {
		opts = append(opts, effect.BreakerTripCount(c.TripCount))
	}
	if c.MaxRequests > 0 {
		opts = append(opts, effect.BreakerMaxRequests(c.MaxRequests))
	}
	if c.Interval > 0 {
		opts = append(opts, effect.BreakerInterval(c.Interval))
	}
	if c.Timeout > 0 {
		opts = append(opts, effect.BreakerTimeout(c.Timeout))
	}
	return opts
}
