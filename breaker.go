// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type breakerOptions struct {
	name        string
	logger      *zap.Logger
	tripCount   uint32
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	failOn      func(error) bool
}

// BreakerOption
type BreakerOption func(*breakerOptions)

// BreakerName is the name of the circuit breaker. This will be used to create
// a named logger for logging status changes.
func BreakerName(name string) BreakerOption {
	return func(bo *breakerOptions) {
		bo.name = name
	}
}

// BreakerLogger
func BreakerLogger(logger *zap.Logger) BreakerOption {
	return func(bo *breakerOptions) {
		bo.logger = logger
	}
}

// BreakerTripCount determines the number of consecutive failures required to trip the circuit.
func BreakerTripCount(n uint32) BreakerOption {
	return func(bo *breakerOptions) {
		bo.tripCount = n
	}
}

// BreakerMaxRequests is the maximum number of executions allowed to pass through
// when the circuit is half-open. If MaxRequests is 0, only 1 execution is allowed.
func BreakerMaxRequests(maxRequests uint32) BreakerOption {
	return func(bo *breakerOptions) {
		bo.maxRequests = maxRequests
	}
}

// BreakerInterval is the cyclic period of the closed state after which the
// internal counts are cleared. If Interval is 0, the counts are never cleared
// while the circuit remains closed.
func BreakerInterval(interval time.Duration) BreakerOption {
	return func(bo *breakerOptions) {
		bo.interval = interval
	}
}

// BreakerTimeout is the period of the open state, after which the circuit
// becomes half-open. If Timeout is 0, it defaults to 60 seconds.
func BreakerTimeout(timeout time.Duration) BreakerOption {
	return func(bo *breakerOptions) {
		bo.timeout = timeout
	}
}

// BreakerFailOn registers a predicate which decides whether an error counts
// towards tripping the circuit. Errors the predicate rejects still fail the
// effect but leave the breaker state untouched.
//
// Default: every error counts.
func BreakerFailOn(f func(error) bool) BreakerOption {
	return func(bo *breakerOptions) {
		bo.failOn = f
	}
}

// Breaker guards e with a circuit breaker. While the circuit is open every
// run fails immediately with gobreaker.ErrOpenState without invoking e.
// The breaker state is shared across all runs of the returned effect.
func Breaker[T any](e Effect[T], opts ...BreakerOption) Effect[T] {
	bo := &breakerOptions{
		logger:      zap.NewNop(),
		tripCount:   5,
		timeout:     60 * time.Second,
		maxRequests: 1,
		failOn: func(err error) bool {
			return true
		},
	}
	for _, opt := range opts {
		opt(bo)
	}

	log := bo.logger.Named(bo.name)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        bo.name,
		MaxRequests: bo.maxRequests,
		Interval:    bo.interval,
		Timeout:     bo.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bo.tripCount
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				log.Error("circuit has been opened")
			case gobreaker.StateHalfOpen:
				log.Warn("circuit is now half open and letting some executions through", zap.Uint32("max_requests_allowed_through", bo.maxRequests))
			case gobreaker.StateClosed:
				log.Info("circuit has been closed")
			}
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !bo.failOn(err)
		},
	})

	return func(ctx context.Context) mo.Result[T] {
		v, err := cb.Execute(func() (any, error) {
			res := e.Run(ctx)
			if res.IsError() {
				return nil, res.Error()
			}
			return res.MustGet(), nil
		})
		if err != nil {
			return mo.Err[T](err)
		}
		return mo.Ok(v.(T))
	}
}
