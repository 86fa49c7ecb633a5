// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"time"

	"github.com/samber/mo"
	"go.opentelemetry.io/otel/trace"
)

type step[T any] struct {
	name  string
	apply func(Effect[T]) Effect[T]
}

// Flow is a deferred description of combinator applications over a base
// effect. Each method records a pending application and returns a new Flow;
// nothing runs until Compile or Run. Flows are immutable so a partially
// built Flow can be safely shared and extended down different branches.
type Flow[T any] struct {
	base  Effect[T]
	steps []step[T]
}

// FlowOf starts a Flow from e.
func FlowOf[T any](e Effect[T]) Flow[T] {
	return Flow[T]{base: e}
}

func (f Flow[T]) with(name string, apply func(Effect[T]) Effect[T]) Flow[T] {
	steps := make([]step[T], len(f.steps), len(f.steps)+1)
	copy(steps, f.steps)
	steps = append(steps, step[T]{name: name, apply: apply})
	return Flow[T]{base: f.base, steps: steps}
}

// Retry
func (f Flow[T]) Retry(policy RetryPolicy) Flow[T] {
	return f.with("retry", func(e Effect[T]) Effect[T] {
		return Retry(e, policy)
	})
}

// Timeout
func (f Flow[T]) Timeout(d time.Duration) Flow[T] {
	return f.with("timeout", func(e Effect[T]) Effect[T] {
		return Timeout(e, d)
	})
}

// Delay
func (f Flow[T]) Delay(d time.Duration) Flow[T] {
	return f.with("delay", func(e Effect[T]) Effect[T] {
		return Delay(e, d)
	})
}

// Tap
func (f Flow[T]) Tap(observe func(T)) Flow[T] {
	return f.with("tap", func(e Effect[T]) Effect[T] {
		return Tap(e, observe)
	})
}

// TapErr
func (f Flow[T]) TapErr(observe func(error)) Flow[T] {
	return f.with("tap_err", func(e Effect[T]) Effect[T] {
		return TapErr(e, observe)
	})
}

// Ensure
func (f Flow[T]) Ensure(predicate func(T) bool, errFn func(T) error) Flow[T] {
	return f.with("ensure", func(e Effect[T]) Effect[T] {
		return Ensure(e, predicate, errFn)
	})
}

// Reject
func (f Flow[T]) Reject(predicate func(T) bool, errFn func(T) error) Flow[T] {
	return f.with("reject", func(e Effect[T]) Effect[T] {
		return Reject(e, predicate, errFn)
	})
}

// Recover
func (f Flow[T]) Recover(fallback T) Flow[T] {
	return f.with("recover", func(e Effect[T]) Effect[T] {
		return Recover(e, fallback)
	})
}

// RecoverWith
func (f Flow[T]) RecoverWith(handler func(error) T) Flow[T] {
	return f.with("recover_with", func(e Effect[T]) Effect[T] {
		return RecoverWith(e, handler)
	})
}

// Fallback
func (f Flow[T]) Fallback(alt Effect[T]) Flow[T] {
	return f.with("fallback", func(e Effect[T]) Effect[T] {
		return Fallback(e, alt)
	})
}

// RaceOk races the effect built so far against rivals, first success wins.
func (f Flow[T]) RaceOk(policy RaceOkPolicy, rivals ...Effect[T]) Flow[T] {
	return f.with("race_ok", func(e Effect[T]) Effect[T] {
		return RaceOk(policy, append([]Effect[T]{e}, rivals...)...)
	})
}

// BestOf
func (f Flow[T]) BestOf(n int, key func(T) float64) Flow[T] {
	return f.with("best_of", func(e Effect[T]) Effect[T] {
		return BestOf(e, n, key)
	})
}

// RepeatUntil
func (f Flow[T]) RepeatUntil(condition func(T) bool, policy RepeatPolicy) Flow[T] {
	return f.with("repeat_until", func(e Effect[T]) Effect[T] {
		return RepeatUntil(e, condition, policy)
	})
}

// RateLimit
func (f Flow[T]) RateLimit(policy RateLimitPolicy) Flow[T] {
	return f.with("rate_limit", func(e Effect[T]) Effect[T] {
		return RateLimit(e, policy)
	})
}

// Breaker
func (f Flow[T]) Breaker(opts ...BreakerOption) Flow[T] {
	return f.with("breaker", func(e Effect[T]) Effect[T] {
		return Breaker(e, opts...)
	})
}

// Traced
func (f Flow[T]) Traced(name string, opts ...trace.SpanStartOption) Flow[T] {
	return f.with("traced", func(e Effect[T]) Effect[T] {
		return Traced(e, name, opts...)
	})
}

// Steps returns the names of the pending combinator applications in call order.
func (f Flow[T]) Steps() []string {
	names := make([]string, len(f.steps))
	for i, s := range f.steps {
		names[i] = s.name
	}
	return names
}

// Compile folds the accumulated combinators over the base effect in call order
// and returns the resulting effect. The Flow itself is left untouched.
func (f Flow[T]) Compile() Effect[T] {
	e := f.base
	for _, s := range f.steps {
		e = s.apply(e)
	}
	return e
}

// Run compiles the flow and runs the resulting effect.
func (f Flow[T]) Run(ctx context.Context) mo.Result[T] {
	return f.Compile().Run(ctx)
}
