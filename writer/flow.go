// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package writer

import (
	"context"
	"time"

	"github.com/tesserae-labs/effect"
)

type step[T, W any] struct {
	name  string
	apply func(Logged[T, W]) Logged[T, W]
}

// Flow is the writer shape counterpart of [effect.Flow]: a deferred,
// immutable description of combinator applications over a base logged
// effect, materialized by Compile.
type Flow[T, W any] struct {
	base  Logged[T, W]
	steps []step[T, W]
}

// FlowOf starts a Flow from l.
func FlowOf[T, W any](l Logged[T, W]) Flow[T, W] {
	return Flow[T, W]{base: l}
}

func (f Flow[T, W]) with(name string, apply func(Logged[T, W]) Logged[T, W]) Flow[T, W] {
	steps := make([]step[T, W], len(f.steps), len(f.steps)+1)
	copy(steps, f.steps)
	steps = append(steps, step[T, W]{name: name, apply: apply})
	return Flow[T, W]{base: f.base, steps: steps}
}

// Retry
func (f Flow[T, W]) Retry(policy effect.RetryPolicy) Flow[T, W] {
	return f.with("retry", func(l Logged[T, W]) Logged[T, W] {
		return Retry(l, policy)
	})
}

// Timeout
func (f Flow[T, W]) Timeout(d time.Duration) Flow[T, W] {
	return f.with("timeout", func(l Logged[T, W]) Logged[T, W] {
		return Timeout(l, d)
	})
}

// Delay
func (f Flow[T, W]) Delay(d time.Duration) Flow[T, W] {
	return f.with("delay", func(l Logged[T, W]) Logged[T, W] {
		return Delay(l, d)
	})
}

// Fallback
func (f Flow[T, W]) Fallback(alt Logged[T, W]) Flow[T, W] {
	return f.with("fallback", func(l Logged[T, W]) Logged[T, W] {
		return Fallback(l, alt)
	})
}

// RaceOk races the effect built so far against rivals, first success wins.
func (f Flow[T, W]) RaceOk(policy effect.RaceOkPolicy, rivals ...Logged[T, W]) Flow[T, W] {
	return f.with("race_ok", func(l Logged[T, W]) Logged[T, W] {
		return RaceOk(policy, append([]Logged[T, W]{l}, rivals...)...)
	})
}

// RepeatUntil
func (f Flow[T, W]) RepeatUntil(condition func(T) bool, policy effect.RepeatPolicy) Flow[T, W] {
	return f.with("repeat_until", func(l Logged[T, W]) Logged[T, W] {
		return RepeatUntil(l, condition, policy)
	})
}

// RateLimit
func (f Flow[T, W]) RateLimit(policy effect.RateLimitPolicy) Flow[T, W] {
	return f.with("rate_limit", func(l Logged[T, W]) Logged[T, W] {
		return RateLimit(l, policy)
	})
}

// WithLog
func (f Flow[T, W]) WithLog(entries ...W) Flow[T, W] {
	return f.with("with_log", func(l Logged[T, W]) Logged[T, W] {
		return l.WithLog(entries...)
	})
}

// Censor
func (f Flow[T, W]) Censor(rewrite func(Log[W]) Log[W]) Flow[T, W] {
	return f.with("censor", func(l Logged[T, W]) Logged[T, W] {
		return Censor(l, rewrite)
	})
}

// Steps returns the names of the pending combinator applications in call order.
func (f Flow[T, W]) Steps() []string {
	names := make([]string, len(f.steps))
	for i, s := range f.steps {
		names[i] = s.name
	}
	return names
}

// Compile folds the accumulated combinators over the base effect in call
// order.
func (f Flow[T, W]) Compile() Logged[T, W] {
	l := f.base
	for _, s := range f.steps {
		l = s.apply(l)
	}
	return l
}

// Run compiles the flow and runs the resulting effect.
func (f Flow[T, W]) Run(ctx context.Context) Result[T, W] {
	return f.Compile().Run(ctx)
}
