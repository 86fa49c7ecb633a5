// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// RepeatUntilShape is the generic repeat body: the thunk re-runs while it
// succeeds with a value that does not satisfy condition. Failures return
// immediately; an exhausted round budget returns onExhausted.
func RepeatUntilShape[M, Raw, T any](
	thunk Thunk[Raw],
	sh Shape[M, Raw, T],
	condition func(T) bool,
	policy RepeatPolicy,
	onExhausted func() Raw,
) M {
	rounds := policy.rounds()
	return sh.Wrap(func(ctx context.Context) Raw {
		for round := 0; round < rounds; round++ {
			raw := thunk(ctx)
			res := sh.Extract(raw)
			if res.IsError() {
				return raw
			}
			if condition(res.MustGet()) {
				return raw
			}
			if round+1 < rounds {
				sleep(ctx, policy.Delay)
			}
		}
		return onExhausted()
	})
}

// RepeatUntil re-executes a successful effect while condition is false, up
// to policy.MaxRounds rounds. An exhausted budget yields a
// [ConditionNotMetError].
func RepeatUntil[T any](e Effect[T], condition func(T) bool, policy RepeatPolicy) Effect[T] {
	return RepeatUntilShape(
		e.Thunk(),
		ShapeOf[T](),
		condition,
		policy,
		func() mo.Result[T] {
			return mo.Err[T](ConditionNotMetError{Rounds: policy.rounds()})
		},
	)
}
