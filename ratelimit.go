// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
	"golang.org/x/time/rate"
)

// RateLimitShape is the generic rate limiting body. The token bucket is
// created once per combinator application and shared, synchronized, by
// every execution of the returned effect; this is the one piece of shared
// mutable state in the engine.
func RateLimitShape[M, Raw any](thunk Thunk[Raw], policy RateLimitPolicy, wrap func(Thunk[Raw]) M, onErr func(error) Raw) M {
	limiter := rate.NewLimiter(rate.Limit(policy.PerSecond), policy.burst())
	return wrap(func(ctx context.Context) Raw {
		if err := limiter.Wait(ctx); err != nil {
			return onErr(err)
		}
		return thunk(ctx)
	})
}

// RateLimit throttles executions of e so the sustained rate stays at or
// below policy.PerSecond, allowing a burst of policy.Burst before
// throttling begins. Repeated executions of the returned effect share one
// bucket.
func RateLimit[T any](e Effect[T], policy RateLimitPolicy) Effect[T] {
	return RateLimitShape(
		e.Thunk(),
		policy,
		ShapeOf[T]().Wrap,
		func(err error) mo.Result[T] { return mo.Err[T](err) },
	)
}
