// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryShape is the generic retry body. It executes thunk up to
// policy.Times times, returning the first success or the raw value of the
// last attempt. Only the returned attempt's raw survives, so for the
// writer shape earlier attempts contribute nothing to the log.
func RetryShape[M, Raw, T any](thunk Thunk[Raw], sh Shape[M, Raw, T], policy RetryPolicy) M {
	attempts := policy.attempts()
	return sh.Wrap(func(ctx context.Context) Raw {
		var last Raw
		for attempt := 0; attempt < attempts; attempt++ {
			raw := thunk(ctx)
			res := sh.Extract(raw)
			if res.IsOk() {
				return raw
			}
			last = raw

			err := res.Error()
			if attempt+1 >= attempts {
				break
			}
			if policy.RetryOn != nil && !policy.RetryOn(err) {
				break
			}

			var delay time.Duration
			if policy.Backoff != nil {
				delay = policy.Backoff(attempt, err)
			}
			if policy.Logger != nil {
				policy.Logger.Warn(
					"retrying failed attempt",
					zap.Int("attempt", attempt+1),
					zap.Duration("backoff", delay),
					zap.Error(err),
				)
			}
			if !sleep(ctx, delay) {
				break
			}
		}
		return last
	})
}

// Retry re-executes e according to policy, returning the first success or
// the final failure.
func Retry[T any](e Effect[T], policy RetryPolicy) Effect[T] {
	return RetryShape(e.Thunk(), ShapeOf[T](), policy)
}
