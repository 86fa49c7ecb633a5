// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// Bracket acquires a resource, runs use with it and releases it exactly
// once before control returns, whether use succeeded, failed, panicked or
// was cancelled. release runs under a context that survives cancellation
// of the execution context. If acquire fails neither use nor release run.
func Bracket[R, T any](
	acquire Effect[R],
	use func(R) Effect[T],
	release func(context.Context, R),
) Effect[T] {
	return func(ctx context.Context) (out mo.Result[T]) {
		ares := acquire(ctx)
		if ares.IsError() {
			return mo.Err[T](ares.Error())
		}

		resource := ares.MustGet()
		defer release(context.WithoutCancel(ctx), resource)

		return use(resource)(ctx)
	}
}

// BracketOnError is like [Bracket] but only releases the resource when use
// fails. On success the caller owns the resource.
func BracketOnError[R, T any](
	acquire Effect[R],
	use func(R) Effect[T],
	release func(context.Context, R),
) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		ares := acquire(ctx)
		if ares.IsError() {
			return mo.Err[T](ares.Error())
		}

		resource := ares.MustGet()
		res := use(resource)(ctx)
		if res.IsError() {
			release(context.WithoutCancel(ctx), resource)
		}
		return res
	}
}

// WithResource brackets an already acquired resource.
func WithResource[R, T any](
	resource R,
	use func(R) Effect[T],
	release func(context.Context, R),
) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		defer release(context.WithoutCancel(ctx), resource)
		return use(resource)(ctx)
	}
}
