// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"time"

	"github.com/tesserae-labs/effect/internal/try"

	"github.com/samber/mo"
)

// TimeoutShape is the generic timeout body. The thunk races against the
// deadline on its own goroutine; if the deadline wins the thunk's context
// is cancelled and onTimeout supplies the raw value to return. widen maps
// a completed raw into the output representation. If the parent context is
// cancelled the body waits for the thunk to observe the cancellation so
// cleanup such as bracket release still runs before control returns.
func TimeoutShape[M, RawIn, RawOut any](
	thunk Thunk[RawIn],
	d time.Duration,
	widen func(RawIn) RawOut,
	onTimeout func() RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		tctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		out := make(chan RawIn, 1)
		panicked := make(chan *try.PanicError, 1)
		go func() {
			var raw RawIn
			perr := try.Capture(func() {
				raw = thunk(tctx)
			})
			if perr != nil {
				panicked <- perr
				return
			}
			out <- raw
		}()

		select {
		case raw := <-out:
			return widen(raw)
		case perr := <-panicked:
			try.Repanic(perr)
			panic("unreachable")
		case <-tctx.Done():
			if ctx.Err() != nil {
				// Parent cancellation, not a deadline: let the
				// branch finish cooperatively.
				select {
				case raw := <-out:
					return widen(raw)
				case perr := <-panicked:
					try.Repanic(perr)
					panic("unreachable")
				}
			}
			return onTimeout()
		}
	})
}

// Timeout races e against d. If the deadline elapses first the effect's
// context is cancelled and the outcome is a [TimeoutError].
func Timeout[T any](e Effect[T], d time.Duration) Effect[T] {
	return TimeoutShape(
		e.Thunk(),
		d,
		func(r mo.Result[T]) mo.Result[T] { return r },
		func() mo.Result[T] { return mo.Err[T](TimeoutError{After: d}) },
		ShapeOf[T]().Wrap,
	)
}

// Delay pauses for d before executing e. Cancellation during the pause
// surfaces the context error without running e.
func Delay[T any](e Effect[T], d time.Duration) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		if !sleep(ctx, d) {
			return mo.Err[T](ctx.Err())
		}
		return e(ctx)
	}
}
