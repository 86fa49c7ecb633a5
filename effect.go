// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"sync"

	"github.com/samber/mo"
)

// Unit is the value of effects which are executed only for their side
// effects, such as saga compensators.
type Unit struct{}

// Effect is a deferred, fallible computation. It performs no work until
// executed with a context and executing it twice runs it twice; use
// [Effect.Cached] for explicit memoization.
//
// Effect satisfies the monad laws under [Pure] and [Then]:
//
//	Then(Pure(x), f)      == f(x)
//	Then(m, Pure[T])      == m
//	Then(Then(m, f), g)   == Then(m, func(x T) { return Then(f(x), g) })
type Effect[T any] func(ctx context.Context) mo.Result[T]

// Pure returns an Effect that always succeeds with v. It never suspends.
func Pure[T any](v T) Effect[T] {
	return func(context.Context) mo.Result[T] {
		return mo.Ok(v)
	}
}

// Fail returns an Effect that always fails with err.
func Fail[T any](err error) Effect[T] {
	return func(context.Context) mo.Result[T] {
		return mo.Err[T](err)
	}
}

// FromResult returns an Effect that immediately yields res.
func FromResult[T any](res mo.Result[T]) Effect[T] {
	return func(context.Context) mo.Result[T] {
		return res
	}
}

// Func lifts a host action into an Effect. The action is given the
// execution context so it can cooperate with cancellation; if the context
// is already done the action is not invoked at all.
func Func[T any](f func(context.Context) (T, error)) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		if err := ctx.Err(); err != nil {
			return mo.Err[T](err)
		}
		v, err := f(ctx)
		if err != nil {
			return mo.Err[T](err)
		}
		return mo.Ok(v)
	}
}

// Run executes the effect. It is equivalent to calling the effect directly
// and exists for readability at call sites.
func (e Effect[T]) Run(ctx context.Context) mo.Result[T] {
	return e(ctx)
}

// Map transforms the success value. Errors pass through untouched. f must
// be a pure function; if it panics the panic propagates as a defect rather
// than being folded into the error channel.
func Map[T, U any](e Effect[T], f func(T) U) Effect[U] {
	return func(ctx context.Context) mo.Result[U] {
		res := e(ctx)
		if res.IsError() {
			return mo.Err[U](res.Error())
		}
		return mo.Ok(f(res.MustGet()))
	}
}

// Then is monadic bind: on success it executes the effect produced by f,
// on failure it short-circuits without invoking f.
func Then[T, U any](e Effect[T], f func(T) Effect[U]) Effect[U] {
	return func(ctx context.Context) mo.Result[U] {
		res := e(ctx)
		if res.IsError() {
			return mo.Err[U](res.Error())
		}
		return f(res.MustGet())(ctx)
	}
}

// MapErr transforms the error value. Successes pass through untouched.
func (e Effect[T]) MapErr(f func(error) error) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		res := e(ctx)
		if res.IsError() {
			return mo.Err[T](f(res.Error()))
		}
		return res
	}
}

// Cached returns an Effect that runs the receiver at most once and replays
// the same outcome on every subsequent execution.
func (e Effect[T]) Cached() Effect[T] {
	var once sync.Once
	var res mo.Result[T]
	return func(ctx context.Context) mo.Result[T] {
		once.Do(func() {
			res = e(ctx)
		})
		return res
	}
}
