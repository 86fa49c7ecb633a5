// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package writer provides the log accumulating effect shape: a deferred,
// fallible computation which also produces an append-only log of W
// entries. Logs combine by concatenation and every combinator in the root
// package is available here, applied through the same generic bodies, with
// fixed merge rules for how branch logs flow into the combined log.
package writer

import (
	"context"
	"sync"

	"github.com/tesserae-labs/effect"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Log is an append-only sequence of entries combined by concatenation.
// All operations copy; a Log is never mutated in place, so logs can be
// shared across concurrent branches safely.
type Log[W any] []W

// LogOf builds a Log from entries.
func LogOf[W any](entries ...W) Log[W] {
	l := make(Log[W], len(entries))
	copy(l, entries)
	return l
}

// Combine concatenates two logs into a fresh one.
func (l Log[W]) Combine(other Log[W]) Log[W] {
	if len(l) == 0 {
		return other
	}
	if len(other) == 0 {
		return l
	}
	merged := make(Log[W], 0, len(l)+len(other))
	merged = append(merged, l...)
	merged = append(merged, other...)
	return merged
}

// Result pairs an outcome with the log accumulated while producing it.
// A failed outcome still carries the log of everything that ran before
// the failure.
type Result[T, W any] struct {
	Res mo.Result[T]
	Log Log[W]
}

// Ok builds a successful Result carrying log.
func Ok[T, W any](v T, log Log[W]) Result[T, W] {
	return Result[T, W]{Res: mo.Ok(v), Log: log}
}

// Err builds a failed Result carrying log.
func Err[T, W any](err error, log Log[W]) Result[T, W] {
	return Result[T, W]{Res: mo.Err[T](err), Log: log}
}

// Logged is a deferred, fallible computation which accumulates a log of W
// entries alongside its outcome. Like [effect.Effect] it performs no work
// until executed and re-executing re-runs it.
type Logged[T, W any] func(ctx context.Context) Result[T, W]

// Pure returns a Logged that always succeeds with v and an empty log.
func Pure[T, W any](v T) Logged[T, W] {
	return func(context.Context) Result[T, W] {
		return Result[T, W]{Res: mo.Ok(v)}
	}
}

// Fail returns a Logged that always fails with err and an empty log.
func Fail[T, W any](err error) Logged[T, W] {
	return func(context.Context) Result[T, W] {
		return Result[T, W]{Res: mo.Err[T](err)}
	}
}

// Tell succeeds with Unit and appends entries to the log.
func Tell[W any](entries ...W) Logged[effect.Unit, W] {
	log := LogOf(entries...)
	return func(context.Context) Result[effect.Unit, W] {
		return Result[effect.Unit, W]{Res: mo.Ok(effect.Unit{}), Log: log}
	}
}

// FromEffect lifts a plain effect into the writer shape with an empty log.
func FromEffect[T, W any](e effect.Effect[T]) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		return Result[T, W]{Res: e.Run(ctx)}
	}
}

// Func lifts a host action into a Logged with an empty log. The action is
// not invoked if the context is already done.
func Func[T, W any](f func(context.Context) (T, error)) Logged[T, W] {
	return FromEffect[T, W](effect.Func(f))
}

// Run executes the logged effect.
func (l Logged[T, W]) Run(ctx context.Context) Result[T, W] {
	return l(ctx)
}

// Thunk exposes the logged effect in its raw form for use with the
// generic combinator bodies in the root package.
func (l Logged[T, W]) Thunk() effect.Thunk[Result[T, W]] {
	return effect.Thunk[Result[T, W]](l)
}

// ShapeOf returns the [effect.Shape] of the writer effect: Extract drops
// the log and Wrap is the Logged constructor.
func ShapeOf[T, W any]() effect.Shape[Logged[T, W], Result[T, W], T] {
	return effect.Shape[Logged[T, W], Result[T, W], T]{
		Extract: func(r Result[T, W]) mo.Result[T] { return r.Res },
		Wrap: func(t effect.Thunk[Result[T, W]]) Logged[T, W] {
			return Logged[T, W](t)
		},
	}
}

// Map transforms the success value, keeping the log.
func Map[T, U, W any](l Logged[T, W], f func(T) U) Logged[U, W] {
	return func(ctx context.Context) Result[U, W] {
		r := l(ctx)
		if r.Res.IsError() {
			return Result[U, W]{Res: mo.Err[U](r.Res.Error()), Log: r.Log}
		}
		return Result[U, W]{Res: mo.Ok(f(r.Res.MustGet())), Log: r.Log}
	}
}

// Then is monadic bind: on success the continuation runs and the two logs
// concatenate in execution order. On failure the continuation is skipped
// and the log accumulated so far is kept.
func Then[T, U, W any](l Logged[T, W], f func(T) Logged[U, W]) Logged[U, W] {
	return func(ctx context.Context) Result[U, W] {
		r := l(ctx)
		if r.Res.IsError() {
			return Result[U, W]{Res: mo.Err[U](r.Res.Error()), Log: r.Log}
		}
		next := f(r.Res.MustGet())(ctx)
		return Result[U, W]{Res: next.Res, Log: r.Log.Combine(next.Log)}
	}
}

// MapErr transforms the error value, keeping the log.
func (l Logged[T, W]) MapErr(f func(error) error) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		r := l(ctx)
		if r.Res.IsError() {
			return Result[T, W]{Res: mo.Err[T](f(r.Res.Error())), Log: r.Log}
		}
		return r
	}
}

// WithLog appends entries to the log after the effect runs, regardless of
// outcome.
func (l Logged[T, W]) WithLog(entries ...W) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		r := l(ctx)
		return Result[T, W]{Res: r.Res, Log: r.Log.Combine(LogOf(entries...))}
	}
}

// Listen pairs the success value with the log accumulated while producing
// it. The log itself is kept as well.
func Listen[T, W any](l Logged[T, W]) Logged[lo.Tuple2[T, Log[W]], W] {
	return func(ctx context.Context) Result[lo.Tuple2[T, Log[W]], W] {
		r := l(ctx)
		if r.Res.IsError() {
			return Result[lo.Tuple2[T, Log[W]], W]{
				Res: mo.Err[lo.Tuple2[T, Log[W]]](r.Res.Error()),
				Log: r.Log,
			}
		}
		return Result[lo.Tuple2[T, Log[W]], W]{
			Res: mo.Ok(lo.T2(r.Res.MustGet(), r.Log)),
			Log: r.Log,
		}
	}
}

// Censor rewrites the log with f after the effect runs, regardless of
// outcome.
func Censor[T, W any](l Logged[T, W], f func(Log[W]) Log[W]) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		r := l(ctx)
		return Result[T, W]{Res: r.Res, Log: f(r.Log)}
	}
}

// MapLog transforms each log entry with f, preserving order.
func MapLog[T, W, X any](l Logged[T, W], f func(W) X) Logged[T, X] {
	return func(ctx context.Context) Result[T, X] {
		r := l(ctx)
		mapped := make(Log[X], len(r.Log))
		for i, w := range r.Log {
			mapped[i] = f(w)
		}
		return Result[T, X]{Res: r.Res, Log: mapped}
	}
}

// Cached returns a Logged that runs the receiver at most once and replays
// the same outcome and log on every subsequent execution.
func (l Logged[T, W]) Cached() Logged[T, W] {
	var once sync.Once
	var r Result[T, W]
	return func(ctx context.Context) Result[T, W] {
		once.Do(func() {
			r = l(ctx)
		})
		return r
	}
}
