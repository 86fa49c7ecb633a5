// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package writer

import (
	"context"
	"time"

	"github.com/tesserae-labs/effect"

	"github.com/samber/mo"
)

func thunksOf[T, W any](ls []Logged[T, W]) []effect.Thunk[Result[T, W]] {
	thunks := make([]effect.Thunk[Result[T, W]], len(ls))
	for i, l := range ls {
		thunks[i] = l.Thunk()
	}
	return thunks
}

// mergeLogs concatenates the logs of raws in the order given.
func mergeLogs[T, W any](raws []Result[T, W]) Log[W] {
	var merged Log[W]
	for _, r := range raws {
		merged = merged.Combine(r.Log)
	}
	return merged
}

// Retry re-executes l according to policy. Only the returned attempt's
// log survives: a successful attempt contributes its own log and nothing
// from the failed attempts before it.
func Retry[T, W any](l Logged[T, W], policy effect.RetryPolicy) Logged[T, W] {
	return effect.RetryShape(l.Thunk(), ShapeOf[T, W](), policy)
}

// Timeout races l against d. A deadline hit yields an
// [effect.TimeoutError] with an empty log, since the interrupted branch
// never completed to report one.
func Timeout[T, W any](l Logged[T, W], d time.Duration) Logged[T, W] {
	return effect.TimeoutShape(
		l.Thunk(),
		d,
		func(r Result[T, W]) Result[T, W] { return r },
		func() Result[T, W] { return Err[T, W](effect.TimeoutError{After: d}, nil) },
		ShapeOf[T, W]().Wrap,
	)
}

// Delay pauses for d before executing l.
func Delay[T, W any](l Logged[T, W], d time.Duration) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		if d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				return Err[T, W](ctx.Err(), nil)
			}
		}
		return l(ctx)
	}
}

// Race executes all logged effects concurrently and returns the outcome
// and log of whichever finishes first; the rest are cancelled and their
// logs discarded.
func Race[T, W any](ls ...Logged[T, W]) Logged[T, W] {
	return effect.RaceShape(thunksOf(ls), ShapeOf[T, W]().Wrap)
}

// RaceOk executes all logged effects concurrently and returns the first
// success. Only the winner's log survives; losing branches contribute
// nothing. When every branch fails the surfaced failure, and its log,
// follow policy.ErrorStrategy.
func RaceOk[T, W any](policy effect.RaceOkPolicy, ls ...Logged[T, W]) Logged[T, W] {
	return effect.RaceOkShape(thunksOf(ls), ShapeOf[T, W](), policy)
}

// Fallback executes primary and, if it fails, secondary. The fallback
// branch's result replaces the primary's entirely, log included.
func Fallback[T, W any](primary, secondary Logged[T, W]) Logged[T, W] {
	return effect.FallbackShape(primary.Thunk(), secondary.Thunk(), ShapeOf[T, W]())
}

// FallbackChain tries each logged effect in order until one succeeds.
func FallbackChain[T, W any](ls ...Logged[T, W]) Logged[T, W] {
	return effect.FallbackChainShape(thunksOf(ls), ShapeOf[T, W]())
}

// Batch runs handler over items with at most concurrency in flight.
// Values are collected in input order while logs merge in completion
// order, which is the only order that exists for concurrent branches. On
// failure the merged log covers every branch that completed before the
// group stopped.
func Batch[A, T, W any](items []A, handler func(A) Logged[T, W], concurrency int) Logged[[]T, W] {
	return effect.BatchShape(
		items,
		func(item A) effect.Thunk[Result[T, W]] { return handler(item).Thunk() },
		concurrency,
		ShapeOf[T, W]().Extract,
		func(ordered, byCompletion []Result[T, W]) Result[[]T, W] {
			values := make([]T, len(ordered))
			for i, r := range ordered {
				values[i] = r.Res.MustGet()
			}
			return Ok(values, mergeLogs(byCompletion))
		},
		func(err error, byCompletion []Result[T, W]) Result[[]T, W] {
			return Err[[]T, W](err, mergeLogs(byCompletion))
		},
		ShapeOf[[]T, W]().Wrap,
	)
}

// BatchAll is like [Batch] but never fails the aggregate: every handler
// runs and each branch's outcome is reported individually, with all logs
// merged in completion order.
func BatchAll[A, T, W any](items []A, handler func(A) Logged[T, W], concurrency int) Logged[[]mo.Result[T], W] {
	return effect.BatchAllShape(
		items,
		func(item A) effect.Thunk[Result[T, W]] { return handler(item).Thunk() },
		concurrency,
		func(ordered, byCompletion []Result[T, W]) Result[[]mo.Result[T], W] {
			results := make([]mo.Result[T], len(ordered))
			for i, r := range ordered {
				results[i] = r.Res
			}
			return Ok(results, mergeLogs(byCompletion))
		},
		ShapeOf[[]mo.Result[T], W]().Wrap,
	)
}

// Parallel executes all logged effects concurrently, collecting values in
// input order and merging logs in completion order. The first failure to
// arrive fails the aggregate, carrying the merged log of every branch.
func Parallel[T, W any](ls ...Logged[T, W]) Logged[[]T, W] {
	return effect.ParallelShape(
		thunksOf(ls),
		ShapeOf[T, W]().Extract,
		func(ordered, byCompletion []Result[T, W]) Result[[]T, W] {
			values := make([]T, len(ordered))
			for i, r := range ordered {
				values[i] = r.Res.MustGet()
			}
			return Ok(values, mergeLogs(byCompletion))
		},
		func(err error, _, byCompletion []Result[T, W]) Result[[]T, W] {
			return Err[[]T, W](err, mergeLogs(byCompletion))
		},
		ShapeOf[[]T, W]().Wrap,
	)
}

// Traverse runs handler over items strictly in order, short-circuiting on
// the first failure. Logs concatenate in execution order; a failure keeps
// everything logged up to and including the failing branch.
func Traverse[A, T, W any](items []A, handler func(A) Logged[T, W]) Logged[[]T, W] {
	return effect.TraverseShape(
		items,
		func(item A) effect.Thunk[Result[T, W]] { return handler(item).Thunk() },
		ShapeOf[T, W]().Extract,
		func(raws []Result[T, W]) Result[[]T, W] {
			values := make([]T, len(raws))
			for i, r := range raws {
				values[i] = r.Res.MustGet()
			}
			return Ok(values, mergeLogs(raws))
		},
		func(err error, raws []Result[T, W]) Result[[]T, W] {
			return Err[[]T, W](err, mergeLogs(raws))
		},
		ShapeOf[[]T, W]().Wrap,
	)
}

// Sequence flips a slice of logged effects into a logged effect of a
// slice, running them strictly in order.
func Sequence[T, W any](ls []Logged[T, W]) Logged[[]T, W] {
	return Traverse(ls, func(l Logged[T, W]) Logged[T, W] { return l })
}

// Fold threads an accumulator through effectful reduction steps, logs
// concatenating in execution order.
func Fold[A, T, W any](items []A, initial T, reducer func(acc T, item A) Logged[T, W]) Logged[T, W] {
	return effect.FoldShape(
		items,
		initial,
		func(acc T, item A) effect.Thunk[Result[T, W]] { return reducer(acc, item).Thunk() },
		ShapeOf[T, W]().Extract,
		func(acc T, raws []Result[T, W]) Result[T, W] {
			return Ok(acc, mergeLogs(raws))
		},
		func(err error, raws []Result[T, W]) Result[T, W] {
			return Err[T, W](err, mergeLogs(raws))
		},
		ShapeOf[T, W]().Wrap,
	)
}

// Validate runs all logged effects concurrently without short-circuiting.
// Failures aggregate into an [effect.ValidationError] in input order while
// logs merge in completion order in both outcomes.
func Validate[T, W any](ls ...Logged[T, W]) Logged[[]T, W] {
	return effect.ValidateShape(
		thunksOf(ls),
		ShapeOf[T, W]().Extract,
		func(values []T, byCompletion []Result[T, W]) Result[[]T, W] {
			return Ok(values, mergeLogs(byCompletion))
		},
		func(errs []error, byCompletion []Result[T, W]) Result[[]T, W] {
			return Err[[]T, W](effect.ValidationError{Errs: errs}, mergeLogs(byCompletion))
		},
		ShapeOf[[]T, W]().Wrap,
	)
}

// Partition runs all logged effects concurrently and separates successes
// from failures without ever failing itself. Every branch's log merges in
// completion order.
func Partition[T, W any](ls ...Logged[T, W]) Logged[effect.Partitioned[T], W] {
	return effect.PartitionShape(
		thunksOf(ls),
		ShapeOf[T, W]().Extract,
		func(values []T, errs []error, byCompletion []Result[T, W]) Result[effect.Partitioned[T], W] {
			return Ok(effect.Partitioned[T]{Values: values, Errs: errs}, mergeLogs(byCompletion))
		},
		ShapeOf[effect.Partitioned[T], W]().Wrap,
	)
}

// RepeatUntil re-executes a successful logged effect while condition is
// false. As with [Retry] only the returned round's log survives. An
// exhausted budget yields an [effect.ConditionNotMetError] with an empty
// log.
func RepeatUntil[T, W any](l Logged[T, W], condition func(T) bool, policy effect.RepeatPolicy) Logged[T, W] {
	rounds := policy.MaxRounds
	if rounds < 1 {
		rounds = 1
	}
	return effect.RepeatUntilShape(
		l.Thunk(),
		ShapeOf[T, W](),
		condition,
		policy,
		func() Result[T, W] {
			return Err[T, W](effect.ConditionNotMetError{Rounds: rounds}, nil)
		},
	)
}

// RateLimit throttles executions of l with a token bucket shared by every
// execution of the returned effect.
func RateLimit[T, W any](l Logged[T, W], policy effect.RateLimitPolicy) Logged[T, W] {
	return effect.RateLimitShape(
		l.Thunk(),
		policy,
		ShapeOf[T, W]().Wrap,
		func(err error) Result[T, W] { return Err[T, W](err, nil) },
	)
}

// Bracket acquires a resource, runs use with it and releases it exactly
// once before control returns. The acquire and use logs concatenate in
// that order whatever the outcome; release runs under a context that
// survives cancellation and contributes no log.
func Bracket[R, T, W any](
	acquire Logged[R, W],
	use func(R) Logged[T, W],
	release func(context.Context, R),
) Logged[T, W] {
	return func(ctx context.Context) Result[T, W] {
		ar := acquire(ctx)
		if ar.Res.IsError() {
			return Err[T, W](ar.Res.Error(), ar.Log)
		}

		resource := ar.Res.MustGet()
		defer release(context.WithoutCancel(ctx), resource)

		ur := use(resource)(ctx)
		return Result[T, W]{Res: ur.Res, Log: ar.Log.Combine(ur.Log)}
	}
}
