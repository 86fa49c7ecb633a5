// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"sync"

	"github.com/tesserae-labs/effect/internal/try"

	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

// BatchShape is the generic bounded-fan-out body. At most concurrency
// handlers are in flight at once; admission stops at the first failure and
// combineErr receives that failure plus the raws completed so far in
// completion order. On success combineOk receives the raws both in input
// order (for value collection) and in completion order (for log merging).
// In-flight work is cancelled cooperatively on failure but not awaited
// beyond the group join.
func BatchShape[M, A, RawIn, RawOut, T any](
	items []A,
	handler func(A) Thunk[RawIn],
	concurrency int,
	extract func(RawIn) mo.Result[T],
	combineOk func(ordered, byCompletion []RawIn) RawOut,
	combineErr func(err error, byCompletion []RawIn) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	if concurrency < 1 {
		concurrency = 1
	}
	return wrap(func(ctx context.Context) RawOut {
		ordered := make([]RawIn, len(items))
		byCompletion := make([]RawIn, 0, len(items))

		var mu sync.Mutex
		var panicked *try.PanicError

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, item := range items {
			i, item := i, item
			g.Go(func() error {
				var raw RawIn
				perr := try.Capture(func() {
					raw = handler(item)(gctx)
				})

				mu.Lock()
				defer mu.Unlock()
				if perr != nil {
					if panicked == nil {
						panicked = perr
					}
					return perr
				}
				ordered[i] = raw
				byCompletion = append(byCompletion, raw)
				if res := extract(raw); res.IsError() {
					return res.Error()
				}
				return nil
			})
		}

		err := g.Wait()
		try.Repanic(panicked)
		if err != nil {
			return combineErr(err, byCompletion)
		}
		return combineOk(ordered, byCompletion)
	})
}

// BatchAllShape is like [BatchShape] but never fails the aggregate: every
// handler runs and combine receives all raws.
func BatchAllShape[M, A, RawIn, RawOut any](
	items []A,
	handler func(A) Thunk[RawIn],
	concurrency int,
	combine func(ordered, byCompletion []RawIn) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	if concurrency < 1 {
		concurrency = 1
	}
	return wrap(func(ctx context.Context) RawOut {
		ordered := make([]RawIn, len(items))
		byCompletion := make([]RawIn, 0, len(items))

		var mu sync.Mutex
		var panicked *try.PanicError

		var g errgroup.Group
		g.SetLimit(concurrency)
		for i, item := range items {
			i, item := i, item
			g.Go(func() error {
				var raw RawIn
				perr := try.Capture(func() {
					raw = handler(item)(ctx)
				})

				mu.Lock()
				defer mu.Unlock()
				if perr != nil {
					if panicked == nil {
						panicked = perr
					}
					return nil
				}
				ordered[i] = raw
				byCompletion = append(byCompletion, raw)
				return nil
			})
		}

		_ = g.Wait()
		try.Repanic(panicked)
		return combine(ordered, byCompletion)
	})
}

// Batch runs handler over every item with at most concurrency effects in
// flight, collecting results in input order. The first failure fails the
// whole batch.
func Batch[A, T any](items []A, handler func(A) Effect[T], concurrency int) Effect[[]T] {
	return BatchShape(
		items,
		func(item A) Thunk[mo.Result[T]] { return handler(item).Thunk() },
		concurrency,
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(ordered, _ []mo.Result[T]) mo.Result[[]T] {
			values := make([]T, len(ordered))
			for i, r := range ordered {
				values[i] = r.MustGet()
			}
			return mo.Ok(values)
		},
		func(err error, _ []mo.Result[T]) mo.Result[[]T] {
			return mo.Err[[]T](err)
		},
		ShapeOf[[]T]().Wrap,
	)
}

// BatchAll runs handler over every item with bounded concurrency and never
// fails: the outcome carries one result per item, in input order.
func BatchAll[A, T any](items []A, handler func(A) Effect[T], concurrency int) Effect[[]mo.Result[T]] {
	return BatchAllShape(
		items,
		func(item A) Thunk[mo.Result[T]] { return handler(item).Thunk() },
		concurrency,
		func(ordered, _ []mo.Result[T]) mo.Result[[]mo.Result[T]] {
			return mo.Ok(ordered)
		},
		ShapeOf[[]mo.Result[T]]().Wrap,
	)
}
