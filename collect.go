// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// TraverseShape is the generic sequential traversal body: handlers run
// strictly one after another, short-circuiting on the first failure.
// combineOk receives every raw in execution order; combineErr receives the
// failure plus the raws produced so far, including the failing one.
func TraverseShape[M, A, RawIn, RawOut, T any](
	items []A,
	handler func(A) Thunk[RawIn],
	extract func(RawIn) mo.Result[T],
	combineOk func(raws []RawIn) RawOut,
	combineErr func(err error, raws []RawIn) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		raws := make([]RawIn, 0, len(items))
		for _, item := range items {
			raw := handler(item)(ctx)
			raws = append(raws, raw)
			if res := extract(raw); res.IsError() {
				return combineErr(res.Error(), raws)
			}
		}
		return combineOk(raws)
	})
}

// FoldShape is the generic effectful reduction body: the accumulator is
// threaded through handler calls in order, short-circuiting on failure.
func FoldShape[M, A, RawIn, RawOut, T any](
	items []A,
	initial T,
	handler func(acc T, item A) Thunk[RawIn],
	extract func(RawIn) mo.Result[T],
	combineOk func(acc T, raws []RawIn) RawOut,
	combineErr func(err error, raws []RawIn) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		acc := initial
		raws := make([]RawIn, 0, len(items))
		for _, item := range items {
			raw := handler(acc, item)(ctx)
			raws = append(raws, raw)
			res := extract(raw)
			if res.IsError() {
				return combineErr(res.Error(), raws)
			}
			acc = res.MustGet()
		}
		return combineOk(acc, raws)
	})
}

// Traverse runs handler over the items strictly in order, one at a time,
// short-circuiting on the first failure.
func Traverse[A, T any](items []A, handler func(A) Effect[T]) Effect[[]T] {
	return TraverseShape(
		items,
		func(item A) Thunk[mo.Result[T]] { return handler(item).Thunk() },
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(raws []mo.Result[T]) mo.Result[[]T] {
			values := make([]T, len(raws))
			for i, r := range raws {
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

// TraverseParallel is [Traverse] with bounded concurrency; it is [Batch]
// under another name for symmetry with the sequential variant.
func TraverseParallel[A, T any](items []A, handler func(A) Effect[T], concurrency int) Effect[[]T] {
	return Batch(items, handler, concurrency)
}

// Sequence flips a slice of effects into an effect of a slice, running
// them strictly in order and short-circuiting on the first failure.
func Sequence[T any](effects []Effect[T]) Effect[[]T] {
	return Traverse(effects, func(e Effect[T]) Effect[T] { return e })
}

// Fold threads an accumulator through effectful reduction steps,
// short-circuiting on failure.
func Fold[A, T any](items []A, initial T, reducer func(acc T, item A) Effect[T]) Effect[T] {
	return FoldShape(
		items,
		initial,
		func(acc T, item A) Thunk[mo.Result[T]] { return reducer(acc, item).Thunk() },
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(acc T, _ []mo.Result[T]) mo.Result[T] { return mo.Ok(acc) },
		func(err error, _ []mo.Result[T]) mo.Result[T] { return mo.Err[T](err) },
		ShapeOf[T]().Wrap,
	)
}

// Replicate returns n copies of e for use with selection combinators.
func Replicate[T any](e Effect[T], n int) []Effect[T] {
	copies := make([]Effect[T], n)
	for i := range copies {
		copies[i] = e
	}
	return copies
}
