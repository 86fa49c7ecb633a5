// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/tesserae-labs/effect/internal/try"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type indexed[Raw any] struct {
	idx      int
	raw      Raw
	panicked *try.PanicError
}

// gather starts every thunk on its own goroutine and returns a channel of
// results tagged with their input index, in completion order.
func gather[Raw any](ctx context.Context, thunks []Thunk[Raw]) <-chan indexed[Raw] {
	out := make(chan indexed[Raw], len(thunks))
	for i, t := range thunks {
		i, t := i, t
		go func() {
			var res indexed[Raw]
			res.idx = i
			res.panicked = try.Capture(func() {
				res.raw = t(ctx)
			})
			out <- res
		}()
	}
	return out
}

// ParallelShape is the generic unbounded fan-out body: every thunk runs
// concurrently and all are awaited. combineOk receives the raws in input
// order plus completion order; combineErr receives the first failure to
// arrive along with every raw in completion order.
func ParallelShape[M, Raw, RawOut, T any](
	thunks []Thunk[Raw],
	extract func(Raw) mo.Result[T],
	combineOk func(ordered, byCompletion []Raw) RawOut,
	combineErr func(err error, ordered, byCompletion []Raw) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		out := gather(ctx, thunks)

		ordered := make([]Raw, len(thunks))
		byCompletion := make([]Raw, 0, len(thunks))
		var panicked *try.PanicError
		var firstErr error

		for range thunks {
			res := <-out
			if res.panicked != nil {
				if panicked == nil {
					panicked = res.panicked
				}
				continue
			}
			ordered[res.idx] = res.raw
			byCompletion = append(byCompletion, res.raw)
			if r := extract(res.raw); r.IsError() && firstErr == nil {
				firstErr = r.Error()
			}
		}

		try.Repanic(panicked)
		if firstErr != nil {
			return combineErr(firstErr, ordered, byCompletion)
		}
		return combineOk(ordered, byCompletion)
	})
}

// Parallel executes all effects concurrently and collects their values in
// input order, failing with the first failure to arrive.
func Parallel[T any](effects ...Effect[T]) Effect[[]T] {
	return ParallelShape(
		thunksOf(effects),
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(ordered, _ []mo.Result[T]) mo.Result[[]T] {
			values := make([]T, len(ordered))
			for i, r := range ordered {
				values[i] = r.MustGet()
			}
			return mo.Ok(values)
		},
		func(err error, _, _ []mo.Result[T]) mo.Result[[]T] {
			return mo.Err[[]T](err)
		},
		ShapeOf[[]T]().Wrap,
	)
}

// Zip executes two effects of different types concurrently and pairs their
// values, failing if either fails.
func Zip[A, B any](a Effect[A], b Effect[B]) Effect[lo.Tuple2[A, B]] {
	return func(ctx context.Context) mo.Result[lo.Tuple2[A, B]] {
		type either struct {
			a        mo.Result[A]
			b        mo.Result[B]
			isA      bool
			panicked *try.PanicError
		}
		out := make(chan either, 2)
		go func() {
			var e either
			e.isA = true
			e.panicked = try.Capture(func() { e.a = a(ctx) })
			out <- e
		}()
		go func() {
			var e either
			e.panicked = try.Capture(func() { e.b = b(ctx) })
			out <- e
		}()

		var ra mo.Result[A]
		var rb mo.Result[B]
		var panicked *try.PanicError
		for i := 0; i < 2; i++ {
			e := <-out
			if e.panicked != nil && panicked == nil {
				panicked = e.panicked
				continue
			}
			if e.isA {
				ra = e.a
			} else {
				rb = e.b
			}
		}

		try.Repanic(panicked)
		if ra.IsError() {
			return mo.Err[lo.Tuple2[A, B]](ra.Error())
		}
		if rb.IsError() {
			return mo.Err[lo.Tuple2[A, B]](rb.Error())
		}
		return mo.Ok(lo.T2(ra.MustGet(), rb.MustGet()))
	}
}
