// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/tesserae-labs/effect/internal/try"

	"github.com/samber/mo"
)

// awaitAll runs every thunk concurrently and waits for all of them,
// returning the raws in input order and in completion order. A panic in
// any branch resurfaces here after every branch has settled.
func awaitAll[Raw any](ctx context.Context, thunks []Thunk[Raw]) (ordered, byCompletion []Raw) {
	out := gather(ctx, thunks)

	ordered = make([]Raw, len(thunks))
	byCompletion = make([]Raw, 0, len(thunks))
	var panicked *try.PanicError
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
	}

	try.Repanic(panicked)
	return ordered, byCompletion
}

// ValidateShape is the generic error-accumulating body: every thunk runs
// concurrently, nothing short-circuits, and the combined outcome is either
// every success or every failure, both in input order. byCompletion
// carries the raws in completion order for log merging.
func ValidateShape[M, Raw, RawOut, T any](
	thunks []Thunk[Raw],
	extract func(Raw) mo.Result[T],
	combineOk func(values []T, byCompletion []Raw) RawOut,
	combineErr func(errs []error, byCompletion []Raw) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		ordered, byCompletion := awaitAll(ctx, thunks)

		values := make([]T, 0, len(ordered))
		var errs []error
		for _, raw := range ordered {
			res := extract(raw)
			if res.IsError() {
				errs = append(errs, res.Error())
				continue
			}
			values = append(values, res.MustGet())
		}

		if len(errs) > 0 {
			return combineErr(errs, byCompletion)
		}
		return combineOk(values, byCompletion)
	})
}

// Validate runs all effects concurrently without short-circuiting and
// returns either every success or a [ValidationError] carrying every
// failure in input order.
func Validate[T any](effects ...Effect[T]) Effect[[]T] {
	return ValidateShape(
		thunksOf(effects),
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(values []T, _ []mo.Result[T]) mo.Result[[]T] { return mo.Ok(values) },
		func(errs []error, _ []mo.Result[T]) mo.Result[[]T] {
			return mo.Err[[]T](ValidationError{Errs: errs})
		},
		ShapeOf[[]T]().Wrap,
	)
}

// PartitionShape is the generic partition body: every thunk runs
// concurrently and successes are separated from failures; the aggregate
// itself never fails.
func PartitionShape[M, Raw, RawOut, T any](
	thunks []Thunk[Raw],
	extract func(Raw) mo.Result[T],
	combine func(values []T, errs []error, byCompletion []Raw) RawOut,
	wrap func(Thunk[RawOut]) M,
) M {
	return wrap(func(ctx context.Context) RawOut {
		ordered, byCompletion := awaitAll(ctx, thunks)

		var values []T
		var errs []error
		for _, raw := range ordered {
			res := extract(raw)
			if res.IsError() {
				errs = append(errs, res.Error())
				continue
			}
			values = append(values, res.MustGet())
		}
		return combine(values, errs, byCompletion)
	})
}

// Partitioned holds the separated outcomes of [Partition].
type Partitioned[T any] struct {
	Values []T
	Errs   []error
}

// Partition runs all effects concurrently and separates successes from
// failures, each in input order. It never fails.
func Partition[T any](effects ...Effect[T]) Effect[Partitioned[T]] {
	return PartitionShape(
		thunksOf(effects),
		func(r mo.Result[T]) mo.Result[T] { return r },
		func(values []T, errs []error, _ []mo.Result[T]) mo.Result[Partitioned[T]] {
			return mo.Ok(Partitioned[T]{Values: values, Errs: errs})
		},
		ShapeOf[Partitioned[T]]().Wrap,
	)
}
