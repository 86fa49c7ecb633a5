// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/lo"
)

// BestOf executes e n times concurrently, discards failures and returns
// the success with the highest key. If every run fails the first failure
// is returned.
func BestOf[T any](e Effect[T], n int, key func(T) float64) Effect[T] {
	return BestOfMany(Replicate(e, n), key)
}

// BestOfMany is [BestOf] over heterogeneous candidate effects.
func BestOfMany[T any](candidates []Effect[T], key func(T) float64) Effect[T] {
	if len(candidates) == 0 {
		panic("effect: bestOf requires at least one effect")
	}
	return Then(Partition(candidates...), func(p Partitioned[T]) Effect[T] {
		if len(p.Values) == 0 {
			return Fail[T](p.Errs[0])
		}
		best := lo.MaxBy(p.Values, func(a, b T) bool {
			return key(a) > key(b)
		})
		return Pure(best)
	})
}

// Vote executes all candidates concurrently, collects the successful
// values and delegates winner selection to judge (majority, weighted,
// model-as-judge and so on). If no candidate succeeds the first failure is
// returned.
func Vote[T any](candidates []Effect[T], judge func(context.Context, []T) (T, error)) Effect[T] {
	if len(candidates) == 0 {
		panic("effect: vote requires at least one effect")
	}
	return Then(Partition(candidates...), func(p Partitioned[T]) Effect[T] {
		if len(p.Values) == 0 {
			return Fail[T](p.Errs[0])
		}
		return Func(func(ctx context.Context) (T, error) {
			return judge(ctx, p.Values)
		})
	})
}
