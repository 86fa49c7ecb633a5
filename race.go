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

type branch[Raw any] struct {
	raw      Raw
	panicked *try.PanicError
}

func spawn[Raw any](ctx context.Context, thunks []Thunk[Raw]) <-chan branch[Raw] {
	out := make(chan branch[Raw], len(thunks))
	for _, t := range thunks {
		t := t
		go func() {
			var b branch[Raw]
			b.panicked = try.Capture(func() {
				b.raw = t(ctx)
			})
			out <- b
		}()
	}
	return out
}

// RaceShape is the generic race body: all thunks start concurrently and
// the raw value of whichever finishes first is returned, success or
// failure. Losing branches have their context cancelled.
func RaceShape[M, Raw any](thunks []Thunk[Raw], wrap func(Thunk[Raw]) M) M {
	if len(thunks) == 0 {
		panic("effect: race requires at least one effect")
	}
	return wrap(func(ctx context.Context) Raw {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		b := <-spawn(cctx, thunks)
		try.Repanic(b.panicked)
		return b.raw
	})
}

// Race executes all effects concurrently and returns the outcome of the
// first to finish; the rest are cancelled.
func Race[T any](effects ...Effect[T]) Effect[T] {
	return RaceShape(thunksOf(effects), ShapeOf[T]().Wrap)
}

// RaceOkShape is the generic race-first-success body. The first branch to
// succeed wins; when every branch fails the surfaced failure follows
// policy.ErrorStrategy. With CancelPending the remaining branches are
// cancelled as soon as a winner is known, otherwise they run to completion
// on the parent context.
func RaceOkShape[M, Raw, T any](thunks []Thunk[Raw], sh Shape[M, Raw, T], policy RaceOkPolicy) M {
	if len(thunks) == 0 {
		panic("effect: raceOk requires at least one effect")
	}
	return sh.Wrap(func(ctx context.Context) Raw {
		branchCtx := ctx
		if policy.CancelPending {
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			branchCtx = cctx
		}

		out := spawn(branchCtx, thunks)

		var firstErr, lastErr Raw
		seenErr := false
		for range thunks {
			b := <-out
			try.Repanic(b.panicked)

			if sh.Extract(b.raw).IsOk() {
				return b.raw
			}
			if !seenErr {
				firstErr = b.raw
				seenErr = true
			}
			lastErr = b.raw
		}

		if policy.ErrorStrategy == FirstError {
			return firstErr
		}
		return lastErr
	})
}

// RaceOk executes all effects concurrently and returns the first success.
// Failures of losing branches are never surfaced unless every branch
// fails.
func RaceOk[T any](policy RaceOkPolicy, effects ...Effect[T]) Effect[T] {
	return RaceOkShape(thunksOf(effects), ShapeOf[T](), policy)
}

func thunksOf[T any](effects []Effect[T]) []Thunk[mo.Result[T]] {
	thunks := make([]Thunk[mo.Result[T]], len(effects))
	for i, e := range effects {
		thunks[i] = e.Thunk()
	}
	return thunks
}
