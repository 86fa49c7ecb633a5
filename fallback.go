// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
)

// FallbackShape is the generic fallback body: primary runs first and its
// raw value is returned on success; otherwise secondary runs and its raw
// value is returned regardless of outcome.
func FallbackShape[M, Raw, T any](primary, secondary Thunk[Raw], sh Shape[M, Raw, T]) M {
	return sh.Wrap(func(ctx context.Context) Raw {
		raw := primary(ctx)
		if sh.Extract(raw).IsOk() {
			return raw
		}
		return secondary(ctx)
	})
}

// FallbackChainShape generalizes fallback to any number of branches, tried
// in order until one succeeds. The last branch's raw value is returned
// when all fail.
func FallbackChainShape[M, Raw, T any](thunks []Thunk[Raw], sh Shape[M, Raw, T]) M {
	if len(thunks) == 0 {
		panic("effect: fallback chain requires at least one effect")
	}
	return sh.Wrap(func(ctx context.Context) Raw {
		var raw Raw
		for _, t := range thunks {
			raw = t(ctx)
			if sh.Extract(raw).IsOk() {
				return raw
			}
		}
		return raw
	})
}

// Fallback executes primary and, if it fails, executes secondary and
// returns its outcome whatever it is.
func Fallback[T any](primary, secondary Effect[T]) Effect[T] {
	return FallbackShape(primary.Thunk(), secondary.Thunk(), ShapeOf[T]())
}

// FallbackChain tries each effect in order until one succeeds, returning
// the last failure if none does.
func FallbackChain[T any](effects ...Effect[T]) Effect[T] {
	return FallbackChainShape(thunksOf(effects), ShapeOf[T]())
}
