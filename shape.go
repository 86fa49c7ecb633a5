// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"time"

	"github.com/samber/mo"
)

// Thunk is the raw form of an effect: a context aware action producing
// some representation Raw of an outcome. For a plain [Effect] Raw is
// mo.Result[T]; for the writer variant it is the outcome paired with its
// log.
type Thunk[Raw any] func(ctx context.Context) Raw

// Shape adapts a combinator body, written purely in terms of mo.Result, to
// one concrete effect shape M. Extract reads the outcome out of a raw
// value and Wrap turns a raw thunk back into M. Every *Shape combinator in
// this package is implemented once against Shape and reused by both the
// plain and the log accumulating effect, so control logic is never
// duplicated per shape.
type Shape[M, Raw, T any] struct {
	Extract func(Raw) mo.Result[T]
	Wrap    func(Thunk[Raw]) M
}

// ShapeOf returns the Shape of the plain Effect: Extract is the identity
// and Wrap is the Effect constructor.
func ShapeOf[T any]() Shape[Effect[T], mo.Result[T], T] {
	return Shape[Effect[T], mo.Result[T], T]{
		Extract: func(r mo.Result[T]) mo.Result[T] { return r },
		Wrap:    func(t Thunk[mo.Result[T]]) Effect[T] { return Effect[T](t) },
	}
}

// Thunk exposes the effect in its raw form for use with *Shape combinators.
func (e Effect[T]) Thunk() Thunk[mo.Result[T]] {
	return Thunk[mo.Result[T]](e)
}

// sleep waits for d or until ctx is done, reporting whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
