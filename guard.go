// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// Ensure fails the effect when a success value does not satisfy the
// predicate. errFn builds the error from the rejected value.
func Ensure[T any](e Effect[T], predicate func(T) bool, errFn func(T) error) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		res := e(ctx)
		if res.IsError() {
			return res
		}
		v := res.MustGet()
		if !predicate(v) {
			return mo.Err[T](errFn(v))
		}
		return res
	}
}

// Reject is the inverse of [Ensure]: the effect fails when the predicate
// holds.
func Reject[T any](e Effect[T], predicate func(T) bool, errFn func(T) error) Effect[T] {
	return Ensure(e, func(v T) bool { return !predicate(v) }, errFn)
}
