// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// Recover turns any failure of e into a success carrying fallback.
func Recover[T any](e Effect[T], fallback T) Effect[T] {
	return RecoverWith(e, func(error) T { return fallback })
}

// RecoverWith turns any failure of e into a success computed from the
// error by handler. Nothing is recovered implicitly anywhere else in this
// package; this and [Fallback] are the only ways back from an error.
func RecoverWith[T any](e Effect[T], handler func(error) T) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		res := e(ctx)
		if res.IsError() {
			return mo.Ok(handler(res.Error()))
		}
		return res
	}
}
