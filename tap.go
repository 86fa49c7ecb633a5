// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
)

// Tap runs observe on every success value without changing the outcome.
// Use it for logging and metrics, never for control flow.
func Tap[T any](e Effect[T], observe func(T)) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		res := e(ctx)
		if res.IsOk() {
			observe(res.MustGet())
		}
		return res
	}
}

// TapErr runs observe on every failure without changing the outcome.
func TapErr[T any](e Effect[T], observe func(error)) Effect[T] {
	return func(ctx context.Context) mo.Result[T] {
		res := e(ctx)
		if res.IsError() {
			observe(res.Error())
		}
		return res
	}
}
