// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	t.Run("will collect values in input order", func(t *testing.T) {
		t.Run("even if effects complete out of order", func(t *testing.T) {
			e := Parallel(
				sleeper(1, 50*time.Millisecond),
				sleeper(2, 10*time.Millisecond),
				sleeper(3, 30*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.True(t, res.IsOk()) {
				return
			}
			if !assert.Equal(t, []int{1, 2, 3}, res.MustGet()) {
				return
			}
		})
	})

	t.Run("will fail with the first failure to arrive", func(t *testing.T) {
		t.Run("if multiple effects fail", func(t *testing.T) {
			first := errors.New("first")
			e := Parallel(
				failAfter(errors.New("slow"), 100*time.Millisecond),
				failAfter(first, 10*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), first) {
				return
			}
		})
	})
}

func TestZip(t *testing.T) {
	t.Run("will pair the values", func(t *testing.T) {
		t.Run("if both effects succeed", func(t *testing.T) {
			e := Zip(Pure(2), Pure("two"))

			res := e.Run(context.Background())
			if !assert.True(t, res.IsOk()) {
				return
			}

			pair := res.MustGet()
			if !assert.Equal(t, 2, pair.A) {
				return
			}
			if !assert.Equal(t, "two", pair.B) {
				return
			}
		})
	})

	t.Run("will fail", func(t *testing.T) {
		t.Run("if either effect fails", func(t *testing.T) {
			failure := errors.New("boom")
			e := Zip(Pure(2), Fail[string](failure))

			res := e.Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), failure) {
				return
			}
		})
	})
}
