// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraverse(t *testing.T) {
	t.Run("will run handlers strictly in order", func(t *testing.T) {
		t.Run("collecting every value", func(t *testing.T) {
			var order []int
			handler := func(n int) Effect[int] {
				return Func(func(ctx context.Context) (int, error) {
					order = append(order, n)
					return n * 10, nil
				})
			}

			res := Traverse([]int{1, 2, 3}, handler).Run(context.Background())
			if !assert.Equal(t, []int{10, 20, 30}, res.MustGet()) {
				return
			}
			if !assert.Equal(t, []int{1, 2, 3}, order) {
				return
			}
		})
	})

	t.Run("will short-circuit", func(t *testing.T) {
		t.Run("on the first failure", func(t *testing.T) {
			failure := errors.New("boom")
			var ran []int
			handler := func(n int) Effect[int] {
				return Func(func(ctx context.Context) (int, error) {
					ran = append(ran, n)
					if n == 2 {
						return 0, failure
					}
					return n, nil
				})
			}

			res := Traverse([]int{1, 2, 3}, handler).Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), failure) {
				return
			}
			if !assert.Equal(t, []int{1, 2}, ran) {
				return
			}
		})
	})
}

func TestSequence(t *testing.T) {
	t.Run("will flip a slice of effects", func(t *testing.T) {
		t.Run("into an effect of a slice", func(t *testing.T) {
			res := Sequence([]Effect[int]{Pure(1), Pure(2), Pure(3)}).Run(context.Background())
			if !assert.Equal(t, []int{1, 2, 3}, res.MustGet()) {
				return
			}
		})
	})
}

func TestFold(t *testing.T) {
	t.Run("will thread the accumulator", func(t *testing.T) {
		t.Run("through every reduction step", func(t *testing.T) {
			reducer := func(acc int, n int) Effect[int] {
				return Pure(acc + n)
			}

			res := Fold([]int{1, 2, 3, 4}, 0, reducer).Run(context.Background())
			if !assert.Equal(t, 10, res.MustGet()) {
				return
			}
		})
	})

	t.Run("will short-circuit", func(t *testing.T) {
		t.Run("on the first failing step", func(t *testing.T) {
			failure := errors.New("boom")
			var steps int
			reducer := func(acc int, n int) Effect[int] {
				return Func(func(ctx context.Context) (int, error) {
					steps++
					if n == 3 {
						return 0, failure
					}
					return acc + n, nil
				})
			}

			res := Fold([]int{1, 2, 3, 4}, 0, reducer).Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), failure) {
				return
			}
			if !assert.Equal(t, 3, steps) {
				return
			}
		})
	})
}

func TestReplicate(t *testing.T) {
	t.Run("will return n copies", func(t *testing.T) {
		t.Run("which all run the same effect", func(t *testing.T) {
			copies := Replicate(Pure(2), 3)
			if !assert.Len(t, copies, 3) {
				return
			}
			for _, c := range copies {
				if !assert.Equal(t, 2, c.Run(context.Background()).MustGet()) {
					return
				}
			}
		})
	})
}
