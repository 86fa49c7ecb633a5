// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlow(t *testing.T) {
	t.Run("will perform no work", func(t *testing.T) {
		t.Run("before it is compiled and run", func(t *testing.T) {
			var count atomic.Uint64
			f := FlowOf(Func(func(ctx context.Context) (int, error) {
				count.Add(1)
				return 2, nil
			})).Retry(RetryPolicy{Times: 3}).Timeout(time.Second)

			e := f.Compile()
			if !assert.Equal(t, uint64(0), count.Load()) {
				return
			}

			res := e.Run(context.Background())
			if !assert.Equal(t, 2, res.MustGet()) {
				return
			}
			if !assert.Equal(t, uint64(1), count.Load()) {
				return
			}
		})
	})

	t.Run("will record step names", func(t *testing.T) {
		t.Run("in call order", func(t *testing.T) {
			f := FlowOf(Pure(1)).
				Retry(RetryPolicy{Times: 2}).
				Timeout(time.Second).
				Recover(0)

			if !assert.Equal(t, []string{"retry", "timeout", "recover"}, f.Steps()) {
				return
			}
		})
	})

	t.Run("will apply combinators in call order", func(t *testing.T) {
		t.Run("so a later recover sees the earlier failure", func(t *testing.T) {
			f := FlowOf(Fail[int](errors.New("boom"))).
				Retry(RetryPolicy{Times: 2}).
				Recover(7)

			res := f.Run(context.Background())
			if !assert.Equal(t, 7, res.MustGet()) {
				return
			}
		})

		t.Run("so an earlier recover shields the later guard", func(t *testing.T) {
			f := FlowOf(Fail[int](errors.New("boom"))).
				Recover(7).
				Ensure(func(n int) bool { return n == 7 }, func(n int) error {
					return errors.New("unexpected value")
				})

			res := f.Run(context.Background())
			if !assert.Equal(t, 7, res.MustGet()) {
				return
			}
		})
	})

	t.Run("will leave the original flow untouched", func(t *testing.T) {
		t.Run("when it is extended down two branches", func(t *testing.T) {
			base := FlowOf(Fail[int](errors.New("boom")))
			recovered := base.Recover(1)
			other := base.Recover(2)

			if !assert.Equal(t, 1, recovered.Run(context.Background()).MustGet()) {
				return
			}
			if !assert.Equal(t, 2, other.Run(context.Background()).MustGet()) {
				return
			}
			if !assert.Empty(t, base.Steps()) {
				return
			}
		})
	})

	t.Run("will race against rivals", func(t *testing.T) {
		t.Run("returning the first success", func(t *testing.T) {
			f := FlowOf(failAfter(errors.New("boom"), 10*time.Millisecond)).
				RaceOk(DefaultRaceOkPolicy(), sleeper(2, 30*time.Millisecond))

			res := f.Run(context.Background())
			if !assert.Equal(t, 2, res.MustGet()) {
				return
			}
		})
	})
}
