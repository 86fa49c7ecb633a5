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

func sleeper(v int, d time.Duration) Effect[int] {
	return Func(func(ctx context.Context) (int, error) {
		select {
		case <-time.After(d):
			return v, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
}

func failAfter(err error, d time.Duration) Effect[int] {
	return Func(func(ctx context.Context) (int, error) {
		select {
		case <-time.After(d):
			return 0, err
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
}

func TestRace(t *testing.T) {
	t.Run("will return the first outcome", func(t *testing.T) {
		t.Run("if it is a success", func(t *testing.T) {
			e := Race(
				sleeper(1, 10*time.Millisecond),
				sleeper(2, 500*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.True(t, res.IsOk()) {
				return
			}
			if !assert.Equal(t, 1, res.MustGet()) {
				return
			}
		})

		t.Run("even if it is a failure", func(t *testing.T) {
			failure := errors.New("boom")
			e := Race(
				failAfter(failure, 10*time.Millisecond),
				sleeper(2, 500*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.True(t, res.IsError()) {
				return
			}
			if !assert.ErrorIs(t, res.Error(), failure) {
				return
			}
		})
	})
}

func TestRaceOk(t *testing.T) {
	t.Run("will return the first success", func(t *testing.T) {
		t.Run("if an earlier branch fails", func(t *testing.T) {
			e := RaceOk(
				DefaultRaceOkPolicy(),
				failAfter(errors.New("boom"), 10*time.Millisecond),
				sleeper(2, 50*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.True(t, res.IsOk()) {
				return
			}
			if !assert.Equal(t, 2, res.MustGet()) {
				return
			}
		})
	})

	t.Run("will cancel the pending branches", func(t *testing.T) {
		t.Run("if a branch succeeds and the policy says so", func(t *testing.T) {
			cancelled := make(chan struct{})
			loser := Func(func(ctx context.Context) (int, error) {
				<-ctx.Done()
				close(cancelled)
				return 0, ctx.Err()
			})

			e := RaceOk(DefaultRaceOkPolicy(), sleeper(1, 10*time.Millisecond), loser)

			res := e.Run(context.Background())
			if !assert.Equal(t, 1, res.MustGet()) {
				return
			}

			select {
			case <-cancelled:
			case <-time.After(time.Second):
				assert.Fail(t, "pending branch was never cancelled")
			}
		})
	})

	t.Run("will surface the first failure", func(t *testing.T) {
		t.Run("if every branch fails and the strategy is FirstError", func(t *testing.T) {
			first := errors.New("first")
			last := errors.New("last")
			e := RaceOk(
				RaceOkPolicy{CancelPending: false, ErrorStrategy: FirstError},
				failAfter(first, 10*time.Millisecond),
				failAfter(last, 50*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), first) {
				return
			}
		})
	})

	t.Run("will surface the last failure", func(t *testing.T) {
		t.Run("if every branch fails and the strategy is LastError", func(t *testing.T) {
			first := errors.New("first")
			last := errors.New("last")
			e := RaceOk(
				RaceOkPolicy{CancelPending: false, ErrorStrategy: LastError},
				failAfter(first, 10*time.Millisecond),
				failAfter(last, 50*time.Millisecond),
			)

			res := e.Run(context.Background())
			if !assert.ErrorIs(t, res.Error(), last) {
				return
			}
		})
	})
}
