// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package writer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tesserae-labs/effect"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	t.Run("will keep only the returned attempt's log", func(t *testing.T) {
		t.Run("if the effect fails before succeeding", func(t *testing.T) {
			var count atomic.Uint64
			l := Logged[int, string](func(ctx context.Context) Result[int, string] {
				n := count.Add(1)
				if n < 3 {
					return Err[int, string](errors.New("not yet"), LogOf("attempt failed"))
				}
				return Ok(int(n), LogOf("attempt succeeded"))
			})

			r := Retry(l, effect.RetryPolicy{Times: 5}).Run(context.Background())
			if !assert.Equal(t, 3, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"attempt succeeded"}, r.Log) {
				return
			}
		})

		t.Run("if every attempt fails", func(t *testing.T) {
			var count atomic.Uint64
			l := Logged[int, string](func(ctx context.Context) Result[int, string] {
				n := count.Add(1)
				if n == 3 {
					return Err[int, string](errors.New("boom"), LogOf("last"))
				}
				return Err[int, string](errors.New("boom"), LogOf("earlier"))
			})

			r := Retry(l, effect.RetryPolicy{Times: 3}).Run(context.Background())
			if !assert.True(t, r.Res.IsError()) {
				return
			}
			if !assert.Equal(t, Log[string]{"last"}, r.Log) {
				return
			}
		})
	})
}

func TestTimeout(t *testing.T) {
	t.Run("will keep the effect's log", func(t *testing.T) {
		t.Run("if it completes before the deadline", func(t *testing.T) {
			r := Timeout(logged(2, "done"), time.Second).Run(context.Background())
			if !assert.Equal(t, 2, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"done"}, r.Log) {
				return
			}
		})
	})

	t.Run("will report an empty log", func(t *testing.T) {
		t.Run("if the deadline elapses first", func(t *testing.T) {
			slow := Logged[int, string](func(ctx context.Context) Result[int, string] {
				select {
				case <-ctx.Done():
					return Err[int, string](ctx.Err(), LogOf("interrupted"))
				case <-time.After(time.Hour):
					return Ok(2, LogOf("done"))
				}
			})

			r := Timeout(slow, 10*time.Millisecond).Run(context.Background())
			var terr effect.TimeoutError
			if !assert.ErrorAs(t, r.Res.Error(), &terr) {
				return
			}
			if !assert.Empty(t, r.Log) {
				return
			}
		})
	})
}

func TestRaceOk(t *testing.T) {
	t.Run("will keep only the winner's log", func(t *testing.T) {
		t.Run("when a branch succeeds", func(t *testing.T) {
			winner := Logged[int, string](func(ctx context.Context) Result[int, string] {
				return Ok(1, LogOf("winner"))
			})
			loser := Logged[int, string](func(ctx context.Context) Result[int, string] {
				select {
				case <-ctx.Done():
					return Err[int, string](ctx.Err(), LogOf("loser"))
				case <-time.After(time.Hour):
					return Ok(2, LogOf("loser"))
				}
			})

			r := RaceOk(effect.DefaultRaceOkPolicy(), winner, loser).Run(context.Background())
			if !assert.Equal(t, 1, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"winner"}, r.Log) {
				return
			}
		})
	})
}

func TestFallback(t *testing.T) {
	t.Run("will replace the primary's log", func(t *testing.T) {
		t.Run("with the fallback's log", func(t *testing.T) {
			r := Fallback(
				loggedFail(errors.New("boom"), "primary"),
				logged(2, "secondary"),
			).Run(context.Background())
			if !assert.Equal(t, 2, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"secondary"}, r.Log) {
				return
			}
		})
	})
}

func TestBatch(t *testing.T) {
	t.Run("will collect values in input order", func(t *testing.T) {
		t.Run("and merge every branch's log", func(t *testing.T) {
			items := []int{1, 2, 3}
			handler := func(n int) Logged[int, int] {
				return Logged[int, int](func(ctx context.Context) Result[int, int] {
					return Ok(n*10, LogOf(n))
				})
			}

			r := Batch(items, handler, 2).Run(context.Background())
			if !assert.Equal(t, []int{10, 20, 30}, r.Res.MustGet()) {
				return
			}
			if !assert.ElementsMatch(t, Log[int]{1, 2, 3}, r.Log) {
				return
			}
		})
	})

	t.Run("will keep the logs of completed branches", func(t *testing.T) {
		t.Run("if a branch fails", func(t *testing.T) {
			failure := errors.New("boom")
			items := []int{1, 2}
			handler := func(n int) Logged[int, int] {
				return Logged[int, int](func(ctx context.Context) Result[int, int] {
					if n == 2 {
						return Err[int, int](failure, LogOf(n))
					}
					return Ok(n, LogOf(n))
				})
			}

			r := Batch(items, handler, 1).Run(context.Background())
			if !assert.ErrorIs(t, r.Res.Error(), failure) {
				return
			}
			if !assert.Equal(t, Log[int]{1, 2}, r.Log) {
				return
			}
		})
	})
}

func TestParallel(t *testing.T) {
	t.Run("will merge logs in completion order", func(t *testing.T) {
		t.Run("while values stay in input order", func(t *testing.T) {
			slow := Logged[int, string](func(ctx context.Context) Result[int, string] {
				time.Sleep(50 * time.Millisecond)
				return Ok(1, LogOf("slow"))
			})
			fast := Logged[int, string](func(ctx context.Context) Result[int, string] {
				return Ok(2, LogOf("fast"))
			})

			r := Parallel(slow, fast).Run(context.Background())
			if !assert.Equal(t, []int{1, 2}, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"fast", "slow"}, r.Log) {
				return
			}
		})
	})
}

func TestTraverse(t *testing.T) {
	t.Run("will concatenate logs in execution order", func(t *testing.T) {
		t.Run("including the failing branch's log", func(t *testing.T) {
			failure := errors.New("boom")
			handler := func(n int) Logged[int, int] {
				return Logged[int, int](func(ctx context.Context) Result[int, int] {
					if n == 2 {
						return Err[int, int](failure, LogOf(n))
					}
					return Ok(n, LogOf(n))
				})
			}

			r := Traverse([]int{1, 2, 3}, handler).Run(context.Background())
			if !assert.ErrorIs(t, r.Res.Error(), failure) {
				return
			}
			if !assert.Equal(t, Log[int]{1, 2}, r.Log) {
				return
			}
		})
	})
}

func TestFold(t *testing.T) {
	t.Run("will thread the accumulator", func(t *testing.T) {
		t.Run("while concatenating step logs", func(t *testing.T) {
			reducer := func(acc int, n int) Logged[int, int] {
				return Logged[int, int](func(ctx context.Context) Result[int, int] {
					return Ok(acc+n, LogOf(n))
				})
			}

			r := Fold([]int{1, 2, 3}, 0, reducer).Run(context.Background())
			if !assert.Equal(t, 6, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[int]{1, 2, 3}, r.Log) {
				return
			}
		})
	})
}

func TestValidate(t *testing.T) {
	t.Run("will aggregate failures in input order", func(t *testing.T) {
		t.Run("while merging every branch's log", func(t *testing.T) {
			err1 := errors.New("one")
			err2 := errors.New("two")

			r := Validate(
				loggedFail(err1, "first"),
				loggedFail(err2, "second"),
				logged(3, "third"),
			).Run(context.Background())

			var verr effect.ValidationError
			if !assert.ErrorAs(t, r.Res.Error(), &verr) {
				return
			}
			if !assert.Equal(t, []error{err1, err2}, verr.Errs) {
				return
			}
			if !assert.ElementsMatch(t, Log[string]{"first", "second", "third"}, r.Log) {
				return
			}
		})
	})
}

func TestPartition(t *testing.T) {
	t.Run("will separate successes from failures", func(t *testing.T) {
		t.Run("while merging every branch's log", func(t *testing.T) {
			failure := errors.New("boom")

			r := Partition(
				logged(1, "one"),
				loggedFail(failure, "two"),
			).Run(context.Background())
			if !assert.True(t, r.Res.IsOk()) {
				return
			}

			p := r.Res.MustGet()
			if !assert.Equal(t, []int{1}, p.Values) {
				return
			}
			if !assert.Equal(t, []error{failure}, p.Errs) {
				return
			}
			if !assert.ElementsMatch(t, Log[string]{"one", "two"}, r.Log) {
				return
			}
		})
	})
}

func TestRepeatUntil(t *testing.T) {
	t.Run("will keep only the final round's log", func(t *testing.T) {
		t.Run("when the condition is eventually met", func(t *testing.T) {
			var count atomic.Uint64
			l := Logged[int, string](func(ctx context.Context) Result[int, string] {
				n := int(count.Add(1))
				return Ok(n, LogOf("round"))
			})

			r := RepeatUntil(l, func(n int) bool { return n >= 3 }, effect.RepeatPolicy{MaxRounds: 5}).Run(context.Background())
			if !assert.Equal(t, 3, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"round"}, r.Log) {
				return
			}
		})
	})

	t.Run("will report an empty log", func(t *testing.T) {
		t.Run("if the round budget is exhausted", func(t *testing.T) {
			r := RepeatUntil(logged(1, "round"), func(n int) bool { return false }, effect.RepeatPolicy{MaxRounds: 2}).Run(context.Background())

			var cerr effect.ConditionNotMetError
			if !assert.ErrorAs(t, r.Res.Error(), &cerr) {
				return
			}
			if !assert.Equal(t, 2, cerr.Rounds) {
				return
			}
			if !assert.Empty(t, r.Log) {
				return
			}
		})
	})
}

func TestBracket(t *testing.T) {
	t.Run("will concatenate the acquire and use logs", func(t *testing.T) {
		t.Run("and always release", func(t *testing.T) {
			released := false

			r := Bracket(
				logged(1, "acquired"),
				func(n int) Logged[int, string] {
					return loggedFail(errors.New("boom"), "used")
				},
				func(ctx context.Context, n int) { released = true },
			).Run(context.Background())
			if !assert.True(t, r.Res.IsError()) {
				return
			}
			if !assert.Equal(t, Log[string]{"acquired", "used"}, r.Log) {
				return
			}
			if !assert.True(t, released) {
				return
			}
		})
	})

	t.Run("will keep only the acquire log", func(t *testing.T) {
		t.Run("if acquire fails", func(t *testing.T) {
			released := false

			r := Bracket(
				loggedFail(errors.New("no conn"), "acquire failed"),
				func(n int) Logged[int, string] {
					return logged(2, "used")
				},
				func(ctx context.Context, n int) { released = true },
			).Run(context.Background())
			if !assert.True(t, r.Res.IsError()) {
				return
			}
			if !assert.Equal(t, Log[string]{"acquire failed"}, r.Log) {
				return
			}
			if !assert.False(t, released) {
				return
			}
		})
	})
}
