// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package saga builds compensating-action chains on top of the writer
// shape. Each successful step records how to undo itself in the log; when
// a later step fails the accumulated log is replayed in reverse to roll
// the completed work back.
package saga

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tesserae-labs/effect"
	"github.com/tesserae-labs/effect/internal/slogfield"
	"github.com/tesserae-labs/effect/writer"
)

// Compensator undoes one completed step. Compensators run for their side
// effects only.
type Compensator = effect.Effect[effect.Unit]

// CompensateFunc lifts a plain host action into a [Compensator].
func CompensateFunc(f func(context.Context) error) Compensator {
	return effect.Func(func(ctx context.Context) (effect.Unit, error) {
		return effect.Unit{}, f(ctx)
	})
}

// Entry records a completed step together with the action that undoes it.
type Entry struct {
	Name       string
	Compensate Compensator
}

// Step runs action and, on success, records name and compensate in the
// saga log. A failed action records nothing: there is no completed work
// to undo. Steps chain with [Then]; the log entries accumulated along the
// chain are the compensators for everything completed so far.
func Step[T any](name string, action effect.Effect[T], compensate Compensator) writer.Logged[T, Entry] {
	return func(ctx context.Context) writer.Result[T, Entry] {
		res := action.Run(ctx)
		if res.IsError() {
			return writer.Err[T, Entry](res.Error(), nil)
		}
		return writer.Ok(res.MustGet(), writer.LogOf(Entry{Name: name, Compensate: compensate}))
	}
}

// Pure lifts a value into a saga with no compensating entry.
func Pure[T any](v T) writer.Logged[T, Entry] {
	return writer.Pure[T, Entry](v)
}

// Then chains sagas; see [writer.Then]. On failure the log of completed
// entries is kept so [Rollback] can undo them.
func Then[T, U any](s writer.Logged[T, Entry], f func(T) writer.Logged[U, Entry]) writer.Logged[U, Entry] {
	return writer.Then(s, f)
}

// Rollback runs the compensators recorded in log in reverse order. Every
// compensator runs even if an earlier one fails; the failures are joined
// into the returned error.
func Rollback(ctx context.Context, log writer.Log[Entry], logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	errs := make([]error, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		entry := log[i]
		logger.InfoContext(ctx, "compensating step", slogfield.String("step", entry.Name))

		res := entry.Compensate.Run(ctx)
		if res.IsError() {
			logger.ErrorContext(ctx, "failed to compensate step",
				slogfield.String("step", entry.Name),
				slogfield.Error(res.Error()),
			)
			errs = append(errs, res.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// Run executes the saga and, on failure, rolls back the completed steps
// before returning. Rollback runs under a context that survives
// cancellation of ctx so compensation is not cut short by the very
// cancellation that failed the saga. Compensation failures are joined
// onto the saga's own error.
func Run[T any](ctx context.Context, s writer.Logged[T, Entry], logger *slog.Logger) (T, error) {
	r := s.Run(ctx)
	if r.Res.IsOk() {
		return r.Res.MustGet(), nil
	}

	var zero T
	err := r.Res.Error()
	if rerr := Rollback(context.WithoutCancel(ctx), r.Log, logger); rerr != nil {
		err = errors.Join(err, rerr)
	}
	return zero, err
}
