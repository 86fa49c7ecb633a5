// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package writer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tesserae-labs/effect"

	"github.com/stretchr/testify/assert"
)

func TestFlow(t *testing.T) {
	t.Run("will record step names", func(t *testing.T) {
		t.Run("in call order", func(t *testing.T) {
			f := FlowOf(logged(1, "base")).
				Retry(effect.RetryPolicy{Times: 2}).
				Timeout(time.Second).
				WithLog("done")

			if !assert.Equal(t, []string{"retry", "timeout", "with_log"}, f.Steps()) {
				return
			}
		})
	})

	t.Run("will apply combinators in call order", func(t *testing.T) {
		t.Run("when compiled and run", func(t *testing.T) {
			f := FlowOf(logged(2, "base")).
				WithLog("after").
				Censor(func(log Log[string]) Log[string] {
					kept := make(Log[string], 0, len(log))
					for _, entry := range log {
						if entry == "after" {
							continue
						}
						kept = append(kept, entry)
					}
					return kept
				})

			r := f.Run(context.Background())
			if !assert.Equal(t, 2, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"base"}, r.Log) {
				return
			}
		})
	})

	t.Run("will fall back to the alternative", func(t *testing.T) {
		t.Run("if the base effect fails", func(t *testing.T) {
			f := FlowOf(loggedFail(errors.New("boom"), "primary")).
				Fallback(logged(7, "secondary"))

			r := f.Run(context.Background())
			if !assert.Equal(t, 7, r.Res.MustGet()) {
				return
			}
			if !assert.Equal(t, Log[string]{"secondary"}, r.Log) {
				return
			}
		})
	})
}
