// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tesserae-labs/effect"
)

// UnexpectedStatusError reports a response whose status code failed the
// configured expectation. Match it with errors.As.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected http status code: %d", e.StatusCode)
}

type doOptions struct {
	acceptStatus func(int) bool
}

type DoOption func(*doOptions)

// ExpectStatus fails the effect with an [UnexpectedStatusError] when the
// response status is not one of codes. The response body is closed on
// rejection.
func ExpectStatus(codes ...int) DoOption {
	accepted := map[int]struct{}{}
	for _, code := range codes {
		accepted[code] = struct{}{}
	}
	return func(do *doOptions) {
		do.acceptStatus = func(code int) bool {
			_, ok := accepted[code]
			return ok
		}
	}
}

// AcceptStatusIf overrides the status expectation with a predicate.
func AcceptStatusIf(f func(int) bool) DoOption {
	return func(do *doOptions) {
		do.acceptStatus = f
	}
}

// Do lifts a request execution into an effect. newRequest is invoked per
// execution with the effect's context so retried or raced executions each
// construct a fresh, context bound request. The caller owns the response
// body of a successful outcome.
func Do(c *http.Client, newRequest func(context.Context) (*http.Request, error), opts ...DoOption) effect.Effect[*http.Response] {
	do := &doOptions{
		acceptStatus: func(int) bool { return true },
	}
	for _, opt := range opts {
		opt(do)
	}

	return effect.Func(func(ctx context.Context) (*http.Response, error) {
		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.Do(req)
		if err != nil {
			return nil, err
		}
		if !do.acceptStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, UnexpectedStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

// Get lifts a GET of url into an effect.
func Get(c *http.Client, url string, opts ...DoOption) effect.Effect[*http.Response] {
	return Do(c, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, opts...)
}

// GetJSON lifts a GET of url into an effect which decodes the response
// body as JSON into T. The body is always closed.
func GetJSON[T any](c *http.Client, url string, opts ...DoOption) effect.Effect[T] {
	return effect.Then(Get(c, url, opts...), func(resp *http.Response) effect.Effect[T] {
		return effect.Func(func(context.Context) (T, error) {
			defer resp.Body.Close()

			var v T
			if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
				return v, err
			}
			return v, nil
		})
	})
}
