// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError is returned by [Timeout] when the wrapped effect does not
// complete before the deadline. Match it with errors.As.
type TimeoutError struct {
	After time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s", e.After)
}

// ConditionNotMetError is returned by [RepeatUntil] when the round budget
// is exhausted without the condition being satisfied.
type ConditionNotMetError struct {
	Rounds int
}

func (e ConditionNotMetError) Error() string {
	return fmt.Sprintf("condition not met after %d rounds", e.Rounds)
}

// ValidationError aggregates every failure observed by [Validate], in
// input order. It unwraps to the individual errors so errors.Is and
// errors.As see through it.
type ValidationError struct {
	Errs []error
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation failures: %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e ValidationError) Unwrap() []error {
	return e.Errs
}
