// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package try carries panics across goroutine boundaries. Combinators that
// start branch goroutines use it so a defect in a caller supplied function
// resurfaces on the goroutine that executed the combinator instead of
// crashing the process from an unrelated stack.
package try

import (
	"fmt"
)

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

func (e PanicError) Unwrap() error {
	err, ok := e.Value.(error)
	if !ok {
		return nil
	}
	return err
}

// Capture runs f and converts a panic inside it into a *PanicError. A nil
// return means f completed normally.
func Capture(f func()) (perr *PanicError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if p, ok := r.(*PanicError); ok {
			perr = p
			return
		}
		perr = &PanicError{Value: r}
	}()

	f()
	return nil
}

// Repanic re-raises a captured panic on the calling goroutine. It is a
// no-op for nil.
func Repanic(perr *PanicError) {
	if perr == nil {
		return
	}
	panic(perr)
}
