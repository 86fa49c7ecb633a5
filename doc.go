// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package effect provides lazy, re-runnable, fallible computations and a
// set of control-flow combinators (retry, timeout, race, fallback, bounded
// batching, rate limiting, circuit breaking) for composing them into
// request pipelines that survive partial failure.
//
// An [Effect] does nothing until it is executed with a [context.Context],
// and executing it again re-runs it from scratch. Combinators never mutate
// an Effect; they always return a new one wrapping the old. The outcome of
// an execution is a [mo.Result], never a panic, except for defects in
// caller supplied functions which are allowed to propagate.
//
// Combinator bodies are written once against the extract/wrap framework in
// [Shape] and reused by every effect shape, including the log accumulating
// variant in the writer subpackage.
package effect
