// Copyright (c) 2025 Tesserae Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package effect

import (
	"context"

	"github.com/samber/mo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Traced wraps e in an OpenTelemetry span named name. The span records the
// run outcome: failures are recorded on the span and flip its status to Error.
// The effect runs with the span context so nested traced effects nest their
// spans under it.
func Traced[T any](e Effect[T], name string, opts ...trace.SpanStartOption) Effect[T] {
	tracer := otel.Tracer("effect")

	return func(ctx context.Context) mo.Result[T] {
		spanCtx, span := tracer.Start(ctx, name, opts...)
		defer span.End()

		res := e.Run(spanCtx)
		if res.IsError() {
			span.RecordError(res.Error())
			span.SetStatus(codes.Error, res.Error().Error())
		}
		return res
	}
}
