package kite

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for kite hosts.
const defaultTracerName = "kite"

// startInstanceSpan opens the span covering an instance's lifetime.
func (h *Host) startInstanceSpan(in *Instance) (context.Context, trace.Span) {
	parent := h.base
	if in.parent != nil {
		parent = trace.ContextWithSpan(parent, in.parent.span)
	}
	return h.tracer.Start(parent, "kite.instance "+in.def.name,
		trace.WithAttributes(
			attribute.String("kite.component", in.def.name),
			attribute.Int64("kite.instance_id", int64(in.id)),
		),
	)
}

// endInstanceSpan closes the instance span with its final state.
func (h *Host) endInstanceSpan(in *Instance, state State, err error) {
	in.span.SetAttributes(attribute.String("kite.state", state.String()))
	if err != nil && state == StateFailed {
		in.span.RecordError(err)
		in.span.SetStatus(codes.Error, err.Error())
	}
	in.span.End()
}
