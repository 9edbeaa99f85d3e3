package vars

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracer mirrors the teacher's pkg/middleware/otel.go: one named tracer
// fetched from the global otel provider, used for every span this package
// emits. A host application that wires a real TracerProvider sees drain
// and animation-tick latency show up next to its own HTTP spans; with no
// provider configured these are cheap no-op spans.
var tracer = otel.Tracer("github.com/zng-ui/zvar/pkg/vars")

// span wraps a trace.Span so callers can `defer span.End()` without
// threading a context.Context through the scheduler's internals.
type span struct {
	s trace.Span
}

func (s span) End() { s.s.End() }

func tracingStartDrain(a *App) span {
	_, s := tracer.Start(context.Background(), "vars.drain",
		trace.WithAttributes(attribute.Int64("vars.update_id", int64(a.UpdateID()))))
	return span{s: s}
}

func tracingStartAnimTick(a *App) span {
	_, s := tracer.Start(context.Background(), "vars.animation_tick")
	return span{s: s}
}
