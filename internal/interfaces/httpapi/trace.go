package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("hr-admin/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler entry points of traced requests.
// Helpers and middleware get a no-op span. Spans opened behind RequireAuth
// carry the caller's id and role.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noopSpan
	}

	var opts []trace.SpanStartOption
	if p, ok := principalFromContext(ctx); ok {
		opts = append(opts, trace.WithAttributes(
			attribute.String("enduser.id", p.UserID),
			attribute.String("enduser.role", string(p.Role)),
		))
	}
	return apiTracer.Start(ctx, name, opts...)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
