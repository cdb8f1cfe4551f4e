// Package mcontext threads the logger and tracer through context.Context, the
// way every service-layer call in this engine expects to find them.
package mcontext

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/ledgerd/coreengine/internal/mlog"
)

type customContextKey string

const ctxKey customContextKey = "coreengine-context-values"

// ContextValues bundles everything a command handler pulls out of its context.
type ContextValues struct {
	Logger mlog.Logger
	Tracer trace.Tracer
}

// WithLogger returns a derived context carrying logger.
func WithLogger(ctx context.Context, logger mlog.Logger) context.Context {
	if cv, ok := ctx.Value(ctxKey).(*ContextValues); ok {
		cv.Logger = logger
		return context.WithValue(ctx, ctxKey, cv)
	}

	return context.WithValue(ctx, ctxKey, &ContextValues{Logger: logger})
}

// WithTracer returns a derived context carrying tracer.
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if cv, ok := ctx.Value(ctxKey).(*ContextValues); ok {
		cv.Tracer = tracer
		return context.WithValue(ctx, ctxKey, cv)
	}

	return context.WithValue(ctx, ctxKey, &ContextValues{Tracer: tracer})
}

// Logger returns the context's logger, or a no-op logger if none was set.
//
//nolint:ireturn
func Logger(ctx context.Context) mlog.Logger {
	if cv, ok := ctx.Value(ctxKey).(*ContextValues); ok && cv.Logger != nil {
		return cv.Logger
	}

	return &mlog.NoneLogger{}
}

// Tracer returns the context's tracer, or the global no-op tracer if none was set.
//
//nolint:ireturn
func Tracer(ctx context.Context) trace.Tracer {
	if cv, ok := ctx.Value(ctxKey).(*ContextValues); ok && cv.Tracer != nil {
		return cv.Tracer
	}

	return trace.NewNoopTracerProvider().Tracer("coreengine")
}
