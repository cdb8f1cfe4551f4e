// Package motel wraps the span helpers command handlers use, grounded on
// common/mopentelemetry/otel.go's HandleSpanError pattern, trimmed to the
// parts this engine's handlers actually call (span start is done by callers
// via mcontext.Tracer, this package only standardizes error recording).
package motel

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleSpanError records err on span, sets its status to Error, and attaches
// description as an event. Every command handler calls this on its failure
// paths before returning, so traces carry the same detail the logs do.
func HandleSpanError(span *trace.Span, description string, err error) {
	if span == nil || err == nil {
		return
	}

	(*span).RecordError(err, trace.WithAttributes(attribute.String("error.message", description)))
	(*span).SetStatus(codes.Error, description)
}
