package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names for document operations.
const (
	SpanSetText    = "document.set_text"
	SpanCheckpoint = "document.checkpoint"
	SpanUndo       = "document.undo"
	SpanRedo       = "document.redo"
	SpanReload     = "document.reload"
)

// Span attribute keys.
const (
	AttrDocumentID   = "document.id"
	AttrDocumentName = "document.name"
	AttrLineCount    = "document.line_count"
	AttrRelexStart   = "relex.start"
	AttrRelexEnd     = "relex.end"
	AttrRelexFull    = "relex.full_rescan"
	AttrHistoryLen   = "history.len"
	AttrHistoryPos   = "history.position"
	AttrChanged      = "document.changed"
)

// Event names for span events.
const (
	EventNoChange    = "document.no_change"
	EventCarryOver   = "relex.carry_over"
	EventPatchStored = "history.patch_stored"
)

// Start begins an internal span named name tagged with the document id.
func Start(ctx context.Context, tracer trace.Tracer, name, documentID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrDocumentID, documentID))
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, sets its status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
