// Package trace records one OpenTelemetry span per request.
package trace

import (
	"context"
	"fmt"
	"sync"

	"researchctl/internal/lifecycle"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// RequestTracer implements lifecycle.Observer and turns each request into a span.
type RequestTracer struct {
	tracer oteltrace.Tracer

	mu    sync.Mutex
	spans map[string]oteltrace.Span // element key → open span
}

// Ensure RequestTracer implements lifecycle.Observer.
var _ lifecycle.Observer = (*RequestTracer)(nil)

// NewRequestTracer creates a RequestTracer that records through tracer.
func NewRequestTracer(tracer oteltrace.Tracer) *RequestTracer {
	return &RequestTracer{
		tracer: tracer,
		spans:  make(map[string]oteltrace.Span),
	}
}

// OnStart opens a span. A span still open for the same element is ended as superseded.
func (r *RequestTracer) OnStart(elt lifecycle.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := spanKey(elt)
	if prev, ok := r.spans[key]; ok {
		prev.SetAttributes(attribute.Bool(attributeKey("superseded"), true))
		prev.End()
	}

	_, span := r.tracer.Start(
		context.Background(),
		"POST "+elt.Path,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String(attributeKey("element_id"), elt.ID),
			attribute.String(attributeKey("path"), elt.Path),
		),
	)
	r.spans[key] = span
}

// OnSuccess ends the span with an Ok status.
func (r *RequestTracer) OnSuccess(elt lifecycle.Element, resp lifecycle.Response) {
	span := r.take(elt)
	if span == nil {
		return
	}
	span.SetAttributes(responseAttributes(resp)...)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// OnError ends the span with an Error status carrying the HTTP status.
func (r *RequestTracer) OnError(elt lifecycle.Element, resp lifecycle.Response) {
	span := r.take(elt)
	if span == nil {
		return
	}
	span.SetAttributes(responseAttributes(resp)...)
	span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.Status))
	span.End()
}

// OnNetworkError records err and ends the span.
func (r *RequestTracer) OnNetworkError(elt lifecycle.Element, err error) {
	span := r.take(elt)
	if span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// OnSignal adds an event to the open span. Signals after the span ended are dropped.
func (r *RequestTracer) OnSignal(elt lifecycle.Element, sig lifecycle.Signal) {
	r.mu.Lock()
	span, ok := r.spans[spanKey(elt)]
	r.mu.Unlock()
	if !ok {
		return
	}
	span.AddEvent(sig.String())
}

// take removes and returns the open span for elt, or nil.
func (r *RequestTracer) take(elt lifecycle.Element) oteltrace.Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := spanKey(elt)
	span, ok := r.spans[key]
	if !ok {
		return nil
	}
	delete(r.spans, key)
	return span
}

func spanKey(elt lifecycle.Element) string {
	if elt.ID != "" {
		return elt.ID
	}
	return elt.Path
}

func responseAttributes(resp lifecycle.Response) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(attributeKey("status"), resp.Status),
		attribute.Int(attributeKey("body_bytes"), len(resp.Body)),
		attribute.String(attributeKey("content_type"), resp.ContentType),
	}
}

// attributeKey maps short names into the researchctl.* namespace.
func attributeKey(k string) string {
	switch k {
	case "element_id":
		return "researchctl.element.id"
	case "path":
		return "researchctl.http.path"
	case "status":
		return "researchctl.http.status_code"
	case "body_bytes":
		return "researchctl.http.response_bytes"
	case "content_type":
		return "researchctl.http.content_type"
	default:
		return "researchctl." + k
	}
}
