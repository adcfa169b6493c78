package trace

import (
	"context"
	"errors"
	"testing"

	"researchctl/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (*RequestTracer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewRequestTracer(NewProvider(tp).Tracer()), sr
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestRequestTracer_Success(t *testing.T) {
	rt, sr := newRecordingTracer(t)
	elt := lifecycle.Element{ID: "step2-form", Path: "/api/step2"}

	rt.OnStart(elt)
	assert.Len(t, sr.Started(), 1)
	assert.Empty(t, sr.Ended())

	rt.OnSuccess(elt, lifecycle.Response{Status: 200, Body: []byte("<h2>x</h2>"), ContentType: "text/html"})

	ended := sr.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "POST /api/step2", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := attrMap(span.Attributes())
	assert.Equal(t, "step2-form", attrs["researchctl.element.id"].AsString())
	assert.Equal(t, "/api/step2", attrs["researchctl.http.path"].AsString())
	assert.Equal(t, int64(200), attrs["researchctl.http.status_code"].AsInt64())
	assert.Equal(t, int64(10), attrs["researchctl.http.response_bytes"].AsInt64())
}

func TestRequestTracer_ServerError(t *testing.T) {
	rt, sr := newRecordingTracer(t)
	elt := lifecycle.Element{ID: "export-form", Path: "/api/export-pdf"}

	rt.OnStart(elt)
	rt.OnError(elt, lifecycle.Response{Status: 500})

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "HTTP 500", ended[0].Status().Description)
}

func TestRequestTracer_NetworkErrorRecordsException(t *testing.T) {
	rt, sr := newRecordingTracer(t)
	elt := lifecycle.Element{ID: "upload-form", Path: "/api/upload-pdf"}

	rt.OnStart(elt)
	rt.OnSignal(elt, lifecycle.SignalBeforeOnLoadError)
	rt.OnNetworkError(elt, errors.New("unexpected EOF"))
	rt.OnSignal(elt, lifecycle.SignalAfterOnLoadError)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, codes.Error, span.Status().Code)

	var names []string
	for _, ev := range span.Events() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"before-on-load-error", "exception"}, names)
}

func TestRequestTracer_RestartSupersedesOpenSpan(t *testing.T) {
	rt, sr := newRecordingTracer(t)
	elt := lifecycle.Element{ID: "step0-form", Path: "/api/step0"}

	rt.OnStart(elt)
	rt.OnStart(elt)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.True(t, attrMap(ended[0].Attributes())["researchctl.superseded"].AsBool())

	rt.OnSuccess(elt, lifecycle.Response{Status: 200})
	assert.Len(t, sr.Ended(), 2)
}

func TestRequestTracer_EndWithoutStartIsIgnored(t *testing.T) {
	rt, sr := newRecordingTracer(t)
	elt := lifecycle.Element{Path: "/api/step1"}

	assert.NotPanics(t, func() {
		rt.OnSuccess(elt, lifecycle.Response{Status: 200})
		rt.OnSignal(elt, lifecycle.SignalAfterSwapError)
	})
	assert.Empty(t, sr.Ended())
}

func TestProvider_NilIsSafe(t *testing.T) {
	var p *Provider
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewOTLPProvider_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	p, err := NewOTLPProvider(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestAttributeKey(t *testing.T) {
	assert.Equal(t, "researchctl.http.status_code", attributeKey("status"))
	assert.Equal(t, "researchctl.custom", attributeKey("custom"))
}
