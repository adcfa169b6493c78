package status

import (
	"errors"
	"testing"

	"researchctl/internal/lifecycle"

	"github.com/stretchr/testify/assert"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", 404, `{"error":"Not found"}`, "Not found"},
		{"message field", 400, `{"message":"Bad topic"}`, "Bad topic"},
		{"error preferred over message", 422, `{"error":"first","message":"second"}`, "first"},
		{"empty error falls to message", 422, `{"error":"","message":"second"}`, "second"},
		{"no known fields", 500, `{"detail":"x"}`, "HTTP 500 error"},
		{"unparseable body", 500, `<html>Internal Server Error</html>`, "HTTP 500 error"},
		{"empty body", 502, ``, "HTTP 502 error"},
		{"json array", 500, `["x"]`, "HTTP 500 error"},
		{"object error", 500, `{"error":{"code":1}}`, "HTTP 500 error"},
		{"numeric error", 500, `{"error":42}`, "42"},
		{"false error falls to message", 500, `{"error":false,"message":"disk full"}`, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := lifecycle.Response{Status: tt.status, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, ClassifyResponse(resp))
		})
	}
}

func TestClassify(t *testing.T) {
	text, failed := Classify(nil, errors.New("connection refused"))
	assert.True(t, failed)
	assert.Equal(t, TextNetworkError, text)

	text, failed = Classify(&lifecycle.Response{Status: 404, Body: []byte(`{"error":"Not found"}`)}, nil)
	assert.True(t, failed)
	assert.Equal(t, "Not found", text)

	text, failed = Classify(&lifecycle.Response{Status: 200}, errors.New("unexpected EOF"))
	assert.True(t, failed)
	assert.Equal(t, TextLoadFailed, text)

	text, failed = Classify(&lifecycle.Response{Status: 200}, nil)
	assert.False(t, failed)
	assert.Empty(t, text)
}

func TestSignalText(t *testing.T) {
	assert.Equal(t, "Loading error occurred", SignalText(lifecycle.SignalBeforeOnLoadError))
	assert.Equal(t, "Failed to load response", SignalText(lifecycle.SignalAfterOnLoadError))
	assert.Equal(t, "Swap error occurred", SignalText(lifecycle.SignalBeforeSwapError))
	assert.Equal(t, "Failed to update content", SignalText(lifecycle.SignalAfterSwapError))
}
