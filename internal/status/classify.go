package status

import (
	"bytes"
	"fmt"

	"researchctl/internal/jsonutil"
	"researchctl/internal/lifecycle"
)

// User-facing status texts.
const (
	TextStarting           = "Starting execution..."
	TextExecuting          = "Executing..."
	TextProcessingPDF      = "Processing PDF..."
	TextGenericError       = "An error occurred during execution"
	TextNetworkError       = "Network error - please check your connection"
	TextSlowRequest        = "Request is taking longer than expected"
	TextNoConnection       = "No internet connection"
	TextConnectionLost     = "Internet connection lost"
	TextConnectionRestored = "Connection restored - continuing..."
	TextExportSucceeded    = "PDF report generated successfully!"
	TextLoadFailed         = "Failed to load response"
)

// ClassifyResponse extracts the message for an error response. The JSON body's
// "error" field wins, then "message"; anything else falls back to the status.
func ClassifyResponse(resp lifecycle.Response) string {
	fallback := fmt.Sprintf("HTTP %d error", resp.Status)
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return fallback
	}
	obj, err := jsonutil.UnmarshalObject(resp.Body, "error response")
	if err != nil {
		return fallback
	}
	if msg, ok := jsonutil.FirstScalar(obj, "error", "message"); ok {
		return msg
	}
	return fallback
}

// Classify decides whether a finished request failed and, if so, which
// message to show. resp is nil when no response arrived.
func Classify(resp *lifecycle.Response, err error) (string, bool) {
	switch {
	case resp == nil && err != nil:
		return TextNetworkError, true
	case resp != nil && resp.Failed():
		return ClassifyResponse(*resp), true
	case err != nil:
		return TextLoadFailed, true
	default:
		return "", false
	}
}

// SignalText maps a lifecycle signal to its fixed message.
func SignalText(sig lifecycle.Signal) string {
	switch sig {
	case lifecycle.SignalBeforeOnLoadError:
		return "Loading error occurred"
	case lifecycle.SignalAfterOnLoadError:
		return TextLoadFailed
	case lifecycle.SignalBeforeSwapError:
		return "Swap error occurred"
	case lifecycle.SignalAfterSwapError:
		return "Failed to update content"
	default:
		return TextGenericError
	}
}
