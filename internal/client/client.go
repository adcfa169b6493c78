// Package client performs requests against the researcher service and
// reports each request's lifecycle to a lifecycle.Observer.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"researchctl/internal/lifecycle"
)

// Well-known endpoints.
const (
	PathStep0           = "/api/step0"
	PathStep1           = "/api/step1"
	PathStep2           = "/api/step2"
	PathUploadPDF       = "/api/upload-pdf"
	PathExportPDF       = "/api/export-pdf"
	PathExportPDFCustom = "/api/export-pdf-custom"
)

// UploadField is the multipart field name the upload endpoint expects.
const UploadField = "pdf"

// DefaultTimeout bounds a whole request, body included.
const DefaultTimeout = 5 * time.Minute

// StatusError is returned when the server answers 400 or above.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("POST %s: server returned %d", e.Path, e.Status)
}

// Client is safe for concurrent use if its Observer is.
type Client struct {
	baseURL  string
	http     *http.Client
	observer lifecycle.Observer
}

// New creates a client. A nil observer drops every callback.
func New(baseURL string, timeout time.Duration, obs lifecycle.Observer) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if obs == nil {
		obs = lifecycle.NoopObserver{}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		observer: obs,
	}
}

// PostForm submits values to path as an urlencoded form.
func (c *Client) PostForm(ctx context.Context, elt lifecycle.Element, path string, values url.Values) (*lifecycle.Response, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}
	return c.do(ctx, elt, path, build, nil)
}

// UploadPDF posts the file at filePath as a multipart form.
func (c *Client) UploadPDF(ctx context.Context, elt lifecycle.Element, path, filePath string) (*lifecycle.Response, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		body, contentType, err := multipartBody(filePath)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}
	return c.do(ctx, elt, path, build, nil)
}

// Download submits values to path and writes a successful response body to dst.
// A failed write is reported as a swap error.
func (c *Client) Download(ctx context.Context, elt lifecycle.Element, path string, values url.Values, dst io.Writer) (*lifecycle.Response, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/pdf")
		return req, nil
	}
	apply := func(resp *lifecycle.Response) error {
		_, err := io.Copy(dst, bytes.NewReader(resp.Body))
		return err
	}
	return c.do(ctx, elt, path, build, apply)
}

// do runs one request through the lifecycle: OnStart, then exactly one of
// OnNetworkError, OnError or OnSuccess, with signals around load and apply
// failures.
func (c *Client) do(
	ctx context.Context,
	elt lifecycle.Element,
	path string,
	build func(context.Context) (*http.Request, error),
	apply func(*lifecycle.Response) error,
) (*lifecycle.Response, error) {
	if elt.Path == "" {
		elt.Path = path
	}
	c.observer.OnStart(elt)

	req, err := build(ctx)
	if err != nil {
		c.observer.OnNetworkError(elt, err)
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		log.Printf("client: POST %s failed: %v", path, err)
		c.observer.OnNetworkError(elt, err)
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	resp := &lifecycle.Response{
		Path:        path,
		Status:      httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
	}
	resp.Body, err = io.ReadAll(httpResp.Body)
	if err != nil {
		log.Printf("client: reading response from %s: %v", path, err)
		c.observer.OnSignal(elt, lifecycle.SignalBeforeOnLoadError)
		c.observer.OnNetworkError(elt, err)
		c.observer.OnSignal(elt, lifecycle.SignalAfterOnLoadError)
		return resp, fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.Failed() {
		log.Printf("client: POST %s returned %d", path, resp.Status)
		c.observer.OnError(elt, *resp)
		return resp, &StatusError{Path: path, Status: resp.Status}
	}

	var applyErr error
	if apply != nil {
		if applyErr = apply(resp); applyErr != nil {
			c.observer.OnSignal(elt, lifecycle.SignalBeforeSwapError)
		}
	}
	c.observer.OnSuccess(elt, *resp)
	if applyErr != nil {
		c.observer.OnSignal(elt, lifecycle.SignalAfterSwapError)
		return resp, fmt.Errorf("applying response from %s: %w", path, applyErr)
	}
	return resp, nil
}

// multipartBody buffers filePath as the UploadField part of a multipart form.
func multipartBody(filePath string) (io.Reader, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(UploadField, filepath.Base(filePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
