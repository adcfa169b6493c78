package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"researchctl/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures lifecycle callbacks in order.
type recorder struct {
	events []string
	last   lifecycle.Response
}

func (r *recorder) OnStart(elt lifecycle.Element) {
	r.events = append(r.events, "start:"+elt.Path)
}

func (r *recorder) OnSuccess(elt lifecycle.Element, resp lifecycle.Response) {
	r.last = resp
	r.events = append(r.events, "success")
}

func (r *recorder) OnError(elt lifecycle.Element, resp lifecycle.Response) {
	r.last = resp
	r.events = append(r.events, "error")
}

func (r *recorder) OnNetworkError(elt lifecycle.Element, err error) {
	r.events = append(r.events, "network")
}

func (r *recorder) OnSignal(elt lifecycle.Element, sig lifecycle.Signal) {
	r.events = append(r.events, "signal:"+sig.String())
}

func TestPostForm_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathStep0, r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "graph neural nets", r.PostForm.Get("topic"))
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<h2>Found 3 papers</h2>")
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL+"/", 0, rec)
	resp, err := c.PostForm(context.Background(), lifecycle.Element{ID: "topic-form"}, PathStep0, url.Values{"topic": {"graph neural nets"}})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "<h2>Found 3 papers</h2>", string(resp.Body))
	assert.Equal(t, []string{"start:/api/step0", "success"}, rec.events)
	assert.Equal(t, "text/html", rec.last.ContentType)
}

func TestPostForm_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"Not found"}`)
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	resp, err := c.PostForm(context.Background(), lifecycle.Element{ID: "step2-form"}, PathStep2, url.Values{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 404, statusErr.Status)
	assert.Equal(t, `{"error":"Not found"}`, string(resp.Body))
	assert.Equal(t, []string{"start:/api/step2", "error"}, rec.events)
}

func TestPostForm_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	rec := &recorder{}
	c := New(base, 0, rec)
	resp, err := c.PostForm(context.Background(), lifecycle.Element{ID: "step1-form"}, PathStep1, url.Values{})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, []string{"start:/api/step1", "network"}, rec.events)
}

func TestPostForm_KeepsExplicitElementPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	_, err := c.PostForm(context.Background(), lifecycle.Element{ID: "f", Path: "/custom"}, PathStep0, nil)

	require.NoError(t, err)
	assert.Equal(t, "start:/custom", rec.events[0])
}

func TestUploadPDF_SendsMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%%EOF\n"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathUploadPDF, r.URL.Path)
		file, header, err := r.FormFile(UploadField)
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "paper.pdf", header.Filename)
		assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
		io.WriteString(w, "<h2>Summary</h2>")
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	resp, err := c.UploadPDF(context.Background(), lifecycle.Element{ID: "upload-form"}, PathUploadPDF, path)

	require.NoError(t, err)
	assert.Equal(t, "<h2>Summary</h2>", string(resp.Body))
	assert.Equal(t, []string{"start:/api/upload-pdf", "success"}, rec.events)
}

func TestUploadPDF_MissingFileEndsLifecycle(t *testing.T) {
	rec := &recorder{}
	c := New("http://127.0.0.1:1", 0, rec)
	_, err := c.UploadPDF(context.Background(), lifecycle.Element{ID: "upload-form"}, PathUploadPDF, filepath.Join(t.TempDir(), "absent.pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, []string{"start:/api/upload-pdf", "network"}, rec.events)
}

func TestDownload_WritesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "mine.pdf", r.PostForm.Get("custom_filename"))
		w.Header().Set("Content-Type", "application/pdf")
		io.WriteString(w, "%PDF-1.4 report")
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	var out strings.Builder
	_, err := c.Download(context.Background(), lifecycle.Element{ID: "export-form"}, PathExportPDFCustom, url.Values{"custom_filename": {"mine.pdf"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report", out.String())
	assert.Equal(t, []string{"start:/api/export-pdf-custom", "success"}, rec.events)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDownload_WriteFailureRaisesSwapSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "%PDF-1.4 report")
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	_, err := c.Download(context.Background(), lifecycle.Element{ID: "export-form"}, PathExportPDF, nil, failingWriter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{
		"start:/api/export-pdf",
		"signal:before-swap-error",
		"success",
		"signal:after-swap-error",
	}, rec.events)
}

func TestDownload_ServerErrorSkipsWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, 0, rec)
	var out strings.Builder
	_, err := c.Download(context.Background(), lifecycle.Element{ID: "export-form"}, PathExportPDF, nil, &out)

	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"start:/api/export-pdf", "error"}, rec.events)
}

func TestNew_NilObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.PostForm(context.Background(), lifecycle.Element{}, PathStep0, nil)
	assert.NoError(t, err)
}
