// Package upload validates a PDF before it is submitted to the server.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize is the largest accepted upload.
const DefaultMaxSize int64 = 10 * 1024 * 1024

// SubmitLabel is the status text shown when an upload session starts.
const SubmitLabel = "Starting PDF upload..."

// Reason classifies a validation failure.
type Reason int

const (
	ReasonTooLarge Reason = iota + 1
	ReasonNotPDF
	ReasonMissing
)

// ValidationError is returned when a file is rejected. UserMessage is the
// text shown in the status line.
type ValidationError struct {
	Reason Reason
	Path   string
	Size   int64
	Limit  int64
	MIME   string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("upload: %s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
	case ReasonNotPDF:
		return fmt.Sprintf("upload: %s is %s, not a PDF", e.Path, e.MIME)
	default:
		return "upload: no file selected"
	}
}

// UserMessage returns the status line text for the failure.
func (e *ValidationError) UserMessage() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("File too large. Please upload a PDF smaller than %dMB.", e.Limit/(1024*1024))
	case ReasonNotPDF:
		return "Please select a valid PDF file."
	default:
		return "Please select a PDF file to upload."
	}
}

// UserMessage returns the status line text for any error from the guard.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.UserMessage()
	}
	return err.Error()
}

// File is an accepted selection.
type File struct {
	Path string
	Name string
	Size int64
	MIME string
}

// SizeMB renders the size in mebibytes with one decimal.
func (f File) SizeMB() string {
	return fmt.Sprintf("%.1f", float64(f.Size)/1024/1024)
}

// Notice is the informational text shown after a successful selection.
func (f File) Notice() string {
	return fmt.Sprintf("Selected: %s (%sMB)", f.Name, f.SizeMB())
}

// Guard holds the current selection of a PDF file field.
type Guard struct {
	maxSize  int64
	selected *File
}

// NewGuard creates a guard. A non-positive maxSize means DefaultMaxSize.
func NewGuard(maxSize int64) *Guard {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Guard{maxSize: maxSize}
}

// Select validates path and makes it the current selection. On any failure
// the selection is cleared.
func (g *Guard) Select(path string) (File, error) {
	g.selected = nil

	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("upload: %w", err)
	}
	if info.IsDir() {
		return File{}, &ValidationError{Reason: ReasonNotPDF, Path: path, MIME: "directory"}
	}
	if info.Size() > g.maxSize {
		return File{}, &ValidationError{Reason: ReasonTooLarge, Path: path, Size: info.Size(), Limit: g.maxSize}
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("upload: detecting type of %s: %w", path, err)
	}
	if !strings.Contains(mt.String(), "pdf") {
		return File{}, &ValidationError{Reason: ReasonNotPDF, Path: path, MIME: mt.String()}
	}

	f := File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
		MIME: mt.String(),
	}
	g.selected = &f
	return f, nil
}

// Selected returns the current selection.
func (g *Guard) Selected() (File, bool) {
	if g.selected == nil {
		return File{}, false
	}
	return *g.selected, true
}

// Submit returns the selection to upload, or a ReasonMissing error when
// nothing is selected.
func (g *Guard) Submit() (File, error) {
	f, ok := g.Selected()
	if !ok {
		return File{}, &ValidationError{Reason: ReasonMissing}
	}
	return f, nil
}
