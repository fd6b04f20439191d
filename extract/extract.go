// Package extract turns uploaded files into plain text suitable for
// chunking and embedding. Extraction is dispatched on file extension so
// new formats can be added without touching the upload path.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no extractor handles the
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoText is returned when extraction succeeds but yields no
	// usable text.
	ErrNoText = errors.New("no extractable text")
)

// Extractor converts a file on disk into plain text.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	Extract(path string) (string, error)

	// Extensions lists the lowercase file extensions this extractor
	// handles, dot included.
	Extensions() []string
}

// Registry dispatches extraction to the extractor registered for the
// file's extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the given extractors. Later
// extractors win on extension conflicts.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with the built-in extractors.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewPlainExtractor(), NewPDFExtractor())
}

// Extract converts the file at path into plain text, choosing the
// extractor by extension.
func (r *Registry) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("extract: %w: %q", ErrUnsupportedFormat, ext)
	}

	text, err := e.Extract(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("extract: %w", ErrNoText)
	}
	return text, nil
}

// Supports reports whether the registry can handle the file at path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}
