package extract

import (
	"fmt"
	"os"
)

// PlainExtractor handles plain-text files as-is.
type PlainExtractor struct{}

// NewPlainExtractor creates a plain-text extractor.
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// Extensions returns the extensions handled by this extractor.
func (e *PlainExtractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the whole file as UTF-8 text.
func (e *PlainExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("plain: reading %s: %w", path, err)
	}
	return string(data), nil
}
