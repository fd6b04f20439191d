package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors
var (
	// ErrEmptyFileID indicates an UploadRecord without a file id.
	ErrEmptyFileID = errors.New("file id cannot be empty")

	// ErrEmptyFilename indicates an UploadRecord without a filename.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrFutureTimestamp indicates a timestamp in the future.
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
)

// Validate checks that an UploadRecord is complete enough to persist.
func (r *UploadRecord) Validate() error {
	if strings.TrimSpace(r.FileID) == "" {
		return ErrEmptyFileID
	}
	if strings.TrimSpace(r.Filename) == "" {
		return ErrEmptyFilename
	}
	if r.UploadedAt.After(time.Now().UTC().Add(time.Minute)) {
		return fmt.Errorf("upload record %s: %w", r.FileID, ErrFutureTimestamp)
	}
	return nil
}
