package storage

import (
	"context"

	"github.com/poiesic/askdoc/core"
)

// UploadRepository provides operations for managing upload records.
// Implementations must be thread-safe and support concurrent access.
type UploadRepository interface {
	// AddUpload persists an upload record keyed by its FileID.
	// Overwrites any previous record for the same FileID.
	AddUpload(ctx context.Context, record *core.UploadRecord) error

	// GetUpload retrieves an upload record by file ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetUpload(ctx context.Context, fileID string) (*core.UploadRecord, error)

	// ListUploads retrieves all upload records, ordered by upload time
	// descending (most recent first).
	ListUploads(ctx context.Context) ([]*core.UploadRecord, error)

	// DeleteUpload removes an upload record by file ID.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteUpload(ctx context.Context, fileID string) error

	// Close closes the repository and releases resources.
	Close() error
}
