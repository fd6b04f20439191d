// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/storage"
)

// UploadRepository implements storage.UploadRepository for BadgerDB.
type UploadRepository struct {
	backend *Backend
}

var _ storage.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates a new UploadRepository.
func NewUploadRepository(backend *Backend) (storage.UploadRepository, error) {
	return &UploadRepository{backend: backend}, nil
}

// Close releases repository resources. The backend itself is owned by
// the caller and closed separately.
func (r *UploadRepository) Close() error {
	return nil
}

// AddUpload persists an upload record keyed by its FileID.
func (r *UploadRepository) AddUpload(ctx context.Context, record *core.UploadRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUploadRecordKey(record.FileID)

		// Clean up the old date index entry on overwrite
		old, err := r.readUploadRecord(tx, key)
		if err != nil {
			return err
		}
		if old != nil && !old.UploadedAt.Equal(record.UploadedAt) {
			if err := tx.Delete(makeUploadDateKey(old.UploadedAt, old.FileID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalUploadRecord(record)); err != nil {
			return err
		}

		dateKey := makeUploadDateKey(record.UploadedAt, record.FileID)
		if err := tx.Set(dateKey, []byte(record.FileID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUpload retrieves an upload record by file ID.
func (r *UploadRepository) GetUpload(ctx context.Context, fileID string) (*core.UploadRecord, error) {
	var result *core.UploadRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readUploadRecord(tx, makeUploadRecordKey(fileID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListUploads retrieves all upload records, most recent first.
func (r *UploadRepository) ListUploads(ctx context.Context) ([]*core.UploadRecord, error) {
	var results []*core.UploadRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(uploadRecordDatePrefix + ":")
		startKey := makeUploadDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC), "")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var fileID string
			if err := iter.Item().Value(func(val []byte) error {
				fileID = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := r.readUploadRecord(tx, makeUploadRecordKey(fileID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteUpload removes an upload record and its date index entry.
func (r *UploadRepository) DeleteUpload(ctx context.Context, fileID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUploadRecordKey(fileID)

		record, err := r.readUploadRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeUploadDateKey(record.UploadedAt, record.FileID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readUploadRecord reads an upload record from the transaction.
func (r *UploadRepository) readUploadRecord(tx *badger.Txn, key []byte) (*core.UploadRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.UploadRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalUploadRecord(val)
		return unmarshalErr
	})
	return record, err
}
