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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/askdoc/core"
)

// MarshalUploadRecord serializes an UploadRecord to bytes using the MUS
// format. UploadedAt is stored as microseconds since the Unix epoch.
func MarshalUploadRecord(record *core.UploadRecord) []byte {
	uploadedAt := record.UploadedAt.UnixMicro()

	size := ord.String.Size(record.FileID) +
		ord.String.Size(record.Filename) +
		ord.String.Size(record.Path) +
		varint.Int64.Size(record.Size) +
		varint.Int.Size(record.ChunkCount) +
		varint.Int64.Size(uploadedAt)

	buf := make([]byte, size)
	n := ord.String.Marshal(record.FileID, buf)
	n += ord.String.Marshal(record.Filename, buf[n:])
	n += ord.String.Marshal(record.Path, buf[n:])
	n += varint.Int64.Marshal(record.Size, buf[n:])
	n += varint.Int.Marshal(record.ChunkCount, buf[n:])
	varint.Int64.Marshal(uploadedAt, buf[n:])
	return buf
}

// UnmarshalUploadRecord deserializes an UploadRecord from bytes.
func UnmarshalUploadRecord(data []byte) (*core.UploadRecord, error) {
	var record core.UploadRecord
	var n int

	fileID, c, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: file id: %w", ErrSerializationFailed, err)
	}
	n += c

	filename, c, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: filename: %w", ErrSerializationFailed, err)
	}
	n += c

	path, c, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: path: %w", ErrSerializationFailed, err)
	}
	n += c

	byteSize, c, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: size: %w", ErrSerializationFailed, err)
	}
	n += c

	chunkCount, c, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: chunk count: %w", ErrSerializationFailed, err)
	}
	n += c

	uploadedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: uploaded at: %w", ErrSerializationFailed, err)
	}

	record.FileID = fileID
	record.Filename = filename
	record.Path = path
	record.Size = byteSize
	record.ChunkCount = chunkCount
	record.UploadedAt = time.UnixMicro(uploadedAt).UTC()
	return &record, nil
}
