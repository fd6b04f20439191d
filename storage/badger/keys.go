package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	uploadRecordPrefix     = "uplrec"
	uploadRecordDatePrefix = "uplrecd"
)

// makeUploadRecordKey generates a key for an upload record by file ID.
func makeUploadRecordKey(fileID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", uploadRecordPrefix, fileID))
}

// makeUploadDateKey generates a composite key for the date index.
// Format: prefix:timestamp:fileID
func makeUploadDateKey(timestamp time.Time, fileID string) []byte {
	prefix := uploadRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8+len(fileID))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], fileID)
	return buf
}
