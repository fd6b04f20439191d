package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Intent selects which retrieval strategy answers a query.
type Intent int

const (
	// IntentDocumentQA answers from an uploaded document's index.
	IntentDocumentQA Intent = iota + 1
	// IntentAcademicSearch answers from academic paper search.
	IntentAcademicSearch
	// IntentWebSearch answers from general web search.
	IntentWebSearch
)

// intentNames maps intents to their wire names. These are the tool names the
// routing model is instructed to emit, so they double as the parse table.
var intentNames = map[Intent]string{
	IntentDocumentQA:     "PDF-RAG",
	IntentAcademicSearch: "ArxivSearch",
	IntentWebSearch:      "WebSearch",
}

// String returns the wire name of the intent, or "Unknown" for invalid values.
func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether the intent is one of the three defined values.
func (i Intent) Valid() bool {
	_, ok := intentNames[i]
	return ok
}

// ParseIntent maps a wire name back to an Intent.
// Returns false for anything outside the closed set.
func ParseIntent(s string) (Intent, bool) {
	for intent, name := range intentNames {
		if name == s {
			return intent, true
		}
	}
	return 0, false
}

// RoutingDecision is the outcome of classifying a query.
// Produced fresh for every query and never persisted.
type RoutingDecision struct {
	Intent    Intent
	Rationale string
}

// Chunk is a fixed-size overlapping window of document text used as the
// retrieval unit. Immutable once created.
type Chunk struct {
	Id   ID
	Seq  int // position within the document, 0-based
	Text string
}

// Answer is the final response assembled for a query.
type Answer struct {
	Text      string
	Intent    Intent
	Rationale string
}

// UploadRecord holds the persisted metadata for an uploaded document.
// The chunk list and vector index live only in memory and are rebuilt on demand.
type UploadRecord struct {
	FileID     string
	Filename   string
	Path       string
	Size       int64
	ChunkCount int
	UploadedAt time.Time
}
