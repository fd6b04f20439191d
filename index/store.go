package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/askdoc/ai"
	"github.com/poiesic/askdoc/core"
)

// ChunkDelimiter separates ranked chunks in a retrieval result so the
// synthesizer can distinguish chunk boundaries.
const ChunkDelimiter = "\n\n---\n\n"

const defaultEmbedBatch = 16

// document is an immutable snapshot of one built document: the ordered chunk
// list and the vector index over their embeddings. chunks and index always
// have the same length; a snapshot is only ever installed complete.
type document struct {
	chunks []core.Chunk
	index  *flatIndex
}

// Store owns the per-document chunk lists and vector indexes.
// It is safe for concurrent use: queries take a snapshot reference and search
// without holding any lock, and builds for distinct file ids proceed in
// parallel.
type Store struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	window    int
	overlap   int
	batchSize int
	logger    *slog.Logger

	mu   sync.RWMutex
	docs map[string]*document

	lockMu     sync.Mutex
	buildLocks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store) error

// WithChunking sets the chunk window and overlap in runes.
// Defaults are DefaultWindow and DefaultOverlap.
func WithChunking(window, overlap int) Option {
	return func(s *Store) error {
		if window < 1 || overlap < 0 || overlap >= window {
			return ErrInvalidChunking
		}
		s.window = window
		s.overlap = overlap
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}

		if s.pool != nil {
			s.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per provider call.
func WithBatchSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		s.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a document index store backed by the given embedder.
func NewStore(embedder ai.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		embedder:   embedder,
		pool:       pool,
		window:     DefaultWindow,
		overlap:    DefaultOverlap,
		batchSize:  defaultEmbedBatch,
		logger:     slog.Default().With("component", "index-store"),
		docs:       make(map[string]*document),
		buildLocks: make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.pool.Release()
			return nil, err
		}
	}

	return s, nil
}

// Build chunks rawText, embeds every chunk, constructs a similarity index and
// atomically installs the result for fileID, replacing any prior build.
// Concurrent builds for the same fileID are serialized; builds for other
// file ids are unaffected. Returns core.ErrEmptyDocument if rawText yields
// zero chunks.
func (s *Store) Build(ctx context.Context, fileID, rawText string) error {
	lock := s.buildLock(fileID)
	lock.Lock()
	defer lock.Unlock()

	texts := SplitText(rawText, s.window, s.overlap)
	if len(texts) == 0 {
		return fmt.Errorf("build %s: %w", fileID, core.ErrEmptyDocument)
	}

	s.logger.Info("building document index", "fileID", fileID, "chunks", len(texts))

	vectors, err := s.embedAll(ctx, texts)
	if err != nil {
		return fmt.Errorf("build %s: %w", fileID, err)
	}

	chunks := make([]core.Chunk, len(texts))
	idx := newFlatIndex(len(vectors[0]))
	for i, text := range texts {
		chunks[i] = core.Chunk{
			Id:   core.IDFromContent(text),
			Seq:  i,
			Text: text,
		}
		idx.add(vectors[i])
	}

	// Single map write installs the complete snapshot. Readers holding the
	// previous snapshot keep searching it unharmed.
	s.mu.Lock()
	s.docs[fileID] = &document{chunks: chunks, index: idx}
	s.mu.Unlock()

	s.logger.Info("document index built", "fileID", fileID, "chunks", len(chunks))
	return nil
}

// Query embeds queryText and returns the k nearest chunks of fileID's
// document, concatenated in ascending-distance order and separated by
// ChunkDelimiter. k is clamped to [1, chunk count]. Returns
// core.ErrUnknownDocument if fileID has no built index and wraps
// core.ErrProviderUnavailable when the query embedding fails.
func (s *Store) Query(ctx context.Context, fileID, queryText string, k int) (string, error) {
	s.mu.RLock()
	doc := s.docs[fileID]
	s.mu.RUnlock()

	if doc == nil {
		return "", fmt.Errorf("query %s: %w", fileID, core.ErrUnknownDocument)
	}

	vector, err := s.embedder.EmbedText(ctx, queryText)
	if err != nil {
		return "", fmt.Errorf("query %s: embed: %w: %w", fileID, core.ErrProviderUnavailable, err)
	}

	hits := doc.index.search(vector, k)
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = doc.chunks[hit.pos].Text
	}

	return strings.Join(texts, ChunkDelimiter), nil
}

// Has reports whether fileID has a built index.
func (s *Store) Has(fileID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[fileID] != nil
}

// ChunkCount returns the number of chunks indexed for fileID, or 0 if the
// document is unknown.
func (s *Store) ChunkCount(fileID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc := s.docs[fileID]; doc != nil {
		return len(doc.chunks)
	}
	return 0
}

// Release releases the embedding worker pool.
// The store should not be used after calling Release.
func (s *Store) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// buildLock returns the per-file mutex serializing builds for fileID.
func (s *Store) buildLock(fileID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock := s.buildLocks[fileID]
	if lock == nil {
		lock = &sync.Mutex{}
		s.buildLocks[fileID] = lock
	}
	return lock
}

// embedAll embeds texts in batches submitted to the worker pool, preserving
// input order in the result.
func (s *Store) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	record := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := start, texts[start:end]

		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()

			embeddings, err := s.embedder.EmbedTexts(ctx, batch)
			if err != nil {
				record(err)
				return
			}
			if len(embeddings) != len(batch) {
				record(fmt.Errorf("%w: expected %d, received %d",
					ErrEmbeddingMismatch, len(batch), len(embeddings)))
				return
			}
			copy(vectors[offset:], embeddings)
		})
		if submitErr != nil {
			wg.Done()
			record(submitErr)
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}
