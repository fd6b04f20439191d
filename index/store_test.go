package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/askdoc/ai/mock"
	"github.com/poiesic/askdoc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// letterEmbedder maps chunks to axis vectors based on their first letter so
// tests can pin exact distance orderings.
func letterEmbedder() *mock.MockEmbedder {
	embed := func(text string) []float32 {
		switch text[0] {
		case 'a':
			return []float32{1, 0, 0}
		case 'b':
			return []float32{0, 1, 0}
		case 'c':
			return []float32{0, 0, 1}
		default:
			return []float32{0, 0, 0}
		}
	}

	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			out[i] = embed(t)
		}
		return out, nil
	}
	return m
}

const threeChunkText = "aaaaaaaaaabbbbbbbbbbcccccccccc"

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store, err := NewStore(letterEmbedder(), append([]Option{WithChunking(10, 0)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(store.Release)
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewStore(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		_, err := NewStore(mock.NewMockEmbedder(), WithChunking(100, 100))
		assert.Equal(t, ErrInvalidChunking, err)

		_, err = NewStore(mock.NewMockEmbedder(), WithChunking(0, 0))
		assert.Equal(t, ErrInvalidChunking, err)
	})

	t.Run("defaults", func(t *testing.T) {
		store, err := NewStore(mock.NewMockEmbedder())
		require.NoError(t, err)
		defer store.Release()
		assert.Equal(t, DefaultWindow, store.window)
		assert.Equal(t, DefaultOverlap, store.overlap)
	})
}

func TestStoreBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("empty document rejected", func(t *testing.T) {
		store := newTestStore(t)
		err := store.Build(ctx, "f1", "")
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
		assert.False(t, store.Has("f1"))
	})

	t.Run("whitespace document rejected", func(t *testing.T) {
		store := newTestStore(t)
		err := store.Build(ctx, "f1", " \n\t ")
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("successful build is visible", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))
		assert.True(t, store.Has("f1"))
		assert.Equal(t, 3, store.ChunkCount("f1"))
	})

	t.Run("embedding failure leaves no document", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("service down")
		}
		store, err := NewStore(embedder, WithChunking(10, 0))
		require.NoError(t, err)
		defer store.Release()

		err = store.Build(ctx, "f1", threeChunkText)
		assert.Error(t, err)
		assert.False(t, store.Has("f1"))
	})

	t.Run("rebuild replaces prior state", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))
		require.Equal(t, 3, store.ChunkCount("f1"))

		require.NoError(t, store.Build(ctx, "f1", "aaaaaaaaaa"))
		assert.Equal(t, 1, store.ChunkCount("f1"))

		result, err := store.Query(ctx, "f1", "aaaa", 3)
		require.NoError(t, err)
		assert.Equal(t, "aaaaaaaaaa", result)
	})
}

func TestStoreQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown document", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Query(ctx, "missing", "anything", 3)
		assert.ErrorIs(t, err, core.ErrUnknownDocument)
	})

	t.Run("query embedding failure is provider unavailable", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding host down")
		}
		broken, err := NewStore(embedder, WithChunking(10, 0))
		require.NoError(t, err)
		t.Cleanup(broken.Release)
		require.NoError(t, broken.Build(ctx, "f1", threeChunkText))

		_, err = broken.Query(ctx, "f1", "anything", 3)
		assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	})

	t.Run("ranked by ascending distance", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))

		// query embeds to the 'b' axis, so the b-chunk ranks first
		result, err := store.Query(ctx, "f1", "bbbb", 3)
		require.NoError(t, err)

		parts := strings.Split(result, ChunkDelimiter)
		require.Len(t, parts, 3)
		assert.Equal(t, "bbbbbbbbbb", parts[0])
	})

	t.Run("k clamped to chunk count", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))

		result, err := store.Query(ctx, "f1", "aaaa", 50)
		require.NoError(t, err)
		assert.Len(t, strings.Split(result, ChunkDelimiter), 3)

		result, err = store.Query(ctx, "f1", "aaaa", 0)
		require.NoError(t, err)
		assert.Len(t, strings.Split(result, ChunkDelimiter), 1)
	})

	t.Run("verbatim chunk round trip", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))

		// querying with a chunk's own text must surface that chunk
		result, err := store.Query(ctx, "f1", "cccccccccc", 1)
		require.NoError(t, err)
		assert.Equal(t, "cccccccccc", result)
	})

	t.Run("identical rebuilds give identical results", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Build(ctx, "f1", threeChunkText))
		first, err := store.Query(ctx, "f1", "bbbb", 2)
		require.NoError(t, err)

		require.NoError(t, store.Build(ctx, "f1", threeChunkText))
		second, err := store.Query(ctx, "f1", "bbbb", 2)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("single chunk document returns chunk verbatim", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store, err := NewStore(embedder)
		require.NoError(t, err)
		defer store.Release()

		text := "The mitochondria is the powerhouse of the cell."
		require.NoError(t, store.Build(ctx, "cell-bio", text))

		result, err := store.Query(ctx, "cell-bio", "What does this document say about mitochondria?", 3)
		require.NoError(t, err)
		assert.Equal(t, text, result)
	})
}

func TestStoreConcurrency(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Seed a handful of documents, then hammer them with concurrent queries
	// and rebuilds. The race detector is the real assertion here.
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Build(ctx, fmt.Sprintf("doc-%d", i), threeChunkText))
	}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		worker := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			fileID := fmt.Sprintf("doc-%d", worker%4)
			for j := 0; j < 25; j++ {
				if worker%2 == 0 {
					result, err := store.Query(ctx, fileID, "bbbb", 2)
					assert.NoError(t, err)
					// never a torn snapshot: result is always fully formed
					assert.NotEmpty(t, result)
				} else {
					assert.NoError(t, store.Build(ctx, fileID, threeChunkText))
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.Equal(t, 3, store.ChunkCount(fmt.Sprintf("doc-%d", i)))
	}
}
