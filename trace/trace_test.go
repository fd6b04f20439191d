package trace

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l := New(filepath.Join(t.TempDir(), DefaultFilename))
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLog(t *testing.T) {
	t.Run("contents before first event", func(t *testing.T) {
		l := newTestLog(t)

		_, err := l.Contents()
		assert.ErrorIs(t, err, ErrNoLog)
	})

	t.Run("event line format", func(t *testing.T) {
		l := newTestLog(t)
		l.now = func() time.Time {
			return time.Date(2025, 6, 14, 9, 30, 15, 0, time.UTC)
		}

		require.NoError(t, l.Event("Routing query: %s", "what is a mitochondrion"))

		contents, err := l.Contents()
		require.NoError(t, err)
		assert.Equal(t, "2025-06-14 09:30:15 - INFO - Routing query: what is a mitochondrion\n", contents)
	})

	t.Run("existing file survives a restart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFilename)

		first := New(path)
		require.NoError(t, first.Event("before restart"))
		require.NoError(t, first.Close())

		second := New(path)
		t.Cleanup(func() { second.Close() })

		contents, err := second.Contents()
		require.NoError(t, err)
		assert.Contains(t, contents, "before restart")

		require.NoError(t, second.Event("after restart"))
		contents, err = second.Contents()
		require.NoError(t, err)
		assert.Contains(t, contents, "before restart")
		assert.Contains(t, contents, "after restart")
	})

	t.Run("events append in order", func(t *testing.T) {
		l := newTestLog(t)

		require.NoError(t, l.Event("first"))
		require.NoError(t, l.Event("second"))

		contents, err := l.Contents()
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(contents, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "first")
		assert.Contains(t, lines[1], "second")
	})

	t.Run("concurrent events", func(t *testing.T) {
		l := newTestLog(t)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				assert.NoError(t, l.Event("event %d", n))
			}(i)
		}
		wg.Wait()

		contents, err := l.Contents()
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSuffix(contents, "\n"), "\n"), 20)
	})
}
