package askdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/askdoc/ai"
	"github.com/poiesic/askdoc/server"
	"github.com/poiesic/askdoc/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAIConfig() *ai.Config {
	return ai.NewConfig(ai.WithToken("test-token"))
}

func TestNewAssistant(t *testing.T) {
	t.Run("create new assistant", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		assistant, err := NewAssistant(tmpDir,
			WithAIConfig(testAIConfig()),
			WithTracePath(filepath.Join(t.TempDir(), trace.DefaultFilename)),
		)
		require.NoError(t, err)
		require.NotNil(t, assistant)
		defer assistant.Close()

		// Verify components are initialized
		assert.NotNil(t, assistant.UploadRepository())
		assert.NotNil(t, assistant.Store())
		assert.NotNil(t, assistant.backend)
		assert.NotNil(t, assistant.pipeline)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		assistant, err := NewAssistant(tmpFile, WithAIConfig(testAIConfig()))
		assert.Error(t, err)
		assert.Nil(t, assistant)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		assistant, err := NewAssistant(filepath.Join(t.TempDir(), "db"),
			WithInMemoryStorage(),
		)
		assert.Error(t, err)
		assert.Nil(t, assistant)
	})
}

func TestAssistant_Close(t *testing.T) {
	assistant, err := NewAssistant(t.TempDir(),
		WithAIConfig(testAIConfig()),
		WithInMemoryStorage(),
		WithTracePath(filepath.Join(t.TempDir(), trace.DefaultFilename)),
	)
	require.NoError(t, err)
	require.NotNil(t, assistant)

	assert.NoError(t, assistant.Close())
}

func TestAssistant_NewServer(t *testing.T) {
	assistant, err := NewAssistant(t.TempDir(),
		WithAIConfig(testAIConfig()),
		WithInMemoryStorage(),
		WithTracePath(filepath.Join(t.TempDir(), trace.DefaultFilename)),
	)
	require.NoError(t, err)
	defer assistant.Close()

	srv, err := assistant.NewServer(server.WithUploadDir(t.TempDir()))
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
