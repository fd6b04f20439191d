package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/askdoc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models are based on complex
recurrent or convolutional neural networks. </summary>
  </entry>
  <entry>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce a new language representation model called BERT.</summary>
  </entry>
</feed>`

const emptyFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("formats ranked papers", func(t *testing.T) {
		var seenQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenQuery = r.URL.Query().Get("search_query")
			assert.Equal(t, "2", r.URL.Query().Get("max_results"))
			assert.Equal(t, "relevance", r.URL.Query().Get("sortBy"))
			w.Write([]byte(atomFixture))
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		result, err := client.Retrieve(ctx, "transformers")
		require.NoError(t, err)

		assert.Equal(t, "all:transformers", seenQuery)
		blocks := strings.Split(result, "\n\n")
		require.Len(t, blocks, 2)
		// whitespace inside the Atom title collapses to single spaces
		assert.True(t, strings.HasPrefix(blocks[0], "Paper Title: Attention Is All You Need\n"))
		assert.Contains(t, blocks[0], "Summary: The dominant sequence")
		assert.Contains(t, blocks[1], "Paper Title: BERT")
	})

	t.Run("long summaries are truncated", func(t *testing.T) {
		long := strings.Repeat("x", 900)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<feed><entry><title>T</title><summary>` + long + `</summary></entry></feed>`))
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		result, err := client.Retrieve(ctx, "anything")
		require.NoError(t, err)
		assert.Contains(t, result, strings.Repeat("x", 500)+"...")
		assert.NotContains(t, result, strings.Repeat("x", 501))
	})

	t.Run("empty feed is no results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(emptyFeedFixture))
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		_, err := client.Retrieve(ctx, "nonexistent topic")
		assert.ErrorIs(t, err, core.ErrNoResults)
	})

	t.Run("server error is provider unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		_, err := client.Retrieve(ctx, "anything")
		assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	})

	t.Run("unreachable host is provider unavailable", func(t *testing.T) {
		client := NewClient(WithBaseURL("http://127.0.0.1:1"))
		_, err := client.Retrieve(ctx, "anything")
		assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	})

	t.Run("malformed xml is provider unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<feed><entry>"))
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		_, err := client.Retrieve(ctx, "anything")
		assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	})
}
