package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/askdoc/ai/mock"
	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/index"
	retrievalmock "github.com/poiesic/askdoc/retrieval/mock"
	"github.com/poiesic/askdoc/router"
	"github.com/poiesic/askdoc/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	pipeline  *Pipeline
	generator *mock.MockGenerator
	embedder  *mock.MockEmbedder
	store     *index.Store
	web       *retrievalmock.MockProvider
	academic  *retrievalmock.MockProvider
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	generator := mock.NewMockGenerator()
	embedder := mock.NewMockEmbedder()

	rt, err := router.NewRouter(generator)
	require.NoError(t, err)

	store, err := index.NewStore(embedder)
	require.NoError(t, err)
	t.Cleanup(store.Release)

	sy, err := synth.NewSynthesizer(generator)
	require.NoError(t, err)

	web := retrievalmock.NewMockProvider()
	academic := retrievalmock.NewMockProvider()

	all := append([]Option{
		WithWebProvider(web),
		WithAcademicProvider(academic),
	}, opts...)

	pl, err := New(rt, store, sy, all...)
	require.NoError(t, err)

	return &fixture{
		pipeline:  pl,
		generator: generator,
		embedder:  embedder,
		store:     store,
		web:       web,
		academic:  academic,
	}
}

func TestNew(t *testing.T) {
	f := newFixture(t)

	_, err := New(nil, f.store, nil)
	assert.ErrorIs(t, err, ErrRouterRequired)
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.pipeline.Ask(ctx, "   ", "")
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})

	t.Run("document query answers from uploaded text", func(t *testing.T) {
		f := newFixture(t)

		text := "The mitochondria is the powerhouse of the cell."
		require.NoError(t, f.store.Build(ctx, "bio-101", text))

		f.generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
			assert.Contains(t, prompt, text)
			return "The powerhouse of the cell is the **mitochondria**.", nil
		}

		answer, err := f.pipeline.Ask(ctx, "summarize this document", "bio-101")
		require.NoError(t, err)
		assert.Equal(t, core.IntentDocumentQA, answer.Intent)
		assert.Equal(t, "The powerhouse of the cell is the **mitochondria**.", answer.Text)
		assert.NotEmpty(t, answer.Rationale)
	})

	t.Run("document query with unknown file id", func(t *testing.T) {
		f := newFixture(t)

		answer, err := f.pipeline.Ask(ctx, "summarize this document", "never-uploaded")
		require.NoError(t, err)
		assert.Equal(t, core.IntentDocumentQA, answer.Intent)
		assert.Equal(t, UnprocessedDocumentMessage, answer.Text)
		assert.Zero(t, f.generator.GenerateCallCount())
	})

	t.Run("document query with embedding outage", func(t *testing.T) {
		f := newFixture(t)

		text := "The mitochondria is the powerhouse of the cell."
		require.NoError(t, f.store.Build(ctx, "bio-101", text))

		f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("embed: %w", core.ErrProviderUnavailable)
		}

		answer, err := f.pipeline.Ask(ctx, "summarize this document", "bio-101")
		require.NoError(t, err)
		assert.Equal(t, core.IntentDocumentQA, answer.Intent)
		assert.Equal(t, synth.FailureMessage, answer.Text)
		assert.Zero(t, f.generator.GenerateCallCount())
	})

	t.Run("academic query retrieves and synthesizes", func(t *testing.T) {
		f := newFixture(t)

		f.academic.RetrieveFunc = func(ctx context.Context, query string) (string, error) {
			return "Paper Title: Attention Is All You Need\nSummary: Transformers.", nil
		}
		f.generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
			assert.Contains(t, prompt, "Attention Is All You Need")
			return "The landmark paper is **Attention Is All You Need**.", nil
		}

		answer, err := f.pipeline.Ask(ctx, "find research papers about transformers", "")
		require.NoError(t, err)
		assert.Equal(t, core.IntentAcademicSearch, answer.Intent)
		assert.Equal(t, "The landmark paper is **Attention Is All You Need**.", answer.Text)
	})

	t.Run("academic query with no results", func(t *testing.T) {
		f := newFixture(t)

		f.academic.RetrieveFunc = func(ctx context.Context, query string) (string, error) {
			return "", fmt.Errorf("arxiv: %w", core.ErrNoResults)
		}

		answer, err := f.pipeline.Ask(ctx, "research on made-up nonsense", "")
		require.NoError(t, err)
		assert.Equal(t, NoAcademicResultsMessage, answer.Text)
		assert.Zero(t, f.generator.GenerateCallCount())
	})

	t.Run("academic query with provider failure", func(t *testing.T) {
		f := newFixture(t)

		f.academic.RetrieveFunc = func(ctx context.Context, query string) (string, error) {
			return "", fmt.Errorf("arxiv: %w", core.ErrProviderUnavailable)
		}

		answer, err := f.pipeline.Ask(ctx, "research on anything", "")
		require.NoError(t, err)
		assert.Equal(t, AcademicFailureMessage, answer.Text)
	})

	t.Run("web query retrieves and synthesizes", func(t *testing.T) {
		f := newFixture(t)

		f.web.RetrieveFunc = func(ctx context.Context, query string) (string, error) {
			return "Title: Headlines\nSnippet: Things happened today.", nil
		}
		f.generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
			return "Here are **today's headlines**.", nil
		}

		answer, err := f.pipeline.Ask(ctx, "what is the latest news", "")
		require.NoError(t, err)
		assert.Equal(t, core.IntentWebSearch, answer.Intent)
		assert.Equal(t, "Here are **today's headlines**.", answer.Text)
	})

	t.Run("web query with provider failure", func(t *testing.T) {
		f := newFixture(t)

		f.web.RetrieveFunc = func(ctx context.Context, query string) (string, error) {
			return "", fmt.Errorf("websearch: %w", core.ErrProviderUnavailable)
		}

		answer, err := f.pipeline.Ask(ctx, "what is the latest news", "")
		require.NoError(t, err)
		assert.Equal(t, NoWebResultsMessage, answer.Text)
	})

	t.Run("missing academic provider falls back", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		embedder := mock.NewMockEmbedder()

		rt, err := router.NewRouter(generator)
		require.NoError(t, err)
		store, err := index.NewStore(embedder)
		require.NoError(t, err)
		t.Cleanup(store.Release)
		sy, err := synth.NewSynthesizer(generator)
		require.NoError(t, err)

		pl, err := New(rt, store, sy)
		require.NoError(t, err)

		answer, err := pl.Ask(ctx, "find research papers", "")
		require.NoError(t, err)
		assert.Equal(t, NoAcademicResultsMessage, answer.Text)
	})
}
