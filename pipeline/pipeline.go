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

// Package pipeline orchestrates query answering: it routes the query
// to an intent, dispatches to the matching retrieval path, and hands
// the retrieved context to the synthesizer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/index"
	"github.com/poiesic/askdoc/retrieval"
	"github.com/poiesic/askdoc/router"
	"github.com/poiesic/askdoc/synth"
	"github.com/poiesic/askdoc/trace"
)

var (
	// ErrRouterRequired is returned when a router is not provided.
	ErrRouterRequired = errors.New("router required")

	// ErrStoreRequired is returned when a document store is not provided.
	ErrStoreRequired = errors.New("document store required")

	// ErrSynthesizerRequired is returned when a synthesizer is not provided.
	ErrSynthesizerRequired = errors.New("synthesizer required")
)

// Fallback answers for retrieval paths that come back empty or broken.
const (
	UnprocessedDocumentMessage = "Error: This PDF has not been processed yet. Please upload it again."
	NoAcademicResultsMessage   = "No academic papers found on ArXiv for this topic."
	AcademicFailureMessage     = "There was an error searching ArXiv."
	NoWebResultsMessage        = "No results found from the web search."
)

const defaultTopK = 3

// Pipeline answers user queries end to end.
type Pipeline struct {
	router   *router.Router
	store    *index.Store
	synth    *synth.Synthesizer
	web      retrieval.Provider
	academic retrieval.Provider
	trace    *trace.Log
	topK     int
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithWebProvider sets the provider backing general web queries.
func WithWebProvider(p retrieval.Provider) Option {
	return func(pl *Pipeline) error {
		pl.web = p
		return nil
	}
}

// WithAcademicProvider sets the provider backing academic queries.
func WithAcademicProvider(p retrieval.Provider) Option {
	return func(pl *Pipeline) error {
		pl.academic = p
		return nil
	}
}

// WithTrace sets the trace log the pipeline records decisions to.
func WithTrace(t *trace.Log) Option {
	return func(pl *Pipeline) error {
		pl.trace = t
		return nil
	}
}

// WithTopK sets how many chunks are retrieved per document query.
func WithTopK(k int) Option {
	return func(pl *Pipeline) error {
		if k < 1 {
			return fmt.Errorf("top k must be positive, got %d", k)
		}
		pl.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(pl *Pipeline) error {
		if logger != nil {
			pl.logger = logger
		}
		return nil
	}
}

// New creates a query pipeline. Router, store, and synthesizer are
// required; retrieval providers and the trace log are optional, with
// missing providers answering through their fallback messages.
func New(rt *router.Router, store *index.Store, sy *synth.Synthesizer, opts ...Option) (*Pipeline, error) {
	if rt == nil {
		return nil, ErrRouterRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if sy == nil {
		return nil, ErrSynthesizerRequired
	}

	pl := &Pipeline{
		router: rt,
		store:  store,
		synth:  sy,
		topK:   defaultTopK,
		logger: slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(pl); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// Ask routes the query, retrieves context for the selected intent, and
// synthesizes the final answer. A non-empty fileID marks the query as
// having an uploaded document available.
func (p *Pipeline) Ask(ctx context.Context, query, fileID string) (*core.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}

	p.event("Received query: %s", query)
	decision := p.router.Decide(ctx, query, fileID != "")
	p.event("Routing decision: tool=%s rationale=%s", decision.Intent, decision.Rationale)
	p.logger.Info("query routed", "intent", decision.Intent.String(), "has_document", fileID != "")

	answer := &core.Answer{
		Intent:    decision.Intent,
		Rationale: decision.Rationale,
	}

	switch decision.Intent {
	case core.IntentDocumentQA:
		text, err := p.answerFromDocument(ctx, query, fileID)
		if err != nil {
			return nil, err
		}
		answer.Text = text
	case core.IntentAcademicSearch:
		answer.Text = p.answerFromProvider(ctx, query, p.academic,
			NoAcademicResultsMessage, AcademicFailureMessage)
	case core.IntentWebSearch:
		answer.Text = p.answerFromProvider(ctx, query, p.web,
			NoWebResultsMessage, NoWebResultsMessage)
	default:
		return nil, fmt.Errorf("pipeline: unhandled intent %q", decision.Intent)
	}

	p.event("Answer generated via %s", decision.Intent)
	return answer, nil
}

// answerFromDocument retrieves the top chunks for the query and
// synthesizes an answer from them.
func (p *Pipeline) answerFromDocument(ctx context.Context, query, fileID string) (string, error) {
	p.event("Querying document: %s", fileID)

	contextText, err := p.store.Query(ctx, fileID, query, p.topK)
	if err != nil {
		if errors.Is(err, core.ErrUnknownDocument) {
			p.event("Document not indexed: %s", fileID)
			return UnprocessedDocumentMessage, nil
		}
		if errors.Is(err, core.ErrProviderUnavailable) {
			p.logger.Warn("document retrieval failed", "error", err)
			p.event("Document retrieval failed: %v", err)
			return synth.FailureMessage, nil
		}
		return "", fmt.Errorf("pipeline: document retrieval: %w", err)
	}

	p.event("Synthesizing final answer")
	return p.synth.Answer(ctx, query, contextText), nil
}

// answerFromProvider retrieves external context and synthesizes an
// answer. Empty or failed retrieval yields the fixed fallback text
// without a synthesis call.
func (p *Pipeline) answerFromProvider(ctx context.Context, query string, provider retrieval.Provider, emptyMsg, failureMsg string) string {
	if provider == nil {
		p.event("No provider configured for this intent")
		return emptyMsg
	}

	contextText, err := provider.Retrieve(ctx, query)
	if err != nil {
		if errors.Is(err, core.ErrNoResults) {
			p.event("Retrieval returned no results")
			return emptyMsg
		}
		p.logger.Warn("retrieval failed", "error", err)
		p.event("Retrieval failed: %v", err)
		return failureMsg
	}

	p.event("Synthesizing final answer")
	return p.synth.Answer(ctx, query, contextText)
}

// event records a trace line, if tracing is configured.
func (p *Pipeline) event(format string, args ...any) {
	if p.trace == nil {
		return
	}
	if err := p.trace.Event(format, args...); err != nil {
		p.logger.Warn("trace write failed", "error", err)
	}
}
