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


package askdoc

import (
	"context"
	"log/slog"

	"github.com/poiesic/askdoc/ai"
	"github.com/poiesic/askdoc/ai/openai"
	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/index"
	"github.com/poiesic/askdoc/pipeline"
	"github.com/poiesic/askdoc/retrieval/arxiv"
	"github.com/poiesic/askdoc/retrieval/web"
	"github.com/poiesic/askdoc/router"
	"github.com/poiesic/askdoc/server"
	"github.com/poiesic/askdoc/storage"
	"github.com/poiesic/askdoc/storage/badger"
	"github.com/poiesic/askdoc/synth"
	"github.com/poiesic/askdoc/trace"
)

// Assistant aggregates the document-question-answering system: storage,
// AI provider, document index, and the query pipeline.
type Assistant struct {
	backend  *badger.Backend
	uploads  storage.UploadRepository
	provider ai.AIProvider
	store    *index.Store
	pipeline *pipeline.Pipeline
	trace    *trace.Log
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig  *ai.Config
	tracePath string
	inMemory  bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithTracePath sets where the query trace log is written.
func WithTracePath(path string) AssistantOption {
	return func(o *assistantOptions) {
		if path != "" {
			o.tracePath = path
		}
	}
}

// WithInMemoryStorage keeps upload metadata in memory instead of on disk.
func WithInMemoryStorage() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant creates a fully wired assistant backed by a BadgerDB
// database at filePath.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig:  ai.DefaultConfig(),
		tracePath: trace.DefaultFilename,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	uploads, err := badger.NewUploadRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		uploads.Close()
		backend.Close()
		return nil, err
	}

	store, err := index.NewStore(provider.Embedder())
	if err != nil {
		provider.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	rt, err := router.NewRouter(provider.Generator())
	if err != nil {
		store.Release()
		provider.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	sy, err := synth.NewSynthesizer(provider.Generator())
	if err != nil {
		store.Release()
		provider.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	traceLog := trace.New(options.tracePath)

	pl, err := pipeline.New(rt, store, sy,
		pipeline.WithWebProvider(web.NewClient()),
		pipeline.WithAcademicProvider(arxiv.NewClient()),
		pipeline.WithTrace(traceLog),
	)
	if err != nil {
		traceLog.Close()
		store.Release()
		provider.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:  backend,
		uploads:  uploads,
		provider: provider,
		store:    store,
		pipeline: pl,
		trace:    traceLog,
		logger:   slog.Default(),
	}, nil
}

// Ask answers a query. fileID may be empty when no document applies.
func (a *Assistant) Ask(ctx context.Context, query, fileID string) (*core.Answer, error) {
	return a.pipeline.Ask(ctx, query, fileID)
}

// UploadRepository returns the upload metadata repository.
func (a *Assistant) UploadRepository() storage.UploadRepository {
	return a.uploads
}

// Store returns the document index store.
func (a *Assistant) Store() *index.Store {
	return a.store
}

// NewServer creates an HTTP server around the assistant.
func (a *Assistant) NewServer(opts ...server.Option) (*server.Server, error) {
	all := append([]server.Option{
		server.WithUploadRepository(a.uploads),
		server.WithTrace(a.trace),
	}, opts...)
	return server.New(a.pipeline, a.store, all...)
}

// Close shuts down the assistant and releases all resources.
func (a *Assistant) Close() error {
	a.store.Release()

	if err := a.trace.Close(); err != nil {
		a.logger.Error("error closing trace log", "err", err)
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.uploads.Close(); err != nil {
		a.logger.Error("error closing upload repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
