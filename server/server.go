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

// Package server exposes the document assistant over HTTP.
package server

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/askdoc/extract"
	"github.com/poiesic/askdoc/index"
	"github.com/poiesic/askdoc/pipeline"
	"github.com/poiesic/askdoc/storage"
	"github.com/poiesic/askdoc/trace"
)

var (
	// ErrPipelineRequired is returned when a pipeline is not provided.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrStoreRequired is returned when a document store is not provided.
	ErrStoreRequired = errors.New("document store required")
)

// Server wires the upload and query pipelines to HTTP handlers.
type Server struct {
	pipeline  *pipeline.Pipeline
	store     *index.Store
	uploads   storage.UploadRepository
	extractor *extract.Registry
	trace     *trace.Log
	uploadDir string
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithUploadRepository sets the repository upload metadata is persisted to.
// Without one, uploads are indexed but not recorded.
func WithUploadRepository(repo storage.UploadRepository) Option {
	return func(s *Server) error {
		s.uploads = repo
		return nil
	}
}

// WithExtractor sets the text extraction registry.
func WithExtractor(registry *extract.Registry) Option {
	return func(s *Server) error {
		if registry != nil {
			s.extractor = registry
		}
		return nil
	}
}

// WithTrace sets the trace log served by the logs endpoint.
func WithTrace(t *trace.Log) Option {
	return func(s *Server) error {
		s.trace = t
		return nil
	}
}

// WithUploadDir sets the directory uploaded files are stored in.
func WithUploadDir(dir string) Option {
	return func(s *Server) error {
		if dir != "" {
			s.uploadDir = dir
		}
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// New creates an HTTP server around the given pipeline and store.
func New(p *pipeline.Pipeline, store *index.Store, opts ...Option) (*Server, error) {
	if p == nil {
		return nil, ErrPipelineRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Server{
		pipeline:  p,
		store:     store,
		extractor: extract.NewDefaultRegistry(),
		uploadDir: filepath.Join(os.TempDir(), "askdoc-uploads"),
		logger:    slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine builds the gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)
	return engine
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)
	return s.Engine().Run(addr)
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.POST("/upload_pdf", s.handleUpload)
	engine.POST("/ask", s.handleAsk)
	engine.GET("/logs", s.handleLogs)
}
