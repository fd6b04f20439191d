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


// Package synth composes a final answer from a query and retrieved context.
package synth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/askdoc/ai"
)

// ErrGeneratorRequired is returned when a generator is not provided.
var ErrGeneratorRequired = errors.New("generator required")

// Fixed user-visible messages. Both are returned without consulting the
// provider, so empty context and provider outages stay deterministic.
const (
	EmptyContextMessage = "I couldn't find enough information to answer that question."
	FailureMessage      = "There was an error generating the final answer."
)

const synthesisSystemPrompt = "You are a helpful and friendly AI assistant. " +
	"Using the provided context, write a clear and complete Markdown-formatted answer. " +
	"Use bold text (**like this**) for key points."

const defaultSynthesizeTimeout = 30 * time.Second

// Synthesizer turns retrieved context into a final Markdown answer via the
// text generation provider.
type Synthesizer struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithTimeout bounds the generation call.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Synthesizer) error {
		if timeout > 0 {
			s.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(generator ai.Generator, opts ...Option) (*Synthesizer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Synthesizer{
		generator: generator,
		timeout:   defaultSynthesizeTimeout,
		logger:    slog.Default().With("component", "synthesizer"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Answer composes a final answer for the query from contextText. Empty or
// whitespace-only context short-circuits to EmptyContextMessage without a
// provider call; provider failures yield FailureMessage. Never errors.
func (s *Synthesizer) Answer(ctx context.Context, query, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		s.logger.Debug("empty context, skipping synthesis", "query", query)
		return EmptyContextMessage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := "Context:\n" + contextText + "\n\nUser Query: " + query

	answer, err := s.generator.Generate(ctx, synthesisSystemPrompt, prompt)
	if err != nil {
		s.logger.Error("answer synthesis failed", "err", err)
		return FailureMessage
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		s.logger.Warn("synthesis returned empty completion")
		return FailureMessage
	}

	return answer
}
