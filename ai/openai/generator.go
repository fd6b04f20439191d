package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/askdoc/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.ChatTemperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new text generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces a free-text completion for the given system instruction and
// user prompt, using the configured temperature and token cap.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return g.generate(ctx, system, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens))
}

// GenerateJSON produces a completion constrained to a single JSON object.
// Temperature is pinned to 0 so structured decisions stay reproducible.
func (g *Generator) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return g.generate(ctx, system, prompt,
		llms.WithTemperature(0.0),
		llms.WithJSONMode())
}

func (g *Generator) generate(ctx context.Context, system, prompt string, opts ...llms.CallOption) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
