package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/askdoc/ai"
	"github.com/poiesic/askdoc/core"
)

// ErrGeneratorRequired is returned when a generator is not provided.
var ErrGeneratorRequired = errors.New("generator required")

// Keyword rules use case-insensitive substring matching, so "paper" also
// fires inside "wallpaper". Rule order matters: an explicit document
// reference outranks topical keywords that might coincidentally appear in
// a document-directed query.
var (
	documentPhrases  = []string{"this document", "summarize"}
	academicKeywords = []string{"arxiv", "paper", "research"}
	newsKeywords     = []string{"latest news", "current events"}
)

// Fixed rationales for rule-based decisions.
const (
	documentRationale = "Query refers to the uploaded document, so the PDF-RAG agent was chosen."
	academicRationale = "Query contains keywords like 'arxiv' or 'paper', suggesting an academic search."
	newsRationale     = "Query asks for current news, so the Web Search agent is appropriate."
	fallbackRationale = "LLM routing failed, falling back to a general web search."
)

const routingSystemPrompt = `You are an expert routing agent. Your task is to analyze a user query and decide the best tool to use.
You have three tools available:
1. WebSearch: For real-time information, news, current events, or general knowledge questions.
2. ArxivSearch: For scientific papers, research, technical topics, and academic queries.
3. PDF-RAG: Use ONLY if the user explicitly refers to an uploaded document. A file_id will be provided.

Respond in a simple JSON format like: {"tool": "YourChoice", "rationale": "Your reasoning."}
Your choice must be one of: "WebSearch", "ArxivSearch", or "PDF-RAG".`

const defaultDecideTimeout = 15 * time.Second

// decision matches the JSON object the routing model is instructed to emit.
type decision struct {
	Tool      string `json:"tool"`
	Rationale string `json:"rationale"`
}

// Router classifies an incoming query into a retrieval intent. Fast
// deterministic rules run first; ambiguous queries fall through to the
// text generation provider in structured mode.
type Router struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithTimeout bounds the structured-mode classifier call.
// Default is 15 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Router) error {
		if timeout > 0 {
			r.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a query router backed by the given generator for the
// ambiguous-query fallback.
func NewRouter(generator ai.Generator, opts ...Option) (*Router, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Router{
		generator: generator,
		timeout:   defaultDecideTimeout,
		logger:    slog.Default().With("component", "router"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Decide classifies a query. It never fails: any internal error degrades to a
// WebSearch decision with a fallback rationale.
func (r *Router) Decide(ctx context.Context, query string, hasDocument bool) core.RoutingDecision {
	lower := strings.ToLower(query)

	// Rule-based routing for obvious cases. Fast, cheap, deterministic.
	if hasDocument && containsAny(lower, documentPhrases) {
		r.logger.Debug("rule-based decision", "intent", core.IntentDocumentQA, "query", query)
		return core.RoutingDecision{Intent: core.IntentDocumentQA, Rationale: documentRationale}
	}
	if containsAny(lower, academicKeywords) {
		r.logger.Debug("rule-based decision", "intent", core.IntentAcademicSearch, "query", query)
		return core.RoutingDecision{Intent: core.IntentAcademicSearch, Rationale: academicRationale}
	}
	if containsAny(lower, newsKeywords) {
		r.logger.Debug("rule-based decision", "intent", core.IntentWebSearch, "query", query)
		return core.RoutingDecision{Intent: core.IntentWebSearch, Rationale: newsRationale}
	}

	return r.decideLLM(ctx, query, hasDocument)
}

// decideLLM consults the structured-mode classifier for ambiguous queries.
func (r *Router) decideLLM(ctx context.Context, query string, hasDocument bool) core.RoutingDecision {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := "User Query: '" + query + "'\nFile ID provided: " + boolWord(hasDocument)

	raw, err := r.generator.GenerateJSON(ctx, routingSystemPrompt, prompt)
	if err != nil {
		r.logger.Warn("llm routing failed", "err", err)
		return fallbackDecision()
	}

	var parsed decision
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		r.logger.Warn("llm routing returned malformed json", "response", raw, "err", err)
		return fallbackDecision()
	}

	intent, ok := core.ParseIntent(parsed.Tool)
	if !ok {
		r.logger.Warn("llm routing returned unknown tool", "tool", parsed.Tool)
		return fallbackDecision()
	}

	rationale := strings.TrimSpace(parsed.Rationale)
	if rationale == "" {
		rationale = "Classifier selected " + intent.String() + "."
	}

	r.logger.Debug("llm decision", "intent", intent, "query", query)
	return core.RoutingDecision{Intent: intent, Rationale: rationale}
}

func fallbackDecision() core.RoutingDecision {
	return core.RoutingDecision{Intent: core.IntentWebSearch, Rationale: fallbackRationale}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// stripFences removes markdown code fences models sometimes wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
