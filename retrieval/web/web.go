// Package web implements general web retrieval against the DuckDuckGo
// Instant Answer API. It needs no API key, which keeps the default
// deployment credential-free beyond the LLM secret.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/retrieval"
)

const (
	defaultBaseURL    = "https://api.duckduckgo.com/"
	defaultMaxResults = 3
	defaultTimeout    = 10 * time.Second
)

// response mirrors the subset of the Instant Answer payload we consume.
type response struct {
	Heading       string  `json:"Heading"`
	AbstractText  string  `json:"AbstractText"`
	RelatedTopics []topic `json:"RelatedTopics"`
}

type topic struct {
	Text   string  `json:"Text"`
	Topics []topic `json:"Topics"` // nested category groups
}

// Client retrieves web snippets from DuckDuckGo.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxResults int
	logger     *slog.Logger
}

var _ retrieval.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithMaxResults sets how many snippets are retrieved per query.
func WithMaxResults(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxResults = max
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a web retrieval client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		maxResults: defaultMaxResults,
		logger:     slog.Default().With("component", "websearch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve searches the web and formats the top snippets as
// "Title: ...\nSnippet: ..." blocks separated by blank lines.
func (c *Client) Retrieve(ctx context.Context, query string) (string, error) {
	c.logger.Debug("searching the web", "query", query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("websearch: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("websearch: %w: %w", core.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("websearch: %w: status %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("websearch: %w: %w", core.ErrProviderUnavailable, err)
	}

	blocks := c.collect(&parsed)
	if len(blocks) == 0 {
		return "", fmt.Errorf("websearch: %w", core.ErrNoResults)
	}

	c.logger.Debug("web search complete", "snippets", len(blocks))
	return strings.Join(blocks, "\n\n"), nil
}

// collect flattens the instant-answer payload into ranked title/snippet
// blocks, abstract first, capped at maxResults.
func (c *Client) collect(parsed *response) []string {
	blocks := make([]string, 0, c.maxResults)

	if strings.TrimSpace(parsed.AbstractText) != "" {
		title := parsed.Heading
		if title == "" {
			title = "Overview"
		}
		blocks = append(blocks, "Title: "+title+"\nSnippet: "+parsed.AbstractText)
	}

	var walk func(topics []topic)
	walk = func(topics []topic) {
		for _, t := range topics {
			if len(blocks) >= c.maxResults {
				return
			}
			if len(t.Topics) > 0 {
				walk(t.Topics)
				continue
			}
			text := strings.TrimSpace(t.Text)
			if text == "" {
				continue
			}
			// the Text field leads with the topic name, dash-separated
			title, snippet, found := strings.Cut(text, " - ")
			if !found {
				title, snippet = "Related", text
			}
			blocks = append(blocks, "Title: "+title+"\nSnippet: "+snippet)
		}
	}
	walk(parsed.RelatedTopics)

	return blocks
}
