// Package mock provides a test double for the retrieval.Provider interface.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/askdoc/retrieval"
)

// MockProvider is a test double for retrieval.Provider.
// It allows custom behavior injection via a function field.
// Safe for concurrent use.
type MockProvider struct {
	// RetrieveFunc is called by Retrieve if set.
	// If nil, returns a fixed snippet blob.
	RetrieveFunc func(ctx context.Context, query string) (string, error)

	callCount atomic.Int64
}

var _ retrieval.Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock provider with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Retrieve returns a fixed snippet blob.
func (m *MockProvider) Retrieve(ctx context.Context, query string) (string, error) {
	m.callCount.Add(1)

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query)
	}

	return "Title: Mock Result\nSnippet: A snippet about " + query + ".", nil
}

// CallCount returns the number of Retrieve calls.
func (m *MockProvider) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockProvider) Reset() {
	m.callCount.Store(0)
	m.RetrieveFunc = nil
}
