package mock

import (
	"context"
	"sync/atomic"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, matching the ai.Generator contract.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a canned answer.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	// If nil, returns a valid WebSearch routing decision object.
	GenerateJSONFunc func(ctx context.Context, system, prompt string) (string, error)

	generateCalls     atomic.Int64
	generateJSONCalls atomic.Int64
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned free-text completion.
func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.generateCalls.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}

	return "This is a mock answer.", nil
}

// GenerateJSON returns a well-formed routing decision object.
func (m *MockGenerator) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	m.generateJSONCalls.Add(1)

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, system, prompt)
	}

	return `{"tool": "WebSearch", "rationale": "Mock decision."}`, nil
}

// GenerateCallCount returns the number of Generate calls.
func (m *MockGenerator) GenerateCallCount() int {
	return int(m.generateCalls.Load())
}

// GenerateJSONCallCount returns the number of GenerateJSON calls.
func (m *MockGenerator) GenerateJSONCallCount() int {
	return int(m.generateJSONCalls.Load())
}

// Reset clears the call counts and any injected behavior.
func (m *MockGenerator) Reset() {
	m.generateCalls.Store(0)
	m.generateJSONCalls.Store(0)
	m.GenerateFunc = nil
	m.GenerateJSONFunc = nil
}
