package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockProviderConcurrency(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	const goroutines = 8
	const callsEach = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < callsEach; i++ {
				result, err := provider.Retrieve(ctx, "quantum computing")
				assert.NoError(t, err)
				assert.Contains(t, result, "quantum computing")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*callsEach, provider.CallCount())

	provider.Reset()
	assert.Zero(t, provider.CallCount())
}
