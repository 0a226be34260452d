package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsOneFallbackInstance(t *testing.T) {
	const goroutines = 16

	results := make([]any, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = Get()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}
