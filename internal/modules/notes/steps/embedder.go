package steps

import (
	"context"
	"fmt"
	"sync"
)

// Embedder encodes texts into dense vectors. Implementations must be
// deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// serialEmbedder serializes every encode call behind one mutex. Inference may
// be parallel-safe, but serializing bounds peak memory on large documents.
type serialEmbedder struct {
	mu    sync.Mutex
	inner Embedder
}

func (s *serialEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Embed(ctx, inputs)
}

var (
	sharedEmbedderOnce sync.Once
	sharedEmbedder     Embedder
	sharedEmbedderErr  error
)

// SharedEmbedder lazily initializes the process-wide embedding provider from
// factory and returns the same serialized instance on every subsequent call,
// regardless of the factory passed later. No teardown.
func SharedEmbedder(factory func() (Embedder, error)) (Embedder, error) {
	sharedEmbedderOnce.Do(func() {
		inner, err := factory()
		if err != nil {
			sharedEmbedderErr = fmt.Errorf("init shared embedder: %w", err)
			return
		}
		sharedEmbedder = &serialEmbedder{inner: inner}
	})
	return sharedEmbedder, sharedEmbedderErr
}
