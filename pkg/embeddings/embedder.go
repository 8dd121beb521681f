// Package embeddings provides the embedding provider interface and a
// cache-backed wrapper that skips provider calls for texts already embedded.
package embeddings

import "context"

// Embedder computes an embedding vector for a piece of text
type Embedder interface {
	// Embed turns text into its embedding vector
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the model identifier, used to scope cache keys
	Model() string
}
