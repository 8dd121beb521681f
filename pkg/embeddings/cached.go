package embeddings

import (
	"context"
	"fmt"

	"github.com/modelriver/doccache/pkg/cache"
	"github.com/modelriver/doccache/pkg/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// CachedEmbedder wraps an Embedder with an embedding cache: texts already
// embedded under the same model are served from the document store without a
// provider call. Cache failures propagate rather than silently falling back
// to the provider, so the caller sees store outages instead of paying for
// redundant embedding calls.
type CachedEmbedder struct {
	embedder Embedder
	cache    *cache.EmbeddingCache
	params   models.Params
}

// NewCachedEmbedder wires an embedder to an embedding cache
func NewCachedEmbedder(embedder Embedder, embeddingCache *cache.EmbeddingCache) (*CachedEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if embeddingCache == nil {
		return nil, fmt.Errorf("embedding cache is required")
	}
	return &CachedEmbedder{
		embedder: embedder,
		cache:    embeddingCache,
		params:   models.Params{"model": embedder.Model()},
	}, nil
}

// Embed implements Embedder
func (ce *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, found, err := ce.cache.Lookup(ctx, text, ce.params)
	if err != nil {
		return nil, err
	}
	if found {
		fiberlog.Debugf("CachedEmbedder: cache hit for model %s", ce.embedder.Model())
		return vector, nil
	}

	vector, err = ce.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := ce.cache.Update(ctx, text, ce.params, vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// Model implements Embedder
func (ce *CachedEmbedder) Model() string {
	return ce.embedder.Model()
}
