package cache

import (
	"context"
	"fmt"

	"github.com/modelriver/doccache/pkg/models"
	"github.com/modelriver/doccache/pkg/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// EmbeddingCache maps a (text, params) pair to a previously computed
// embedding vector. Embeddings are deterministic per (text, params), so
// updates overwrite: repeating an update with the same vector is a no-op in
// effect. Give the embedding cache its own index; sharing one with a
// completion cache would mix document shapes under the same key space.
type EmbeddingCache struct {
	store  store.DocumentStore
	config models.CacheConfig
}

// NewEmbeddingCache creates an embedding cache adapter over an injected
// document store. The store client is required; there is no global fallback.
func NewEmbeddingCache(docStore store.DocumentStore, cfg models.CacheConfig) (*EmbeddingCache, error) {
	if docStore == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if cfg.Semantic.Enabled {
		return nil, fmt.Errorf("semantic tier is only supported on the completion cache")
	}

	fiberlog.Infof("EmbeddingCache: initialized for index %s", cfg.Index)
	return &EmbeddingCache{
		store:  docStore,
		config: cfg,
	}, nil
}

// Lookup returns the vector cached for (text, params), or found=false on a
// miss. Store and decode failures propagate; they are never reported as
// misses.
func (c *EmbeddingCache) Lookup(ctx context.Context, text string, params models.Params) ([]float32, bool, error) {
	canonical, err := params.Canonical()
	if err != nil {
		return nil, false, err
	}
	key := keyFromCanonical(text, canonical)

	body, found, err := c.store.GetDocument(ctx, c.config.Index, key)
	if err != nil {
		fiberlog.Errorf("EmbeddingCache: lookup failed for key %s: %v", key, err)
		return nil, false, models.NewStoreError("get", err)
	}
	if !found {
		fiberlog.Debugf("EmbeddingCache: miss for key %s", key)
		return nil, false, nil
	}

	doc, err := decodeDocument(key, body)
	if err != nil {
		fiberlog.Errorf("EmbeddingCache: malformed document for key %s: %v", key, err)
		return nil, false, err
	}
	if len(doc.Embedding) == 0 {
		fiberlog.Debugf("EmbeddingCache: document for key %s holds no vector", key)
		return nil, false, nil
	}

	fiberlog.Debugf("EmbeddingCache: hit for key %s (%d dimensions)", key, len(doc.Embedding))
	return doc.Embedding, true, nil
}

// Update stores vector for (text, params), overwriting any existing document
func (c *EmbeddingCache) Update(ctx context.Context, text string, params models.Params, vector []float32) error {
	canonical, err := params.Canonical()
	if err != nil {
		return err
	}
	key := keyFromCanonical(text, canonical)

	doc := buildDocument(c.config, text, canonical)
	doc.Embedding = vector

	encoded, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := c.store.PutDocument(ctx, c.config.Index, key, encoded); err != nil {
		fiberlog.Errorf("EmbeddingCache: update failed for key %s: %v", key, err)
		return models.NewStoreError("put", err)
	}

	fiberlog.Debugf("EmbeddingCache: stored %d-dimension vector for key %s", len(vector), key)
	return nil
}

// Clear wipes every document under the cache's index
func (c *EmbeddingCache) Clear(ctx context.Context) error {
	if err := c.store.DeleteIndex(ctx, c.config.Index); err != nil {
		return models.NewStoreError("delete", err)
	}
	fiberlog.Infof("EmbeddingCache: cleared index %s", c.config.Index)
	return nil
}
