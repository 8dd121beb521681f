package cache

import (
	"context"
	"fmt"

	"github.com/modelriver/doccache/pkg/models"
	"github.com/modelriver/doccache/pkg/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// CompletionCache maps a (prompt, params) pair to previously generated
// completions. Updates append: requesting more samples for an already-cached
// prompt extends the stored sequence instead of overwriting it.
type CompletionCache struct {
	store    store.DocumentStore
	config   models.CacheConfig
	semantic *semanticTier
}

// NewCompletionCache creates a completion cache adapter over an injected
// document store. The store client is required; there is no global fallback.
func NewCompletionCache(docStore store.DocumentStore, cfg models.CacheConfig) (*CompletionCache, error) {
	if docStore == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}

	tier, err := newSemanticTier(cfg.Semantic)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize semantic tier: %w", err)
	}

	fiberlog.Infof("CompletionCache: initialized for index %s (semantic=%t)", cfg.Index, tier != nil)
	return &CompletionCache{
		store:    docStore,
		config:   cfg,
		semantic: tier,
	}, nil
}

// Lookup returns the completions cached for (prompt, params), or found=false
// on a miss. A document that exists but holds no completions yet counts as a
// miss. Store and decode failures propagate; they are never reported as
// misses.
func (c *CompletionCache) Lookup(ctx context.Context, prompt string, params models.Params) ([]string, bool, error) {
	canonical, err := params.Canonical()
	if err != nil {
		return nil, false, err
	}
	key := keyFromCanonical(prompt, canonical)

	body, found, err := c.store.GetDocument(ctx, c.config.Index, key)
	if err != nil {
		fiberlog.Errorf("CompletionCache: lookup failed for key %s: %v", key, err)
		return nil, false, models.NewStoreError("get", err)
	}
	if !found {
		if hit, ok := c.semanticLookup(ctx, prompt); ok {
			return hit, true, nil
		}
		fiberlog.Debugf("CompletionCache: miss for key %s", key)
		return nil, false, nil
	}

	doc, err := decodeDocument(key, body)
	if err != nil {
		fiberlog.Errorf("CompletionCache: malformed document for key %s: %v", key, err)
		return nil, false, err
	}
	if len(doc.Generations) == 0 {
		fiberlog.Debugf("CompletionCache: document for key %s holds no completions yet", key)
		return nil, false, nil
	}

	fiberlog.Debugf("CompletionCache: hit for key %s (%d completions)", key, len(doc.Generations))
	return doc.Generations, true, nil
}

// Update stores completions for (prompt, params), appending to any existing
// document. The append is a read-modify-write: two concurrent updates to the
// same key may lose one completion set. Callers needing more samples issue
// sequential updates.
func (c *CompletionCache) Update(ctx context.Context, prompt string, params models.Params, completions []string) error {
	canonical, err := params.Canonical()
	if err != nil {
		return err
	}
	key := keyFromCanonical(prompt, canonical)

	body, found, err := c.store.GetDocument(ctx, c.config.Index, key)
	if err != nil {
		fiberlog.Errorf("CompletionCache: update read failed for key %s: %v", key, err)
		return models.NewStoreError("get", err)
	}

	var doc *models.CacheDocument
	if found {
		doc, err = decodeDocument(key, body)
		if err != nil {
			fiberlog.Errorf("CompletionCache: malformed document for key %s: %v", key, err)
			return err
		}
	} else {
		doc = buildDocument(c.config, prompt, canonical)
	}
	doc.Generations = append(doc.Generations, completions...)

	encoded, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := c.store.PutDocument(ctx, c.config.Index, key, encoded); err != nil {
		fiberlog.Errorf("CompletionCache: update write failed for key %s: %v", key, err)
		return models.NewStoreError("put", err)
	}

	c.semanticSet(ctx, prompt, doc.Generations)
	fiberlog.Debugf("CompletionCache: stored %d completions for key %s (total %d)",
		len(completions), key, len(doc.Generations))
	return nil
}

// Clear wipes every document under the cache's index
func (c *CompletionCache) Clear(ctx context.Context) error {
	if err := c.store.DeleteIndex(ctx, c.config.Index); err != nil {
		return models.NewStoreError("delete", err)
	}
	if c.semantic != nil {
		if err := c.semantic.flush(ctx); err != nil {
			fiberlog.Warnf("CompletionCache: semantic tier flush failed: %v", err)
		}
	}
	fiberlog.Infof("CompletionCache: cleared index %s", c.config.Index)
	return nil
}

// Close releases the semantic tier, if any. The document store client is
// owned by the caller and left open.
func (c *CompletionCache) Close() error {
	if c.semantic != nil {
		return c.semantic.close()
	}
	return nil
}

// semanticLookup consults the similarity tier after an exact miss. The tier
// is advisory: its failures are logged, not propagated.
func (c *CompletionCache) semanticLookup(ctx context.Context, prompt string) ([]string, bool) {
	if c.semantic == nil {
		return nil, false
	}
	hit, ok, err := c.semantic.lookup(ctx, prompt)
	if err != nil {
		fiberlog.Errorf("CompletionCache: semantic lookup failed: %v", err)
		return nil, false
	}
	if ok {
		fiberlog.Infof("CompletionCache: semantic hit for prompt")
	}
	return hit, ok
}

func (c *CompletionCache) semanticSet(ctx context.Context, prompt string, generations []string) {
	if c.semantic == nil {
		return
	}
	if err := c.semantic.set(ctx, prompt, generations); err != nil {
		fiberlog.Errorf("CompletionCache: semantic store failed: %v", err)
	}
}
