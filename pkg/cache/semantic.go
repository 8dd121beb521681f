package cache

import (
	"context"
	"fmt"

	"github.com/modelriver/doccache/pkg/models"

	"github.com/botirk38/semanticcache"
	"github.com/botirk38/semanticcache/options"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

const (
	defaultSemanticThreshold = 0.99
	defaultEmbeddingModel    = "text-embedding-3-small"
	defaultMemoryCapacity    = 1000
)

// semanticTier is an optional similarity fallback for the completion cache:
// after an exact-key miss, a prompt close enough to a cached one can still
// hit. It never participates in error propagation — the document store stays
// the source of truth.
type semanticTier struct {
	cache     *semanticcache.SemanticCache[string, []string]
	threshold float32
}

// newSemanticTier returns nil when the tier is disabled
func newSemanticTier(cfg models.SemanticCacheConfig) (*semanticTier, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai api key is required for the semantic tier")
	}

	threshold := cfg.Threshold
	if threshold <= 0 || threshold > 1 {
		fiberlog.Warnf("semanticTier: invalid threshold %.2f, using default %.2f", threshold, defaultSemanticThreshold)
		threshold = defaultSemanticThreshold
	}

	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = defaultEmbeddingModel
	}

	backend := cfg.Backend
	if backend == "" {
		backend = models.CacheBackendMemory
	}

	var sc *semanticcache.SemanticCache[string, []string]
	var err error
	switch backend {
	case models.CacheBackendMemory:
		capacity := cfg.Capacity
		if capacity <= 0 {
			capacity = defaultMemoryCapacity
		}
		sc, err = semanticcache.New(
			options.WithOpenAIProvider[string, []string](cfg.OpenAIAPIKey, embedModel),
			options.WithLRUBackend[string, []string](capacity),
		)
	case models.CacheBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis URL is required for the redis semantic backend")
		}
		sc, err = semanticcache.New(
			options.WithOpenAIProvider[string, []string](cfg.OpenAIAPIKey, embedModel),
			options.WithRedisBackend[string, []string](cfg.RedisURL, 0),
		)
	default:
		return nil, fmt.Errorf("unsupported semantic backend: %s (supported: redis, memory)", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create semantic cache: %w", err)
	}

	fiberlog.Debugf("semanticTier: enabled with backend=%s, threshold=%.2f, model=%s",
		backend, threshold, embedModel)
	return &semanticTier{
		cache:     sc,
		threshold: float32(threshold),
	}, nil
}

func (t *semanticTier) lookup(ctx context.Context, prompt string) ([]string, bool, error) {
	if hit, found, err := t.cache.Get(ctx, prompt); err != nil {
		return nil, false, err
	} else if found {
		return hit, true, nil
	}

	match, err := t.cache.Lookup(ctx, prompt, t.threshold)
	if err != nil {
		return nil, false, err
	}
	if match == nil {
		return nil, false, nil
	}
	return match.Value, true, nil
}

func (t *semanticTier) set(ctx context.Context, prompt string, generations []string) error {
	return t.cache.Set(ctx, prompt, prompt, generations)
}

func (t *semanticTier) flush(ctx context.Context) error {
	return t.cache.Flush(ctx)
}

func (t *semanticTier) close() error {
	return t.cache.Close()
}
