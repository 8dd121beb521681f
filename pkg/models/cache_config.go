package models

// CacheBackendType represents the backend used by the semantic lookup tier
type CacheBackendType string

const (
	CacheBackendRedis  CacheBackendType = "redis"
	CacheBackendMemory CacheBackendType = "memory"
)

// SemanticCacheConfig holds configuration for the optional semantic lookup
// tier on the completion cache (optional)
type SemanticCacheConfig struct {
	Enabled   bool             `json:"enabled,omitzero" yaml:"enabled"`
	Backend   CacheBackendType `json:"backend,omitzero" yaml:"backend"`     // "redis" or "memory"
	RedisURL  string           `json:"redis_url,omitzero" yaml:"redis_url"` // Required if backend is "redis"
	Capacity  int              `json:"capacity,omitzero" yaml:"capacity"`   // Required if backend is "memory" (LRU cache size)
	Threshold float64          `json:"threshold,omitzero" yaml:"threshold"`

	OpenAIAPIKey   string `json:"openai_api_key,omitzero" yaml:"openai_api_key"`
	EmbeddingModel string `json:"embedding_model,omitzero" yaml:"embedding_model"`
}

// CacheConfig controls the document schema written by both cache adapters.
// Index is the namespace the documents live under; the store must already
// accept writes to it (index lifecycle is the store's responsibility).
type CacheConfig struct {
	Index string `json:"index" yaml:"index"`

	// Which optional fields go into each document
	StoreInput     bool `json:"store_input" yaml:"store_input"`
	StoreTimestamp bool `json:"store_timestamp" yaml:"store_timestamp"`
	StoreParams    bool `json:"store_params" yaml:"store_params"`

	// Static metadata attached to every document, for external filtering.
	// Must be JSON serializable.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Semantic configures the similarity lookup tier. Only the completion
	// cache consumes it; the embedding cache rejects a config that enables it.
	Semantic SemanticCacheConfig `json:"semantic,omitzero" yaml:"semantic"`
}

// DefaultCacheConfig returns the default cache configuration: all optional
// document fields stored, semantic tier disabled.
func DefaultCacheConfig(index string) CacheConfig {
	return CacheConfig{
		Index:          index,
		StoreInput:     true,
		StoreTimestamp: true,
		StoreParams:    true,
	}
}
