package models

import "time"

// CacheDocument is the stored record for a single cache key. A document holds
// either an ordered sequence of generations (completion cache) or a single
// embedding vector (embedding cache), never both. Input, params and timestamp
// are optional, controlled by CacheConfig toggles.
type CacheDocument struct {
	Input       string         `json:"input,omitempty"`
	Params      string         `json:"params,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp,omitzero"`
	Generations []string       `json:"generations,omitempty"`
	Embedding   []float32      `json:"embedding,omitempty"`
}
