// Package cache holds the two cache adapters consumed by a calling LLM
// framework: a completion cache with append semantics and an embedding cache
// with overwrite semantics. Both are stateless; all state lives in the
// injected document store.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/modelriver/doccache/pkg/models"
)

// Key computes the deterministic cache key for a (text, params) pair:
// SHA-256 over the canonical params string and the text, hex encoded.
// The only error condition is params that cannot be canonicalized.
func Key(text string, params models.Params) (string, error) {
	canonical, err := params.Canonical()
	if err != nil {
		return "", err
	}
	return keyFromCanonical(text, canonical), nil
}

// keyFromCanonical hashes an already-canonicalized params string with the
// input text. The NUL separator keeps (text, params) pairs from colliding
// across the field boundary.
func keyFromCanonical(text, canonical string) string {
	h := sha256.New()
	h.Write([]byte(canonical))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyKey reports whether the document's own input and params fields
// re-derive key. Only meaningful for documents written with both
// store_input and store_params enabled; useful for debugging a suspect
// index.
func VerifyKey(doc models.CacheDocument, key string) bool {
	return keyFromCanonical(doc.Input, doc.Params) == key
}
