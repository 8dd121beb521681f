package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Params holds the model configuration that scopes a cache entry: model name,
// temperature, max tokens, and whatever else distinguishes one invocation from
// another. Values must be JSON-serializable.
type Params map[string]any

// Canonical serializes the params into a deterministic, order-stable string.
// Keys are sorted lexicographically and both names and values rendered as
// JSON, so identical params always canonicalize identically regardless of
// construction order, and a name containing '=' or ',' cannot masquerade as
// another pair's boundary. Nested maps are stable too: encoding/json sorts
// map keys.
func (p Params) Canonical() (string, error) {
	if len(p) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		raw, err := json.Marshal(p[k])
		if err != nil {
			return "", NewSerializationError(fmt.Sprintf("param %q is not serializable", k), err)
		}
		name, err := json.Marshal(k)
		if err != nil {
			return "", NewSerializationError(fmt.Sprintf("param name %q is not serializable", k), err)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.Write(name)
		sb.WriteByte('=')
		sb.Write(raw)
	}
	return sb.String(), nil
}
