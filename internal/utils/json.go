package utils

import (
	"encoding/json"

	"github.com/valyala/bytebufferpool"
)

// Document bodies are encoded on every cache update; pooling the scratch
// buffers keeps large completion batches from churning the allocator.
var docBuffers bytebufferpool.Pool

// MarshalJSON encodes v through a pooled buffer and returns a private copy
// of the bytes. HTML escaping is disabled: bodies go to a document store,
// not a browser.
func MarshalJSON(v any) ([]byte, error) {
	buf := docBuffers.Get()
	defer docBuffers.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	b := buf.Bytes()
	// Encoder.Encode appends a trailing newline
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
