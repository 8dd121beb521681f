// Package store defines the document-store collaborator contract the cache
// adapters run against, plus the Redis and SQL backends that implement it.
// Backends return their own errors unwrapped; the cache layer is responsible
// for classifying them.
package store

import "context"

// DocumentStore is the injected store collaborator: documents addressed by id
// inside a named index. Index lifecycle (mapping, retention, expiration) is
// the backing store's responsibility, not this contract's.
type DocumentStore interface {
	// GetDocument returns the raw document body for id, or found=false when
	// no document exists. A missing document is not an error.
	GetDocument(ctx context.Context, index, id string) (body []byte, found bool, err error)

	// PutDocument creates or overwrites the document for id.
	PutDocument(ctx context.Context, index, id string, body []byte) error

	// DeleteIndex removes every document in the index.
	DeleteIndex(ctx context.Context, index string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

func docID(index, id string) string {
	return index + ":" + id
}
