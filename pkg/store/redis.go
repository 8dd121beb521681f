package store

import (
	"context"
	"errors"
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// deleteScanCount is the SCAN batch size used when clearing an index
const deleteScanCount = 256

// RedisStore keeps each cache document as a JSON value under "<index>:<id>".
// The client is injected and shared; the store never mutates it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed document store around an already
// configured client
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) GetDocument(ctx context.Context, index, id string) ([]byte, bool, error) {
	body, err := s.client.Get(ctx, docID(index, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (s *RedisStore) PutDocument(ctx context.Context, index, id string, body []byte) error {
	// No TTL here: expiration policy belongs to the store's own lifecycle
	// configuration, not the cache layer.
	return s.client.Set(ctx, docID(index, id), body, 0).Err()
}

func (s *RedisStore) DeleteIndex(ctx context.Context, index string) error {
	pattern := index + ":*"
	fiberlog.Debugf("RedisStore: clearing index %s", index)

	var cursor uint64
	deleted := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, deleteScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			// one DEL per SCAN page
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	fiberlog.Debugf("RedisStore: cleared %d documents from index %s", deleted, index)
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
