package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelriver/doccache/pkg/models"
	"github.com/modelriver/doccache/pkg/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*store.RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	docStore, err := store.NewRedisStore(client)
	require.NoError(t, err)
	return docStore, mr, client
}

func newCompletionCache(t *testing.T, cfg models.CacheConfig) (*CompletionCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	docStore, mr, client := setupRedisStore(t)
	cc, err := NewCompletionCache(docStore, cfg)
	require.NoError(t, err)
	return cc, mr, client
}

func TestCompletionCacheMiss(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))

	completions, found, err := cc.Lookup(context.Background(), "never written", models.Params{"model": "gpt-4o"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, completions)
}

func TestCompletionCacheRoundTrip(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o", "temperature": 0.7}

	require.NoError(t, cc.Update(ctx, "tell me a joke", params, []string{"why did the gopher cross the road"}))

	completions, found, err := cc.Lookup(ctx, "tell me a joke", params)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"why did the gopher cross the road"}, completions)
}

func TestCompletionCacheAppendPreservesOrder(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	require.NoError(t, cc.Update(ctx, "prompt", params, []string{"a"}))
	require.NoError(t, cc.Update(ctx, "prompt", params, []string{"b"}))

	completions, found, err := cc.Lookup(ctx, "prompt", params)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, completions)
}

func TestCompletionCacheEmptyDocumentIsMiss(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	// document exists but holds no completions yet
	require.NoError(t, cc.Update(ctx, "prompt", params, nil))

	_, found, err := cc.Lookup(ctx, "prompt", params)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCompletionCacheParamsScopeKeys(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()

	require.NoError(t, cc.Update(ctx, "prompt", models.Params{"model": "gpt-4o"}, []string{"a"}))

	_, found, err := cc.Lookup(ctx, "prompt", models.Params{"model": "gpt-4o-mini"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCompletionCacheDocumentFields(t *testing.T) {
	cfg := models.DefaultCacheConfig("llm")
	cfg.Metadata = map[string]any{"team": "platform"}
	cc, _, client := newCompletionCache(t, cfg)
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	require.NoError(t, cc.Update(ctx, "tell me a joke", params, []string{"a"}))

	key, err := Key("tell me a joke", params)
	require.NoError(t, err)

	raw, err := client.Get(ctx, "llm:"+key).Bytes()
	require.NoError(t, err)

	var doc models.CacheDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "tell me a joke", doc.Input)
	assert.NotEmpty(t, doc.Params)
	assert.False(t, doc.Timestamp.IsZero())
	assert.Equal(t, "platform", doc.Metadata["team"])

	// stored input+params re-derive the document's own key
	assert.True(t, VerifyKey(doc, key))
}

func TestCompletionCacheFieldTogglesOff(t *testing.T) {
	cfg := models.CacheConfig{Index: "llm"}
	cc, _, client := newCompletionCache(t, cfg)
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	require.NoError(t, cc.Update(ctx, "prompt", params, []string{"a"}))

	key, err := Key("prompt", params)
	require.NoError(t, err)

	raw, err := client.Get(ctx, "llm:"+key).Bytes()
	require.NoError(t, err)

	var doc models.CacheDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Empty(t, doc.Input)
	assert.Empty(t, doc.Params)
	assert.True(t, doc.Timestamp.IsZero())
	assert.Equal(t, []string{"a"}, doc.Generations)
}

func TestCompletionCacheMalformedDocument(t *testing.T) {
	cc, _, client := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	key, err := Key("prompt", params)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "llm:"+key, "not json", 0).Err())

	_, found, err := cc.Lookup(ctx, "prompt", params)
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, models.IsDeserializationError(err))

	// update must not silently clobber a document it cannot read
	err = cc.Update(ctx, "prompt", params, []string{"a"})
	require.Error(t, err)
	assert.True(t, models.IsDeserializationError(err))
}

func TestCompletionCacheStoreErrorPropagates(t *testing.T) {
	cc, mr, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	mr.Close()

	_, found, err := cc.Lookup(ctx, "prompt", params)
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, models.IsStoreError(err))

	err = cc.Update(ctx, "prompt", params, []string{"a"})
	require.Error(t, err)
	assert.True(t, models.IsStoreError(err))
}

func TestCompletionCacheSerializationErrorPropagates(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	bad := models.Params{"fn": func() {}}

	_, _, err := cc.Lookup(ctx, "prompt", bad)
	require.Error(t, err)
	assert.True(t, models.IsSerializationError(err))

	err = cc.Update(ctx, "prompt", bad, []string{"a"})
	require.Error(t, err)
	assert.True(t, models.IsSerializationError(err))
}

func TestCompletionCacheClear(t *testing.T) {
	cc, _, _ := newCompletionCache(t, models.DefaultCacheConfig("llm"))
	ctx := context.Background()
	params := models.Params{"model": "gpt-4o"}

	require.NoError(t, cc.Update(ctx, "prompt", params, []string{"a"}))
	require.NoError(t, cc.Clear(ctx))

	_, found, err := cc.Lookup(ctx, "prompt", params)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewCompletionCacheValidation(t *testing.T) {
	docStore, _, _ := setupRedisStore(t)

	_, err := NewCompletionCache(nil, models.DefaultCacheConfig("llm"))
	assert.Error(t, err)

	_, err = NewCompletionCache(docStore, models.CacheConfig{})
	assert.Error(t, err)
}
