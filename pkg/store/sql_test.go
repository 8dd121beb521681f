package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQL(t *testing.T) *SQLStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStorePutGet(t *testing.T) {
	s := setupSQL(t)
	ctx := context.Background()

	require.NoError(t, s.PutDocument(ctx, "idx", "doc1", []byte(`{"a":1}`)))

	body, found, err := s.GetDocument(ctx, "idx", "doc1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), body)
}

func TestSQLStoreMissingIsNotError(t *testing.T) {
	s := setupSQL(t)

	body, found, err := s.GetDocument(context.Background(), "idx", "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, body)
}

func TestSQLStoreUpsert(t *testing.T) {
	s := setupSQL(t)
	ctx := context.Background()

	require.NoError(t, s.PutDocument(ctx, "idx", "doc1", []byte(`one`)))
	require.NoError(t, s.PutDocument(ctx, "idx", "doc1", []byte(`two`)))

	body, found, err := s.GetDocument(ctx, "idx", "doc1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`two`), body)
}

func TestSQLStoreDeleteIndexScoped(t *testing.T) {
	s := setupSQL(t)
	ctx := context.Background()

	require.NoError(t, s.PutDocument(ctx, "idx", "doc1", []byte(`a`)))
	require.NoError(t, s.PutDocument(ctx, "other", "doc1", []byte(`b`)))

	require.NoError(t, s.DeleteIndex(ctx, "idx"))

	_, found, err := s.GetDocument(ctx, "idx", "doc1")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.GetDocument(ctx, "other", "doc1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSQLStorePing(t *testing.T) {
	s := setupSQL(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewSQLStoreRequiresDB(t *testing.T) {
	_, err := NewSQLStore(nil)
	assert.Error(t, err)
}
