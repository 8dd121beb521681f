package clientcache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReusesClient(t *testing.T) {
	c := NewCache[*string]()
	calls := 0

	factory := func() (*string, error) {
		calls++
		s := "client"
		return &s, nil
	}

	first, err := c.GetOrCreate("redis://a", factory)
	require.NoError(t, err)
	second, err := c.GetOrCreate("redis://a", factory)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateDistinctKeys(t *testing.T) {
	c := NewCache[*string]()

	first, err := c.GetOrCreate("redis://a", func() (*string, error) { s := "a"; return &s, nil })
	require.NoError(t, err)
	second, err := c.GetOrCreate("redis://b", func() (*string, error) { s := "b"; return &s, nil })
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestGetOrCreateErrorNotCached(t *testing.T) {
	c := NewCache[*string]()

	_, err := c.GetOrCreate("redis://a", func() (*string, error) {
		return nil, errors.New("dial failed")
	})
	require.Error(t, err)

	// a later attempt gets a fresh factory run
	s := "ok"
	client, err := c.GetOrCreate("redis://a", func() (*string, error) { return &s, nil })
	require.NoError(t, err)
	assert.Same(t, &s, client)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	c := NewCache[*string]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrCreate("redis://a", func() (*string, error) {
				calls.Add(1)
				s := "client"
				return &s, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
