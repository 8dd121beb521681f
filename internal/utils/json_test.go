package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON(t *testing.T) {
	out, err := MarshalJSON(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestMarshalJSONNoHTMLEscaping(t *testing.T) {
	out, err := MarshalJSON(map[string]string{"text": "<prompt> & answer"})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"<prompt> & answer"}`, string(out))
}

func TestMarshalJSONReturnsPrivateCopy(t *testing.T) {
	first, err := MarshalJSON([]string{"a"})
	require.NoError(t, err)
	snapshot := string(first)

	// a second encode reuses the pooled buffer; the first result must survive
	_, err = MarshalJSON([]string{"something much longer than the first value"})
	require.NoError(t, err)

	assert.Equal(t, snapshot, string(first))
}

func TestMarshalJSONError(t *testing.T) {
	_, err := MarshalJSON(func() {})
	assert.Error(t, err)
}
