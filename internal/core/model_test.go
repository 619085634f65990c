package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONReformattedMarshal(t *testing.T) {
	t.Run("zero record encodes as empty object", func(t *testing.T) {
		b, err := json.Marshal(JSONReformatted{})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(b))
	})

	t.Run("empty details are kept", func(t *testing.T) {
		b, err := json.Marshal(JSONReformatted{
			Customer:    "Unknown",
			RequestType: "general",
			Details:     map[string]any{},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"customer":"Unknown","request_type":"general","details":{}}`, string(b))
	})
}

func TestRawInput(t *testing.T) {
	in := NewStructuredInput(map[string]any{"a": 1})
	assert.True(t, in.IsMapping())
	assert.JSONEq(t, `{"a":1}`, in.String())

	list := NewStructuredInput([]any{1, 2})
	assert.False(t, list.IsMapping())

	text := NewTextInput("hello")
	assert.False(t, text.IsMapping())
	assert.Equal(t, "hello", text.String())
}
