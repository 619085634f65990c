package heuristics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestAnalyzeStructure(t *testing.T) {
	v := decode(t, `{"b": 1, "a": {"x": {"y": true}}, "c": [1, "two", null]}`)

	info := AnalyzeStructure(v)
	assert.Equal(t, []string{"a", "b", "c"}, info.Keys)
	assert.Equal(t, 2, info.Depth)
	assert.True(t, info.HasNested)
	assert.Equal(t, []string{"boolean", "null", "number", "string"}, info.DataTypes.Primitives)
	assert.Equal(t, []string{"array", "object"}, info.DataTypes.Complex)
	assert.Greater(t, info.Size, 0)
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth(decode(t, `{}`)))
	assert.Equal(t, 0, Depth(decode(t, `{"a": 1}`)))
	assert.Equal(t, 1, Depth(decode(t, `{"a": {}}`)))
	// arrays are not descended into
	assert.Equal(t, 0, Depth(decode(t, `{"a": [{"b": {}}]}`)))
	assert.Equal(t, 0, Depth(decode(t, `[{"a": {}}]`)))
}

func TestHasNested(t *testing.T) {
	assert.False(t, HasNested(decode(t, `{"a": 1}`)))
	assert.True(t, HasNested(decode(t, `{"a": []}`)))
	assert.False(t, HasNested(decode(t, `[[1]]`)))
}

func TestAnalyzeStructureNonObject(t *testing.T) {
	info := AnalyzeStructure(decode(t, `[1, 2]`))
	assert.Empty(t, info.Keys)
	assert.Equal(t, []string{"array"}, info.DataTypes.Complex)
	assert.Equal(t, []string{"number"}, info.DataTypes.Primitives)
	assert.Equal(t, 5, info.Size)
}
