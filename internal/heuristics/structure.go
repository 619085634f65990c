package heuristics

import (
	"encoding/json"
	"sort"

	"github.com/mikey/llm-doc-triage/internal/core"
)

// JSON type names used in the type census
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeObject  = "object"
	TypeArray   = "array"
)

// AnalyzeStructure describes the shape of a decoded JSON value
func AnalyzeStructure(v any) core.StructureInfo {
	info := core.StructureInfo{
		Keys:      []string{},
		Depth:     Depth(v),
		Size:      encodedSize(v),
		HasNested: HasNested(v),
		DataTypes: census(v),
	}
	if m, ok := v.(map[string]any); ok {
		for k := range m {
			info.Keys = append(info.Keys, k)
		}
		sort.Strings(info.Keys)
	}
	return info
}

// Depth counts how many levels of objects are nested below a top-level object.
// Arrays are not descended into.
func Depth(v any) int {
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	deepest := 0
	for _, child := range m {
		if _, ok := child.(map[string]any); ok {
			if d := 1 + Depth(child); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// HasNested reports whether any top-level value is an object or array
func HasNested(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, child := range m {
		switch child.(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

// TypeName returns the JSON type name of a decoded value
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	default:
		return TypeString
	}
}

func census(v any) core.DataTypes {
	primitives := map[string]struct{}{}
	complexTypes := map[string]struct{}{}

	var walk func(any)
	walk = func(x any) {
		switch val := x.(type) {
		case map[string]any:
			complexTypes[TypeObject] = struct{}{}
			for _, child := range val {
				walk(child)
			}
		case []any:
			complexTypes[TypeArray] = struct{}{}
			for _, child := range val {
				walk(child)
			}
		default:
			primitives[TypeName(val)] = struct{}{}
		}
	}
	walk(v)

	return core.DataTypes{Primitives: sortedKeys(primitives), Complex: sortedKeys(complexTypes)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func encodedSize(v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}
