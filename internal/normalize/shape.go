package normalize

import (
	"slices"
	"strings"
)

// Shape describes how a list payload was delivered by the server.
type Shape string

const (
	ShapeArray   Shape = "array"
	ShapeSingle  Shape = "single"
	ShapeEmpty   Shape = "empty"
	ShapeUnknown Shape = "unknown"
)

func wrapped(key string) Shape {
	return Shape("wrapped:" + key)
}

// Wrapped reports whether the payload came inside an object under a list key.
func (s Shape) Wrapped() bool {
	return strings.HasPrefix(string(s), "wrapped:")
}

// Result is a normalized list plus what was learned while building it.
type Result[T any] struct {
	Items   []T
	Shape   Shape
	Dropped int // records that could not be mapped (bad id, not an object)
}

// Records extracts the raw records of a list payload. Accepted shapes are a
// bare array, an object wrapping an array under one of keys or "data", and a
// single object. A "data" object is searched once more for the same keys.
// Anything else (scalars, a wrapper key holding a non-array) is ShapeUnknown.
// Non-object array elements are skipped and counted.
func Records(payload any, keys ...string) ([]map[string]any, Shape, int) {
	switch v := payload.(type) {
	case nil:
		return nil, ShapeEmpty, 0
	case []any:
		recs, skipped := objects(v)
		if len(v) == 0 {
			return nil, ShapeEmpty, 0
		}
		return recs, ShapeArray, skipped
	case []map[string]any:
		return v, ShapeArray, 0
	case map[string]any:
		return fromObject(v, keys, true)
	default:
		return nil, ShapeUnknown, 0
	}
}

func fromObject(m map[string]any, keys []string, descend bool) ([]map[string]any, Shape, int) {
	if len(m) == 0 {
		return nil, ShapeEmpty, 0
	}
	for _, key := range slices.Concat(keys, []string{"data"}) {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		switch list := raw.(type) {
		case []any:
			recs, skipped := objects(list)
			return recs, wrapped(key), skipped
		case map[string]any:
			if key == "data" && descend {
				return fromObject(list, keys, false)
			}
			return nil, ShapeUnknown, 0
		default:
			return nil, ShapeUnknown, 0
		}
	}
	return []map[string]any{m}, ShapeSingle, 0
}

func objects(list []any) ([]map[string]any, int) {
	out := make([]map[string]any, 0, len(list))
	skipped := 0
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
			continue
		}
		skipped++
	}
	return out, skipped
}
