package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var groupIDKeys = []string{"id", "_id", "groupId"}

// GroupID resolves the numeric id of a raw group record. The first present
// key among id, _id, groupId decides; its value must be a finite integral
// number or a numeric string, otherwise the record has no usable id.
func GroupID(rec map[string]any) (int64, bool) {
	v, ok := first(rec, groupIDKeys...)
	if !ok {
		return 0, false
	}
	return ParseGroupID(v)
}

// ParseGroupID coerces a single id value.
func ParseGroupID(v any) (int64, bool) {
	var f float64
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		return int64(t), true
	case int64:
		return t, true
	default:
		parsed, ok := toFloat(v)
		if !ok {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// StringID resolves an opaque id: the first present key among keys whose
// value is a non-blank string or a number.
func StringID(rec map[string]any, keys ...string) (string, bool) {
	v, ok := first(rec, keys...)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case bool, map[string]any, []any:
		return "", false
	default:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
}
