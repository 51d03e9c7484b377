package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Location is used for timestamps the server sends without a zone
// (LocalDateTime strings and arrays).
var Location = time.Local

// first returns the first non-nil value among keys.
func first(rec map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// object returns rec[key] when it is a JSON object.
func object(rec map[string]any, key string) map[string]any {
	m, _ := rec[key].(map[string]any)
	return m
}

// scalarString converts a JSON scalar to its string form.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case map[string]any, []any:
		return "", false
	default:
		s, err := cast.ToStringE(t)
		return s, err == nil
	}
}

// str returns the first non-nil scalar among keys as a string ("" if none).
func str(rec map[string]any, keys ...string) string {
	v, ok := first(rec, keys...)
	if !ok {
		return ""
	}
	s, _ := scalarString(v)
	return s
}

// nonEmpty returns the first key whose scalar value is a non-blank string.
func nonEmpty(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := scalarString(rec[k]); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// number returns the first numeric value among keys. Numeric strings count,
// booleans and containers do not.
func number(rec map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := rec[k].(type) {
		case nil, bool, map[string]any, []any:
			continue
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return int(f), true
			}
		default:
			if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return int(f), true
			}
		}
	}
	return 0, false
}

// count is number with a floor of zero.
func count(rec map[string]any, keys ...string) int {
	n, _ := number(rec, keys...)
	return max(n, 0)
}

// truthy follows loose truthiness: false, 0, "" and "false" are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
		return t != ""
	case map[string]any, []any:
		return true
	default:
		f, ok := toFloat(t)
		return ok && f != 0
	}
}

// flag returns the first strictly boolean value among keys, else the
// truthiness of the first present value of fallback.
func flag(rec map[string]any, keys []string, fallback ...string) bool {
	for _, k := range keys {
		if b, ok := rec[k].(bool); ok {
			return b
		}
	}
	v, _ := first(rec, fallback...)
	return truthy(v)
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// timestamp parses the first present value among keys. Strings in ISO-8601
// or Spring LocalDateTime form, epoch seconds/millis and [y,m,d,h,mi,s,ns]
// arrays are understood. Unparseable or missing values give the zero time.
func timestamp(rec map[string]any, keys ...string) time.Time {
	v, ok := first(rec, keys...)
	if !ok {
		return time.Time{}
	}
	return parseTime(v)
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range layouts {
			if ts, err := time.ParseInLocation(layout, s, Location); err == nil {
				return ts
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return epoch(f)
		}
	case []any:
		return fromParts(t)
	case bool, map[string]any:
	default:
		if f, ok := toFloat(t); ok {
			return epoch(f)
		}
	}
	return time.Time{}
}

func epoch(f float64) time.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}
	}
	if f >= 1e12 {
		return time.UnixMilli(int64(f))
	}
	return time.Unix(int64(f), 0)
}

func fromParts(parts []any) time.Time {
	if len(parts) < 3 {
		return time.Time{}
	}
	n := make([]int, 7)
	for i := 0; i < len(parts) && i < 7; i++ {
		v, ok := toFloat(parts[i])
		if !ok {
			return time.Time{}
		}
		n[i] = int(v)
	}
	return time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], n[6], Location)
}

// toFloat converts JSON numbers and Go numeric types.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string, bool, nil, map[string]any, []any:
		return 0, false
	default:
		f, err := cast.ToFloat64E(t)
		return f, err == nil
	}
}
