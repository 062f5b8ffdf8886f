package validation

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// maxSafeInt is the largest integer a JSON number carries without loss (2^53 - 1).
const maxSafeInt = 1<<53 - 1

func coerce(f *Field, raw any) (any, bool) {
	switch f.kind {
	case KindString:
		if s, ok := raw.(string); ok {
			return s, true
		}
		if f.coerce {
			if _, isComposite := composite(raw); isComposite {
				return nil, false
			}
			s, err := cast.ToStringE(raw)
			return s, err == nil
		}
	case KindInt:
		n, ok := toNumber(raw, f.coerce)
		if !ok || n != math.Trunc(n) || math.Abs(n) > maxSafeInt {
			return nil, false
		}
		return int64(n), true
	case KindNumber:
		return toNumber(raw, f.coerce)
	case KindBool:
		if b, ok := raw.(bool); ok {
			return b, true
		}
		if s, ok := raw.(string); ok && f.coerce {
			b, err := cast.ToBoolE(strings.TrimSpace(s))
			return b, err == nil
		}
	}
	return nil, false
}

func toNumber(raw any, allowString bool) (float64, bool) {
	var (
		n   float64
		err error
	)
	switch v := raw.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		n, err = cast.ToFloat64E(v)
	case string:
		s := strings.TrimSpace(v)
		if !allowString || s == "" {
			return 0, false
		}
		n, err = cast.ToFloat64E(s)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func composite(raw any) (string, bool) {
	switch raw.(type) {
	case map[string]any:
		return "object", true
	case []any:
		return "array", true
	}
	return "", false
}

// describe names the JSON type of raw for type mismatch messages.
func describe(raw any) string {
	if name, ok := composite(raw); ok {
		return name
	}
	switch v := raw.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v != math.Trunc(v) {
			return "float"
		}
		return "number"
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case nil:
		return "null"
	}
	return "unknown"
}
