package common

import (
	"math"
	"strconv"
	"strings"
)

// CoerceFloat reads a stat column value as float64. Anything that is not a
// finite number degrades to 0 so one corrupt row cannot stop a pass.
func CoerceFloat(v any) float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int64:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case []byte:
		return CoerceFloat(string(val))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceInt reads a count column as int. Floats are truncated; text must be
// an integer literal, otherwise the value degrades to 0.
func CoerceInt(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case int64:
		return int(val)
	case int:
		return val
	case int32:
		return int(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return int(val)
	case float32:
		return CoerceInt(float64(val))
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return parsed
	case []byte:
		return CoerceInt(string(val))
	default:
		return 0
	}
}
