package record

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// GetQuantity reads the integer quantity at path. Absent or non-numeric
// values read as 0 and fractional values are truncated.
func GetQuantity(r Record, path string) int {
	v, ok := r.Get(path)
	if !ok {
		return 0
	}
	n, ok := ToInt(v)
	if !ok {
		return 0
	}
	return n
}

// SetQuantity writes q at path without touching sibling fields.
func SetQuantity(r Record, path string, q int) {
	r.Set(path, q)
}

// ToInt converts the numeric representations found in decoded documents
// into an int.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// Equal compares two decoded values. Numbers compare by value regardless
// of their Go type so an int written by the engine equals the float64 read
// back from JSON.
func Equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
