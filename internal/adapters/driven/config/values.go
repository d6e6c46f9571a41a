// Package config holds the value conversions shared by ConfigStore
// implementations. TOML decodes integers as int64 and floats as float64,
// while callers of Set pass native Go values, so both shapes are accepted.
package config

import (
	"strconv"
	"time"
)

// String returns v as a string, or "" when it is not one.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int converts integer and float values to int.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

// Float converts numeric values to float64.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// Bool returns v as a bool, or false when it is not one.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Duration parses a Go duration string. Bare integers are seconds.
func Duration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0
		}
		return parsed
	case int64:
		return time.Duration(d) * time.Second
	case int:
		return time.Duration(d) * time.Second
	default:
		return 0
	}
}
