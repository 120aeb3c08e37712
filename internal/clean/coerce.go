package clean

import (
	"math"
	"strconv"
	"strings"
)

// IsUnknown reports if a value is one of the catalog's placeholder strings
// for missing data ("unknown" or "n/a", case and whitespace insensitive).
// Non-string values are never unknown.
func IsUnknown(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown", "n/a":
		return true
	}
	return false
}

// ConvertToFloat converts a numeric string or number to a float64.
// If unsuccessful, the value is returned unchanged.
func ConvertToFloat(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return value
		}
		return f
	}
	return value
}

// ConvertToInt converts an integer string or a number to an int64, numbers
// are truncated toward zero (2.5 becomes 2). If unsuccessful (ex. "1,000",
// "2.5", NaN or a value out of range) the value is returned unchanged.
func ConvertToInt(value any) any {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		if math.Abs(v) < math.MaxInt64 {
			return int64(math.Trunc(v))
		}
		return value
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return value
		}
		return i
	}
	return value
}

// ConvertToList splits a string on a delimiter and trims every element.
// Non-string values are returned unchanged.
func ConvertToList(value any, delimiter string) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	parts := strings.Split(s, delimiter)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
