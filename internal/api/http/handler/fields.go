package handler

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxCount keeps decoded counters within int range on every platform.
const maxCount = math.MaxInt32

// textField renders a loosely typed JSON scalar as a string. Objects, arrays
// and null yield "".
func textField(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// countField truncates a numeric JSON value, or a numeric string, to an int.
// Anything else is treated as absent.
func countField(v any) *int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	n := int(math.Max(math.Min(math.Trunc(f), maxCount), -maxCount))
	return &n
}
