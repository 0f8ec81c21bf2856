package parser

import (
	"encoding/json"
	"fmt"
	"time"
)

// CoerceMetadata converts a parser's {string -> any} metadata bag into the
// {string -> string} shape the store persists: strings/numbers/booleans
// stringified directly, timestamps ISO-formatted, lists and maps
// JSON-encoded.
func CoerceMetadata(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		s := coerceValue(v)
		if s != "" {
			out[k] = s
		}
	}
	return out
}

func coerceValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", t)
	case time.Time:
		return t.Format(time.RFC3339)
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	case []string:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", t)
	}
}
