package gateway

import (
	"encoding/json"
	"strings"
)

// Unwrap walks v and replaces every string that holds a JSON object or
// array with its decoded value. Travel tool payloads sometimes nest
// serialized JSON at arbitrary depth.
func Unwrap(v any) any {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if len(s) < 2 || (s[0] != '{' && s[0] != '[') {
			return t
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return t
		}
		return Unwrap(decoded)
	case map[string]any:
		for k, val := range t {
			t[k] = Unwrap(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = Unwrap(val)
		}
		return t
	default:
		return v
	}
}
