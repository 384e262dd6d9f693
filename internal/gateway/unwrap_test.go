package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrap(t *testing.T) {
	in := map[string]any{
		"status": true,
		"data":   `{"flightOffers": "[{\"token\": \"abc\"}]", "note": "{not json"}`,
		"list":   []any{`[1, 2]`, "plain", float64(3)},
	}

	got := Unwrap(in)

	assert.Equal(t, map[string]any{
		"status": true,
		"data": map[string]any{
			"flightOffers": []any{map[string]any{"token": "abc"}},
			"note":         "{not json",
		},
		"list": []any{[]any{float64(1), float64(2)}, "plain", float64(3)},
	}, got)
}

func TestUnwrap_TopLevelString(t *testing.T) {
	assert.Equal(t, map[string]any{"a": "b"}, Unwrap(`  {"a": "b"} `))
	assert.Equal(t, "hello", Unwrap("hello"))
	assert.Equal(t, "{}x", Unwrap("{}x"))
	assert.Nil(t, Unwrap(nil))
}
