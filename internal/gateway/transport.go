package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// Transport invokes one travel tool and returns its decoded payload: the
// first text content item, JSON-decoded when possible.
type Transport interface {
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)
	Close() error
}

// ToolError is a failure the travel service reported for a tool call.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s", e.Tool, e.Message)
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func firstText(items []contentItem) (string, bool) {
	for _, item := range items {
		if item.Type == "text" {
			return item.Text, true
		}
	}
	return "", false
}

func errorText(items []contentItem) string {
	if text, ok := firstText(items); ok && text != "" {
		return text
	}
	return "unknown error"
}

// decodeText returns the JSON value held in text, or text itself.
func decodeText(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}
