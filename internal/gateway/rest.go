package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

type RESTConfig struct {
	BaseURL    string
	APIKey     string
	ServerID   string
	ToolPrefix string
	HTTPClient *http.Client
}

// RESTTransport calls tools through an MCP gateway's REST bridge at
// {base}/mcp-rest/tools/call.
type RESTTransport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu         sync.Mutex
	serverID   string
	toolPrefix string
}

func NewRESTTransport(cfg RESTConfig) *RESTTransport {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTTransport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: client,
		serverID:   cfg.ServerID,
		toolPrefix: cfg.ToolPrefix,
	}
}

type toolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	ServerID  string         `json:"server_id"`
}

type toolEnvelope struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError"`
}

func (t *RESTTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	serverID, prefix, err := t.server(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(toolCall{Name: prefix + name, Arguments: args, ServerID: serverID})
	if err != nil {
		return nil, fmt.Errorf("encode tool call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/mcp-rest/tools/call", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	t.setHeaders(req)

	data, err := t.do(req)
	if err != nil {
		return nil, err
	}

	var items []contentItem
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode tool content: %w", err)
		}
	} else {
		var env toolEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode tool response: %w", err)
		}
		if env.IsError {
			return nil, &ToolError{Tool: name, Message: errorText(env.Content)}
		}
		items = env.Content
	}

	if text, ok := firstText(items); ok {
		return decodeText(text), nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode tool response: %w", err)
	}
	return raw, nil
}

func (t *RESTTransport) Close() error {
	return nil
}

type gatewayServer struct {
	ServerID   string `json:"server_id"`
	ServerName string `json:"server_name"`
	Alias      string `json:"alias"`
}

// server returns the configured server id and tool prefix, discovering them
// from {base}/v1/mcp/server on first use when no id was configured.
func (t *RESTTransport) server(ctx context.Context) (string, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.serverID != "" {
		return t.serverID, t.toolPrefix, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v1/mcp/server", nil)
	if err != nil {
		return "", "", fmt.Errorf("create discovery request: %w", err)
	}
	t.setHeaders(req)

	data, err := t.do(req)
	if err != nil {
		return "", "", fmt.Errorf("discover travel server: %w", err)
	}

	var servers []gatewayServer
	if err := json.Unmarshal(data, &servers); err != nil {
		return "", "", fmt.Errorf("decode server list: %w", err)
	}

	for _, s := range servers {
		if !strings.Contains(strings.ToLower(s.ServerName), "booking") {
			continue
		}
		t.serverID = s.ServerID
		if s.Alias != "" && t.toolPrefix == "" {
			t.toolPrefix = s.Alias + "-"
		}
		return t.serverID, t.toolPrefix, nil
	}
	return "", "", fmt.Errorf("discover travel server: no booking server among %d", len(servers))
}

func (t *RESTTransport) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
}

func (t *RESTTransport) do(req *http.Request) ([]byte, error) {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(data)
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}
	return data, nil
}
