package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

type MCPConfig struct {
	URL           string
	APIKey        string
	ToolPrefix    string
	ClientName    string
	ClientVersion string
}

// MCPTransport speaks MCP over streamable HTTP. The session is created on
// the first call and reused afterwards.
type MCPTransport struct {
	cfg MCPConfig

	mu     sync.Mutex
	client *client.Client
}

func NewMCPTransport(cfg MCPConfig) *MCPTransport {
	if cfg.ClientName == "" {
		cfg.ClientName = "jetset"
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = "dev"
	}
	return &MCPTransport{cfg: cfg}
}

func (t *MCPTransport) session(ctx context.Context) (*client.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}

	var opts []transport.StreamableHTTPCOption
	if t.cfg.APIKey != "" {
		opts = append(opts, transport.WithHTTPHeaders(map[string]string{
			"Authorization": "Bearer " + t.cfg.APIKey,
		}))
	}

	c, err := client.NewStreamableHttpClient(t.cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mcp client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    t.cfg.ClientName,
		Version: t.cfg.ClientVersion,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize mcp session: %w", err)
	}

	t.client = c
	return c, nil
}

func (t *MCPTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	c, err := t.session(ctx)
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = t.cfg.ToolPrefix + name
	req.Params.Arguments = args

	res, err := c.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call tool %s: %w", name, err)
	}

	items := textItems(res.Content)
	if res.IsError {
		return nil, &ToolError{Tool: name, Message: errorText(items)}
	}

	text, ok := firstText(items)
	if !ok {
		return nil, fmt.Errorf("call tool %s: no text content in result", name)
	}
	return decodeText(text), nil
}

func (t *MCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

func textItems(contents []mcp.Content) []contentItem {
	items := make([]contentItem, 0, len(contents))
	for _, c := range contents {
		switch tc := c.(type) {
		case mcp.TextContent:
			items = append(items, contentItem{Type: "text", Text: tc.Text})
		case *mcp.TextContent:
			items = append(items, contentItem{Type: "text", Text: tc.Text})
		}
	}
	return items
}
