package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/perfectemail/internal/config"
)

func TestNewServer_Transports(t *testing.T) {
	tests := []struct {
		transport   config.TransportType
		wantHandler bool
		expectError bool
	}{
		{config.TransportStdio, false, false},
		{config.TransportSSE, true, false},
		{config.TransportStreamable, true, false},
		{"carrier-pigeon", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.transport), func(t *testing.T) {
			cfg := config.Default()
			cfg.Transport = tt.transport
			cfg.BaseURL = "http://localhost:8080"

			s, err := NewServer(cfg, newTestToolset())
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHandler, s.Handler() != nil)
			assert.NoError(t, s.Shutdown(context.Background()))
		})
	}
}

func TestServeStdio_WrongTransport(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportStreamable

	s, err := NewServer(cfg, newTestToolset())
	require.NoError(t, err)

	err = s.ServeStdio(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not stdio")
}

func TestServer_InProcessClient(t *testing.T) {
	ctx := context.Background()

	s, err := NewServer(config.Default(), newTestToolset())
	require.NoError(t, err)

	c, err := mcpclient.NewInProcessClient(s.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "1.0.0"}
	initResult, err := c.Initialize(ctx, initReq)
	require.NoError(t, err)
	assert.Equal(t, "perfectemail", initResult.ServerInfo.Name)

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	assert.Len(t, tools.Tools, 6)

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = ToolFix
	callReq.Params.Arguments = map[string]any{"email": "someone@hotmial.com"}
	result, err := c.CallTool(ctx, callReq)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got fixResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, "someone@hotmail.com", got.Fixed)
}
