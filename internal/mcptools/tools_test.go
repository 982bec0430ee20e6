package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/perfectemail/internal/disposable"
)

func newTestToolset() *Toolset {
	return NewToolset(disposable.New("burner.test"), 4)
}

func toolHandler(t *testing.T, ts *Toolset, name string) mcpserver.ToolHandlerFunc {
	t.Helper()
	for _, tool := range ts.ServerTools() {
		if tool.Tool.Name == name {
			return tool.Handler
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func callTool(t *testing.T, ts *Toolset, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := toolHandler(t, ts, name)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), v))
}

func TestServerTools_Registered(t *testing.T) {
	tools := newTestToolset().ServerTools()

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
		assert.NotNil(t, tool.Handler, tool.Tool.Name)
	}
	assert.Equal(t, []string{
		ToolValidate,
		ToolNormalize,
		ToolFix,
		ToolCheckDisposable,
		ToolFixEmails,
		ToolListProviders,
	}, names)
}

func TestValidateTool(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{" user@example.com", false},
		{"user@@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			var got validateResult
			decodeResult(t, callTool(t, ts, ToolValidate, map[string]any{"email": tt.email}), &got)
			assert.Equal(t, validateResult{Email: tt.email, Valid: tt.valid}, got)
		})
	}
}

func TestNormalizeTool(t *testing.T) {
	ts := newTestToolset()

	var got normalizeResult
	decodeResult(t, callTool(t, ts, ToolNormalize, map[string]any{"email": "  John.Doe+x@Example.COM "}), &got)
	assert.Equal(t, "john.doe@example.com", got.Normalized)
	assert.Equal(t, "  John.Doe+x@Example.COM ", got.Input)
}

func TestNormalizeTool_RejectsBadInput(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		name     string
		args     map[string]any
		contains string
	}{
		{"invalid", map[string]any{"email": "bad"}, "invalid email format"},
		{"blank", map[string]any{"email": "   "}, "email is empty"},
		{"missing", map[string]any{}, "email"},
		{"wrong_type", map[string]any{"email": 42}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, ts, ToolNormalize, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.contains)
		})
	}
}

func TestFixTool(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		email   string
		fixed   string
		changed bool
		match   string
	}{
		{"alice@gmial.com", "alice@gmail.com", true, "exact"},
		{"Bob@Yahooo.com", "bob@yahoo.com", true, "fuzzy"},
		{"carol@hotmail.com", "carol@hotmail.com", false, "canonical"},
		{"dave@example.com", "dave@example.com", false, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			var got fixResult
			decodeResult(t, callTool(t, ts, ToolFix, map[string]any{"email": tt.email}), &got)
			assert.Equal(t, fixResult{Input: tt.email, Fixed: tt.fixed, Changed: tt.changed, Match: tt.match}, got)
		})
	}

	result := callTool(t, ts, ToolFix, map[string]any{"email": "alice@"})
	assert.True(t, result.IsError)
}

func TestCheckDisposableTool(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		input      string
		disposable bool
	}{
		{"someone@0-mail.com", true},
		{"@0-maIl.Com", true},
		{"me@burner.test", true},
		{"someone@gmail.com", false},
		{"someone", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got disposableResult
			decodeResult(t, callTool(t, ts, ToolCheckDisposable, map[string]any{"email": tt.input}), &got)
			assert.Equal(t, tt.disposable, got.Disposable)
		})
	}
}

func TestFixEmailsTool(t *testing.T) {
	ts := newTestToolset()

	var got batchResult
	decodeResult(t, callTool(t, ts, ToolFixEmails, map[string]any{
		"emails": "alice@gmial.com\n# comment\nbad\n\nbob@yahoo.com\n",
	}), &got)

	assert.Equal(t, "fix", got.Operation)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Equal(t, 2, got.Summary.Valid)
	assert.Equal(t, 1, got.Summary.Invalid)
	assert.Equal(t, 1, got.Summary.Changed)

	require.Len(t, got.Results, 3)
	assert.Equal(t, "alice@gmail.com", got.Results[0].Output)
	assert.True(t, got.Results[0].Changed)
	assert.Equal(t, "exact", got.Results[0].Match)
	assert.Equal(t, "bad", got.Results[1].Input)
	assert.NotEmpty(t, got.Results[1].Error)
	assert.False(t, got.Results[1].Changed)
	assert.Empty(t, got.Results[1].Match)
	assert.Equal(t, "bob@yahoo.com", got.Results[2].Output)
	assert.False(t, got.Results[2].Changed)
	assert.Equal(t, "canonical", got.Results[2].Match)
}

func TestFixEmailsTool_Operation(t *testing.T) {
	ts := newTestToolset()

	var got batchResult
	decodeResult(t, callTool(t, ts, ToolFixEmails, map[string]any{
		"emails":    "A+b@Example.com",
		"operation": "normalize",
	}), &got)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "a@example.com", got.Results[0].Output)
	assert.True(t, got.Results[0].Changed)
	assert.Empty(t, got.Results[0].Match)

	result := callTool(t, ts, ToolFixEmails, map[string]any{
		"emails":    "a@example.com",
		"operation": "shout",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unknown batch operation")
}

func TestListProvidersTool(t *testing.T) {
	ts := newTestToolset()

	var got []providerResult
	decodeResult(t, callTool(t, ts, ToolListProviders, nil), &got)

	require.Len(t, got, 5)
	var domains []string
	for _, p := range got {
		domains = append(domains, p.Domain)
	}
	assert.Equal(t, []string{"gmail.com", "hotmail.com", "icloud.com", "outlook.com", "yahoo.com"}, domains)
	assert.Len(t, got[0].Typos, 37)
	assert.Contains(t, got[0].Typos, "gmial.com")
}
