package mcptools

import (
	"context"
	"fmt"
	"io"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dgellow/perfectemail/internal/config"
	"github.com/dgellow/perfectemail/internal/log"
)

// serverVersion is reported to MCP clients during initialization.
const serverVersion = "1.0.0"

// mcpTransport is satisfied by both mcpserver.SSEServer and mcpserver.StreamableHTTPServer.
type mcpTransport interface {
	http.Handler
	Shutdown(context.Context) error
}

// Server owns the MCP server and, for HTTP transports, its handler.
type Server struct {
	name      string
	transport config.TransportType
	mcpServer *mcpserver.MCPServer
	http      mcpTransport
}

// NewServer registers the toolset on a new MCP server exposed over the
// transport named in cfg.
func NewServer(cfg config.Config, tools *Toolset) (*Server, error) {
	s := &Server{
		name:      cfg.Name,
		transport: cfg.Transport,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(s.onRegisterSession)
	hooks.AddOnUnregisterSession(s.onUnregisterSession)

	s.mcpServer = mcpserver.NewMCPServer(cfg.Name, serverVersion,
		mcpserver.WithHooks(hooks),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	serverTools := tools.ServerTools()
	s.mcpServer.AddTools(serverTools...)

	switch cfg.Transport {
	case config.TransportStdio:
	case config.TransportStreamable:
		s.http = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
				return r.Context()
			}),
		)
	case config.TransportSSE:
		s.http = mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithBaseURL(cfg.BaseURL),
		)
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}

	log.LogInfoWithFields("mcptools", "MCP server created", map[string]any{
		"server":    cfg.Name,
		"transport": string(cfg.Transport),
		"toolCount": len(serverTools),
	})

	return s, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Handler returns the HTTP handler for SSE and streamable HTTP transports,
// or nil for stdio.
func (s *Server) Handler() http.Handler {
	if s.http == nil {
		return nil
	}
	return s.http
}

// ServeStdio serves MCP over the given streams until ctx ends or stdin
// closes.
func (s *Server) ServeStdio(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if s.transport != config.TransportStdio {
		return fmt.Errorf("server %s is configured for %s, not stdio", s.name, s.transport)
	}
	log.LogInfoWithFields("mcptools", "Serving MCP over stdio", map[string]any{
		"server": s.name,
	})
	return mcpserver.NewStdioServer(s.mcpServer).Listen(ctx, stdin, stdout)
}

// Shutdown stops the HTTP transport, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) onRegisterSession(ctx context.Context, session mcpserver.ClientSession) {
	log.LogInfoWithFields("mcptools", "Session registered", map[string]any{
		"server":    s.name,
		"sessionID": session.SessionID(),
	})
}

func (s *Server) onUnregisterSession(ctx context.Context, session mcpserver.ClientSession) {
	log.LogInfoWithFields("mcptools", "Session unregistered", map[string]any{
		"server":    s.name,
		"sessionID": session.SessionID(),
	})
}
