package server

import (
	"net/http"

	"github.com/dgellow/perfectemail/internal/config"
	jsonwriter "github.com/dgellow/perfectemail/internal/json"
)

// HandlerConfig describes what NewHandler mounts.
type HandlerConfig struct {
	Name           string
	Version        string
	Transport      config.TransportType
	MCP            http.Handler // SSE or streamable HTTP transport; may be nil
	API            *API         // may be nil
	AllowedOrigins []string
}

// NewHandler builds the HTTP routing for the HTTP transports: /health, the
// MCP endpoints and the JSON API, all behind logging, CORS and panic
// recovery.
func NewHandler(cfg HandlerConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", NewHealthHandler(cfg.Name, cfg.Version))

	if cfg.MCP != nil {
		switch cfg.Transport {
		case config.TransportStreamable:
			mux.Handle("/mcp", cfg.MCP)
		case config.TransportSSE:
			mux.Handle("/sse", cfg.MCP)
			mux.Handle("/message", cfg.MCP)
		}
	}

	if cfg.API != nil {
		cfg.API.Register(mux)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		jsonwriter.WriteNotFound(w, "no route for "+r.URL.Path)
	})

	return ChainMiddleware(mux,
		NewRecoverMiddleware("http"),
		NewCORSMiddleware(cfg.AllowedOrigins),
		NewLoggerMiddleware("http"),
	)
}
