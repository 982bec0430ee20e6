package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/internal"
	"github.com/dgellow/perfectemail/internal/config"
	"github.com/dgellow/perfectemail/internal/log"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		transport string
		addr      string
		baseURL   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server",
		Long: `Run the MCP tool server. Flags override the config file.

Transports:
  stdio             speak MCP on stdin/stdout (default; for local MCP clients)
  sse               HTTP with server-sent events at /sse and /message
  streamable-http   HTTP at /mcp

The HTTP transports also serve:
  GET  /health
  POST /v1/validate | /v1/normalize | /v1/fix | /v1/disposable   {"email": "..."}

Examples:
  perfectemail serve
  perfectemail serve --transport streamable-http --addr :8080
  perfectemail serve -c config.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if transport != "" {
				cfg.Transport = config.TransportType(transport)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if err := config.ValidateConfig(&cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log.LogInfoWithFields("main", "Starting perfectemail", map[string]any{
				"version":   opts.version,
				"config":    opts.configPath,
				"transport": string(cfg.Transport),
			})

			app, err := internal.New(cfg, opts.version)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", "", "stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for HTTP transports")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public base URL for the sse transport")
	return cmd
}
