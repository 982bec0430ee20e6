package internal

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgellow/perfectemail/internal/config"
	"github.com/dgellow/perfectemail/internal/disposable"
	"github.com/dgellow/perfectemail/internal/log"
	"github.com/dgellow/perfectemail/internal/mcptools"
	"github.com/dgellow/perfectemail/internal/server"
)

const shutdownTimeout = 30 * time.Second

// PerfectEmail is the long-running MCP service
type PerfectEmail struct {
	config     config.Config
	mcp        *mcptools.Server
	httpServer *server.HTTPServer
}

// New builds the service and all of its dependencies from cfg
func New(cfg config.Config, version string) (*PerfectEmail, error) {
	log.LogInfoWithFields("perfectemail", "Building service", map[string]any{
		"name":            cfg.Name,
		"transport":       string(cfg.Transport),
		"extraDisposable": len(cfg.Disposable.ExtraDomains),
	})

	checker := disposable.New(cfg.Disposable.ExtraDomains...)
	tools := mcptools.NewToolset(checker, cfg.Batch.Concurrency)

	mcpServer, err := mcptools.NewServer(cfg, tools)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	app := &PerfectEmail{
		config: cfg,
		mcp:    mcpServer,
	}

	if cfg.Transport.IsHTTP() {
		handler := server.NewHandler(server.HandlerConfig{
			Name:           cfg.Name,
			Version:        version,
			Transport:      cfg.Transport,
			MCP:            mcpServer.Handler(),
			API:            server.NewAPI(checker),
			AllowedOrigins: cfg.AllowedOrigins,
		})
		app.httpServer = server.NewHTTPServer(handler, cfg.Addr)
	}

	return app, nil
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// transport fails. With the stdio transport it also returns when stdin closes.
func (p *PerfectEmail) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if p.httpServer == nil {
		err := p.mcp.ServeStdio(ctx, stdin, stdout)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("stdio server error: %w", err)
		}
		log.LogInfoWithFields("perfectemail", "Stdio session ended", nil)
		return nil
	}

	return p.runHTTP(ctx)
}

func (p *PerfectEmail) runHTTP(ctx context.Context) error {
	log.LogInfoWithFields("perfectemail", "Starting HTTP service", map[string]any{
		"addr":      p.config.Addr,
		"transport": string(p.config.Transport),
	})

	errChan := make(chan error, 1)
	go func() {
		if err := p.httpServer.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var shutdownReason string
	var runErr error
	select {
	case <-ctx.Done():
		shutdownReason = "signal or context cancelled"
		log.LogInfoWithFields("perfectemail", "Received shutdown signal", nil)
	case err := <-errChan:
		shutdownReason = fmt.Sprintf("error: %v", err)
		runErr = err
		log.LogErrorWithFields("perfectemail", "Shutting down due to error", map[string]any{
			"error": err.Error(),
		})
	}

	log.LogInfoWithFields("perfectemail", "Starting graceful shutdown", map[string]any{
		"reason":  shutdownReason,
		"timeout": shutdownTimeout.String(),
	})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Close MCP sessions first so streaming connections do not hold the
	// HTTP server open.
	if err := p.mcp.Shutdown(shutdownCtx); err != nil {
		log.LogWarnWithFields("perfectemail", "MCP transport shutdown error", map[string]any{
			"error": err.Error(),
		})
	}
	if err := p.httpServer.Stop(shutdownCtx); err != nil {
		log.LogErrorWithFields("perfectemail", "HTTP server shutdown error", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	log.LogInfoWithFields("perfectemail", "Shutdown complete", map[string]any{
		"reason": shutdownReason,
	})
	return runErr
}
