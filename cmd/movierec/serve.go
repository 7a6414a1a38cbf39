package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	chiTransport "github.com/kailas-cloud/movierec/internal/transport/chi"
	mcpTransport "github.com/kailas-cloud/movierec/internal/transport/mcp"
	"github.com/kailas-cloud/movierec/internal/version"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server with the search page at /, the JSON endpoint
POST /recommend, /health and /metrics. When mcp.mount is set the MCP
streamable HTTP endpoint is mounted as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.bootstrap(cmd.Context(), func(c *config.Config) {
				if port > 0 {
					c.HTTP.Port = port
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()
			defer func() { _ = a.logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides config)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting movierec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("policy", cfg.Engine.Policy),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	server := chiTransport.NewServer(a.rec, a.health, logger)
	r := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:           cfg.Auth.APIKeys,
		AllowedOrigins:    cfg.HTTP.CORS.AllowedOrigins,
		CORSMaxAge:        cfg.HTTP.CORS.MaxAgeSec,
		RateLimitRequests: cfg.HTTP.RateLimit.Requests,
		RateLimitWindow:   time.Duration(cfg.HTTP.RateLimit.WindowSec) * time.Second,
	}, logger)

	if cfg.MCP.Mount {
		mcpServer, err := mcpTransport.NewServer(&mcpTransport.Ports{Recommender: a.rec, Catalog: a.engine})
		if err != nil {
			return fmt.Errorf("create mcp server: %w", err)
		}
		r.Handle(cfg.MCP.Path, mcpServer.Handler())
		logger.Info("MCP endpoint mounted", zap.String("path", cfg.MCP.Path))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
