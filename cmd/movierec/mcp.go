package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpTransport "github.com/kailas-cloud/movierec/internal/transport/mcp"
)

func newMCPCmd(flags *globalFlags) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server exposing the recommend tool and
the catalog resources.

By default the server speaks JSON-RPC over stdio, suitable for desktop AI
assistants. Use --http to serve streamable HTTP instead.

Examples:
  movierec mcp
  movierec mcp --http :8081`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.bootstrap(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			defer func() { _ = a.logger.Sync() }()

			server, err := mcpTransport.NewServer(&mcpTransport.Ports{Recommender: a.rec, Catalog: a.engine})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if httpAddr != "" {
				a.logger.Info("MCP server listening", zap.String("addr", httpAddr))
				return server.RunHTTP(ctx, httpAddr)
			}
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}
