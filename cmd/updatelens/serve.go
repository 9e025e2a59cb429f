package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/updatelens/updatelens/internal/api"
	"github.com/updatelens/updatelens/internal/mcptools"
)

func newServeCmd(g *globalOpts) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metrics REST API",
		Long: `Starts an HTTP server exposing the metrics under /api/v1. The dataset is
loaded in the background on startup and shared by every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to serve on (default from config, 8080)")
	return cmd
}

func runServe(ctx context.Context, g *globalOpts, port int) error {
	a, err := newApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	h := api.NewHandler(a.loader, a.engine, api.NewResultCache(a.cfg.Server.CacheSize))
	h.Warm(ctx)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", port),
		Handler: api.NewRouter(h, api.RouterOptions{
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api.ListenAndServe(ctx, srv)
}

func newMCPCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve metrics as MCP tools over stdio",
		Long: `Runs a Model Context Protocol server on stdin/stdout so chat assistants
can list and compute metrics. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()
			return mcptools.Run(cmd.Context(), a.loader, a.engine, version)
		},
	}
}
