// Command updatelensd is the updatelens API service.
// It serves the metrics REST API and a health check, configured from
// UPDATELENS_CONFIG and the environment.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/updatelens/updatelens/internal/api"
	"github.com/updatelens/updatelens/internal/datasource"
	"github.com/updatelens/updatelens/internal/logging"
	"github.com/updatelens/updatelens/pkg/config"
	"github.com/updatelens/updatelens/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("updatelensd exited")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Resolve(os.Getenv("UPDATELENS_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closer, err := logging.Init(logging.Options{
		Verbose:  cfg.Logging.Verbose || envOrDefault("UPDATELENS_VERBOSE", "") != "",
		Dir:      cfg.Logging.Dir,
		FileName: "updatelensd.log",
	})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	src, err := datasource.NewSource(ctx, cfg.Data)
	if err != nil {
		return fmt.Errorf("data source: %w", err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	h := api.NewHandler(
		datasource.NewLoader(src),
		metrics.NewEngine(metrics.MetricsFor(tuning)...),
		api.NewResultCache(cfg.Server.CacheSize),
	)
	h.Warm(ctx)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(h, api.RouterOptions{
			CORSOrigins: cfg.Server.CORSOrigins,
			APIKey:      cfg.Server.APIKey,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("source", src.String()).Int("port", cfg.Server.Port).Msg("starting updatelensd")
	return api.ListenAndServe(ctx, srv)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
