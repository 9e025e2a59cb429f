// Package main provides the updatelens CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/updatelens/updatelens/internal/datasource"
	"github.com/updatelens/updatelens/internal/logging"
	"github.com/updatelens/updatelens/pkg/config"
	"github.com/updatelens/updatelens/pkg/metrics"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOpts are the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	dataSource string
	logDir     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}
	rootCmd := &cobra.Command{
		Use:   "updatelens",
		Short: "Analytics over Aadhaar enrolment and update activity",
		Long: `updatelens computes risk and behaviour indices (DPI, BAI, SUR, GFI, CCI,
mobility, composite risk) over pre-aggregated Aadhaar activity tables, flags
statistical anomalies, and renders the results as text, JSON, Markdown or
Excel workbooks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to config file (default: nearest .updatelens/config.yaml)")
	pf.StringVar(&g.dataSource, "data", "", "Dataset location: directory, http(s) URL, s3://bucket/prefix or gs://bucket/prefix")
	pf.StringVar(&g.logDir, "log-dir", "", "Write rotating logs to this directory")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newMetricCmd(g),
		newAnomalyCmd(g),
		newSeasonalCmd(g),
		newShockCmd(g),
		newListCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
	)
	return rootCmd
}

// app holds what a subcommand needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	loader  *datasource.Loader
	engine  *metrics.Engine
	closers []io.Closer
}

func newApp(ctx context.Context, g *globalOpts) (*app, error) {
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.dataSource != "" {
		cfg.Data.Source = g.dataSource
	}
	if g.logDir != "" {
		cfg.Logging.Dir = g.logDir
	}
	cfg.Logging.Verbose = cfg.Logging.Verbose || g.verbose

	a := &app{cfg: cfg}
	closer, err := logging.Init(logging.Options{Verbose: cfg.Logging.Verbose, Dir: cfg.Logging.Dir})
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	tuning, err := cfg.Tuning()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	src, err := datasource.NewSource(ctx, cfg.Data)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if c, ok := src.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.loader = datasource.NewLoader(src)
	a.engine = metrics.NewEngine(metrics.MetricsFor(tuning)...)
	return a, nil
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
