package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/updatelens/updatelens/internal/logging"
	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
	"github.com/updatelens/updatelens/pkg/surface"
)

// metricOpts are the flags that map onto metrics.Options plus output
// selection.
type metricOpts struct {
	state            string
	district         string
	level            string
	window           string
	pincodeMode      string
	sigma            float64
	pincodeThreshold float64
	topN             int
	weights          string
	months           string
	event            string
	windowDays       int

	outputFmt string
	outPath   string
}

func addFilterFlags(f *pflag.FlagSet, o *metricOpts) {
	f.StringVar(&o.state, "state", "", "Restrict to one state")
	f.StringVar(&o.district, "district", "", "Restrict to one district (with --state)")
	f.StringVar(&o.level, "level", "state", "Breakdown level: state or district")
}

func addOutputFlags(f *pflag.FlagSet, o *metricOpts) {
	f.StringVarP(&o.outputFmt, "output", "o", "text", "Output format: "+strings.Join(surface.Formats, ", "))
	f.StringVar(&o.outPath, "out", "", "Write output to this file instead of stdout")
}

func newMetricCmd(g *globalOpts) *cobra.Command {
	var o metricOpts

	cmd := &cobra.Command{
		Use:   "metric <key>",
		Short: "Compute one metric",
		Long: `Computes a single metric over the dataset. Run "updatelens list" for the
available keys. cci requires --pincode-mode; seasonal requires --months;
shock requires --event.`,
		Example: `  updatelens metric bai --state "West Bengal" --level district
  updatelens metric cci --pincode-mode district_proxy -o markdown
  updatelens metric composite --weights bai=0.4,cci=0.2 -o xlsx --out risk.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetric(cmd.Context(), g, args[0], o)
		},
	}

	f := cmd.Flags()
	addFilterFlags(f, &o)
	f.StringVar(&o.window, "window", "", "Time window: daily, monthly or quarterly")
	f.StringVar(&o.pincodeMode, "pincode-mode", "", "Pincode counting for cci: distinct or district_proxy")
	f.Float64Var(&o.sigma, "sigma", 0, "Anomaly threshold in standard deviations (default from config)")
	f.Float64Var(&o.pincodeThreshold, "pincode-threshold", 0, "SUR pincodes-per-district cut-off (default: median)")
	f.IntVar(&o.topN, "top", 0, "Number of ranked entities (default from config)")
	f.StringVar(&o.weights, "weights", "", "Composite weights, e.g. bai=0.4,cci=0.2")
	f.StringVar(&o.months, "months", "", "Seasonal target: preset name or months 1-12")
	f.StringVar(&o.event, "event", "", "Shock event: preset key or YYYY-MM-DD")
	f.IntVar(&o.windowDays, "window-days", 0, "Shock window in days either side of the event")
	addOutputFlags(f, &o)

	return cmd
}

func (o metricOpts) options(base metrics.Weights) (metrics.Options, error) {
	opts := metrics.Options{
		Filter:           dataset.Filter{State: o.state, District: o.district},
		Level:            metrics.Level(strings.ToLower(o.level)),
		Window:           metrics.TimeWindow(strings.ToLower(o.window)),
		PincodeMode:      metrics.PincodeMode(strings.ToLower(o.pincodeMode)),
		Sigma:            o.sigma,
		PincodeThreshold: o.pincodeThreshold,
		TopN:             o.topN,
		WindowDays:       o.windowDays,
	}
	var err error
	if opts.Weights, err = metrics.ParseWeights(o.weights, base); err != nil {
		return opts, err
	}
	if opts.TargetMonths, err = metrics.ParseMonths(o.months); err != nil {
		return opts, err
	}
	if opts.EventDate, err = metrics.ParseEvent(o.event); err != nil {
		return opts, err
	}
	return opts, nil
}

func runMetric(ctx context.Context, g *globalOpts, key string, o metricOpts) error {
	if _, err := surface.ForFormat(o.outputFmt, true); err != nil {
		return err
	}

	a, err := newApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := o.options(a.engine.Weights())
	if err != nil {
		return err
	}

	store, err := a.loader.Load(ctx)
	if err != nil {
		return err
	}
	res, err := a.engine.Run(store, key, opts)
	if err != nil {
		return err
	}
	log.Debug().Str("metric", key).Str("run_id", res.RunID).Msg("metric computed")

	return writeResult(res, o.outputFmt, o.outPath)
}

// writeResult renders res to outPath, or stdout when outPath is empty.
func writeResult(res *metrics.Result, format, outPath string) error {
	binary := format == "xlsx" || format == "excel"
	if binary && outPath == "" && logging.IsTerminal() {
		return fmt.Errorf("refusing to write a workbook to a terminal; pass --out")
	}

	renderer, err := surface.ForFormat(format, outPath != "" || !logging.IsTerminal())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := renderer.Render(w, res); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
	}
	return nil
}
