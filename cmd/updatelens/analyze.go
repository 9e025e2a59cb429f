package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/updatelens/updatelens/pkg/metrics"
)

func newAnomalyCmd(g *globalOpts) *cobra.Command {
	var o metricOpts

	cmd := &cobra.Command{
		Use:   "anomaly",
		Short: "Flag states or districts that deviate from the mean",
		Long: `Computes z-scores of demographic, biometric and enrolment volumes and the
biometric avoidance index across entities, and flags every entity with at
least one dimension beyond --sigma standard deviations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetric(cmd.Context(), g, "anomaly", o)
		},
	}

	f := cmd.Flags()
	addFilterFlags(f, &o)
	f.Float64Var(&o.sigma, "sigma", 0, "Threshold in standard deviations (default from config, 2)")
	addOutputFlags(f, &o)
	return cmd
}

func newSeasonalCmd(g *globalOpts) *cobra.Command {
	var o metricOpts

	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Compare mobility in target months against the rest of the year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetric(cmd.Context(), g, "seasonal", o)
		},
	}

	f := cmd.Flags()
	addFilterFlags(f, &o)
	f.StringVar(&o.months, "months", "diwali", "Preset ("+strings.Join(presetNames(), ", ")+") or months 1-12")
	addOutputFlags(f, &o)
	return cmd
}

func newShockCmd(g *globalOpts) *cobra.Command {
	var o metricOpts

	cmd := &cobra.Command{
		Use:   "shock",
		Short: "Measure the change in daily volume around a policy event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetric(cmd.Context(), g, "shock", o)
		},
	}

	f := cmd.Flags()
	addFilterFlags(f, &o)
	f.StringVar(&o.event, "event", "", "Event key or YYYY-MM-DD (required)")
	f.IntVar(&o.windowDays, "window-days", 0, "Days either side of the event (default from config)")
	addOutputFlags(f, &o)
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func newListCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List metrics, policy events and season presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Metrics:")
			for _, m := range metrics.DefaultMetrics() {
				fmt.Fprintf(out, "  %-12s %s\n", m.Key(), m.Name())
			}
			fmt.Fprintln(out, "\nPolicy events (--event):")
			for _, e := range metrics.PolicyEvents {
				fmt.Fprintf(out, "  %-12s %s  %s\n", e.Key, e.Date.Format("2006-01-02"), e.Name)
			}
			fmt.Fprintln(out, "\nSeasons (--months):")
			for _, name := range presetNames() {
				fmt.Fprintf(out, "  %-12s %v\n", name, metrics.SeasonPresets[name])
			}
			return nil
		},
	}
}

func presetNames() []string {
	names := make([]string, 0, len(metrics.SeasonPresets))
	for k := range metrics.SeasonPresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
