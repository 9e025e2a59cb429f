// Package mcptools exposes the metric engine as Model Context Protocol tools
// so chat assistants can query update activity directly.
package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/updatelens/updatelens/internal/datasource"
	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
	"github.com/updatelens/updatelens/pkg/surface"
)

// Tools binds the MCP tool handlers to a loader and an engine.
type Tools struct {
	loader *datasource.Loader
	engine *metrics.Engine
}

// NewServer returns an MCP server with every updatelens tool registered.
func NewServer(loader *datasource.Loader, engine *metrics.Engine, version string) *mcp.Server {
	t := &Tools{loader: loader, engine: engine}
	server := mcp.NewServer(&mcp.Implementation{Name: "updatelens", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List the available update-activity metrics with their keys. Call this first to pick a metric for compute_metric.",
	}, t.listMetrics)
	mcp.AddTool(server, &mcp.Tool{
		Name: "compute_metric",
		Description: "Compute one metric over the Aadhaar update dataset and return a Markdown report. " +
			"Filter by state and district, choose state or district level breakdowns. " +
			"The cci metric requires pincode_mode (distinct or district_proxy); seasonal needs months; shock needs event.",
	}, t.computeMetric)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_anomalies",
		Description: "Flag states or districts whose update volumes or avoidance index lie more than sigma standard deviations from the mean.",
	}, t.detectAnomalies)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dataset_info",
		Description: "Describe the loaded dataset: table sizes, coverage and generation time.",
	}, t.datasetInfo)

	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, loader *datasource.Loader, engine *metrics.Engine, version string) error {
	return NewServer(loader, engine, version).Run(ctx, &mcp.StdioTransport{})
}

// ListMetricsInput takes no arguments.
type ListMetricsInput struct{}

// ComputeMetricInput mirrors metrics.Options with string-typed fields.
type ComputeMetricInput struct {
	Metric      string  `json:"metric" jsonschema:"metric key from list_metrics"`
	State       string  `json:"state,omitempty" jsonschema:"state name; spelling and case are normalized"`
	District    string  `json:"district,omitempty" jsonschema:"district name within the state"`
	Level       string  `json:"level,omitempty" jsonschema:"breakdown level: state or district"`
	Window      string  `json:"window,omitempty" jsonschema:"time window: daily, monthly or quarterly"`
	PincodeMode string  `json:"pincode_mode,omitempty" jsonschema:"distinct or district_proxy; required by cci"`
	Sigma       float64 `json:"sigma,omitempty" jsonschema:"anomaly threshold in standard deviations"`
	TopN        int     `json:"top_n,omitempty" jsonschema:"number of ranked entities to return"`
	Weights     string  `json:"weights,omitempty" jsonschema:"composite weights, e.g. bai=0.4,cci=0.2"`
	Months      string  `json:"months,omitempty" jsonschema:"season preset (diwali, school, harvest) or months 1-12, comma separated"`
	Event       string  `json:"event,omitempty" jsonschema:"policy event key (nrc_freeze, pan_link, mbu_drive) or YYYY-MM-DD"`
	WindowDays  int     `json:"window_days,omitempty" jsonschema:"days either side of the event"`
	Format      string  `json:"format,omitempty" jsonschema:"markdown (default) or json"`
}

// DetectAnomaliesInput selects the anomaly scan scope.
type DetectAnomaliesInput struct {
	State string  `json:"state,omitempty" jsonschema:"restrict to one state; districts become the entities"`
	Level string  `json:"level,omitempty" jsonschema:"state or district"`
	Sigma float64 `json:"sigma,omitempty" jsonschema:"threshold in standard deviations, default 2"`
}

// DatasetInfoInput takes no arguments.
type DatasetInfoInput struct{}

func (t *Tools) listMetrics(ctx context.Context, _ *mcp.CallToolRequest, _ ListMetricsInput) (*mcp.CallToolResult, any, error) {
	var sb strings.Builder
	sb.WriteString("| Key | Metric |\n|-----|--------|\n")
	for _, m := range t.engine.Metrics() {
		fmt.Fprintf(&sb, "| %s | %s |\n", m.Key(), m.Name())
	}
	return textResult(sb.String()), nil, nil
}

func (t *Tools) computeMetric(ctx context.Context, _ *mcp.CallToolRequest, in ComputeMetricInput) (*mcp.CallToolResult, any, error) {
	opts, err := in.options(t.engine.Weights())
	if err != nil {
		return errorResult(err), nil, nil
	}
	res, err := t.run(ctx, in.Metric, opts)
	if err != nil {
		return errorResult(err), nil, nil
	}

	switch strings.ToLower(in.Format) {
	case "", "markdown", "md":
		return summaryResult(res), nil, nil
	case "json":
		var buf bytes.Buffer
		if err := (&surface.JSONRenderer{}).Render(&buf, res); err != nil {
			return nil, nil, err
		}
		return textResult(buf.String()), nil, nil
	default:
		return errorResult(fmt.Errorf("%w: format %q", surface.ErrUnknownFormat, in.Format)), nil, nil
	}
}

func (t *Tools) detectAnomalies(ctx context.Context, _ *mcp.CallToolRequest, in DetectAnomaliesInput) (*mcp.CallToolResult, any, error) {
	opts := metrics.Options{
		Filter: dataset.Filter{State: in.State},
		Level:  metrics.Level(strings.ToLower(in.Level)),
		Sigma:  in.Sigma,
	}
	if in.State != "" && opts.Level == "" {
		opts.Level = metrics.LevelDistrict
	}
	res, err := t.run(ctx, "anomaly", opts)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return summaryResult(res), nil, nil
}

func (t *Tools) datasetInfo(ctx context.Context, _ *mcp.CallToolRequest, _ DatasetInfoInput) (*mcp.CallToolResult, any, error) {
	store, err := t.loader.Load(ctx)
	if err != nil {
		return errorResult(err), nil, nil
	}

	var sb strings.Builder
	sb.WriteString("| Table | Records |\n|-------|---------|\n")
	for _, kind := range append([]dataset.Kind{dataset.KindActivity}, dataset.Kinds...) {
		if tbl := store.Table(kind); tbl != nil {
			fmt.Fprintf(&sb, "| %s | %d |\n", kind, tbl.Len())
		}
	}
	if m := store.Metadata; m != nil {
		fmt.Fprintf(&sb, "\nGenerated %s. Coverage: %d states, %d districts.\n",
			m.GeneratedAt, m.Coverage.States, m.Coverage.Districts)
	}
	return textResult(sb.String()), nil, nil
}

func (t *Tools) run(ctx context.Context, key string, opts metrics.Options) (*metrics.Result, error) {
	store, err := t.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := t.engine.Run(store, key, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("metric", key).Str("run_id", res.RunID).Msg("tool metric computed")
	return res, nil
}

func (in ComputeMetricInput) options(base metrics.Weights) (metrics.Options, error) {
	opts := metrics.Options{
		Filter:      dataset.Filter{State: in.State, District: in.District},
		Level:       metrics.Level(strings.ToLower(in.Level)),
		Window:      metrics.TimeWindow(strings.ToLower(in.Window)),
		PincodeMode: metrics.PincodeMode(strings.ToLower(in.PincodeMode)),
		Sigma:       in.Sigma,
		TopN:        in.TopN,
		WindowDays:  in.WindowDays,
	}
	var err error
	if opts.Weights, err = metrics.ParseWeights(in.Weights, base); err != nil {
		return opts, err
	}
	if opts.TargetMonths, err = metrics.ParseMonths(in.Months); err != nil {
		return opts, err
	}
	if opts.EventDate, err = metrics.ParseEvent(in.Event); err != nil {
		return opts, err
	}
	return opts, nil
}

func summaryResult(res *metrics.Result) *mcp.CallToolResult {
	s := surface.BuildSummary(res)
	return textResult(fmt.Sprintf("**%s** [%s]\n\n%s", s.Title, s.Severity, s.Body))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(err error) *mcp.CallToolResult {
	r := textResult("error: " + err.Error())
	r.IsError = true
	return r
}
