// Package surface defines output rendering for metric results.
// Implementations handle different output targets: terminal, JSON, Markdown
// and Excel workbooks.
package surface

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/updatelens/updatelens/pkg/metrics"
)

// ErrUnknownFormat is returned by ForFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer produces formatted output from a metric Result.
type Renderer interface {
	// Render writes the formatted result to the writer.
	Render(w io.Writer, result *metrics.Result) error
}

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "markdown", "xlsx"}

// ForFormat returns the renderer for a format name. noColor only affects
// terminal text output.
func ForFormat(format string, noColor bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return &TerminalRenderer{NoColor: noColor}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "xlsx", "excel":
		return &XLSXRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Severity is a coarse reading of a classification label.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

var severityByLabel = map[string]Severity{
	"Critical":           SeverityHigh,
	"CRITICAL":           SeverityHigh,
	"Severe Panic":       SeverityHigh,
	"Ghost Territory":    SeverityHigh,
	"High Churn":         SeverityHigh,
	"Severe":             SeverityHigh,
	"Anomalies Detected": SeverityHigh,
	"Anomalous":          SeverityHigh,
	"Moderate":           SeverityMedium,
	"Moderate Panic":     SeverityMedium,
	"HIGH":               SeverityMedium,
	"High":               SeverityMedium,
	"Mixed":              SeverityMedium,
	"Pattern Detected":   SeverityMedium,
	"Developing":         SeverityLow,
	"MODERATE":           SeverityLow,
	"Rural":              SeverityLow,
}

// SeverityOf maps a classification label to a severity.
func SeverityOf(label string) Severity {
	return severityByLabel[label]
}

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "INFO"
	}
}

// formatValue prints metric values with precision suited to their magnitude.
func formatValue(v float64) string {
	switch {
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return fmt.Sprintf("%.0f", v)
	case v >= 1000 || v <= -1000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1 || v <= -1:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%.4g", v)
	}
}

// filterLabel describes the filter scope, or "" when unfiltered.
func filterLabel(r *metrics.Result) string {
	var parts []string
	if r.Filter.State != "" {
		parts = append(parts, "state="+r.Filter.State)
	}
	if r.Filter.District != "" {
		parts = append(parts, "district="+r.Filter.District)
	}
	return strings.Join(parts, " ")
}
