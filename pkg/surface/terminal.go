package surface

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/updatelens/updatelens/pkg/metrics"
)

// TerminalRenderer renders a Result as colored terminal output.
type TerminalRenderer struct {
	// NoColor disables ANSI codes. The NO_COLOR environment variable has the
	// same effect.
	NoColor bool
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

const (
	maxBarWidth = 30
	maxRows     = 25
)

func (r *TerminalRenderer) noColor() bool {
	if r.NoColor {
		return true
	}
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func (r *TerminalRenderer) severityColor(label string) string {
	if r.noColor() {
		return ""
	}
	switch SeverityOf(label) {
	case SeverityHigh:
		return colorRed
	case SeverityMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

func (r *TerminalRenderer) bold(s string) string {
	if r.noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func (r *TerminalRenderer) dim(s string) string {
	if r.noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func (r *TerminalRenderer) colored(s, color string) string {
	if r.noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, result *metrics.Result) error {
	// Header
	fmt.Fprintf(w, "%s\n", r.bold(fmt.Sprintf("UpdateLens: %s (%s)", result.Name, result.Key)))
	fmt.Fprintf(w, "Value: %s  [%s]\n",
		r.bold(formatValue(result.Value)),
		r.colored(result.Classification, r.severityColor(result.Classification)))
	if f := filterLabel(result); f != "" {
		fmt.Fprintf(w, "Filter: %s\n", f)
	}
	fmt.Fprintln(w)

	// Totals
	if len(result.Totals) > 0 {
		fmt.Fprintln(w, "Totals:")
		keys := make([]string, 0, len(result.Totals))
		width := 0
		for k := range result.Totals {
			keys = append(keys, k)
			width = max(width, len(k))
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-*s  %s\n", width, k, formatValue(result.Totals[k]))
		}
		fmt.Fprintln(w)
	}

	// Breakdown
	if len(result.Breakdown) == 0 {
		fmt.Fprintln(w, "No entities.")
		fmt.Fprintln(w)
	} else {
		r.renderBreakdown(w, result.Breakdown)
	}

	// Chart
	if result.Chart != nil && len(result.Chart.Values) > 0 {
		r.renderChart(w, result.Chart)
	}

	// Notes
	if len(result.Notes) > 0 {
		fmt.Fprintln(w, "Notes:")
		for _, n := range result.Notes {
			for _, line := range wrapText(n, 70) {
				fmt.Fprintf(w, "  %s\n", r.dim(line))
			}
		}
		fmt.Fprintln(w)
	}

	if result.RunID != "" {
		fmt.Fprintf(w, "%s\n", r.dim(fmt.Sprintf("run %s at %s", result.RunID, result.ComputedAt.Format("2006-01-02 15:04:05Z07:00"))))
	}
	return nil
}

func (r *TerminalRenderer) renderBreakdown(w io.Writer, entries []metrics.Entry) {
	nameWidth := len("Entity")
	for _, e := range entries {
		nameWidth = max(nameWidth, len(e.Entity))
	}

	fmt.Fprintln(w, "Breakdown:")
	fmt.Fprintf(w, "  %3s  %-*s  %10s  %s\n", "#", nameWidth, "Entity", "Value", "Class")
	for i, e := range entries {
		if i >= maxRows {
			fmt.Fprintf(w, "  %s\n", r.dim(fmt.Sprintf("... and %d more", len(entries)-maxRows)))
			break
		}
		line := fmt.Sprintf("  %3d  %-*s  %10s  %s", i+1, nameWidth, e.Entity, formatValue(e.Value),
			r.colored(e.Classification, r.severityColor(e.Classification)))
		if len(e.Flags) > 0 {
			line += " " + r.dim("("+strings.Join(e.Flags, ", ")+")")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// renderChart draws a horizontal bar per label, scaled to the largest value.
func (r *TerminalRenderer) renderChart(w io.Writer, c *metrics.ChartSeries) {
	labelWidth := 0
	peak := 0.0
	for i, l := range c.Labels {
		if i >= maxRows {
			break
		}
		labelWidth = max(labelWidth, len(l))
		peak = math.Max(peak, math.Abs(c.Values[i]))
	}

	fmt.Fprintln(w, "Chart:")
	for i, l := range c.Labels {
		if i >= maxRows || i >= len(c.Values) {
			break
		}
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(c.Values[i]) / peak * maxBarWidth))
		}
		fmt.Fprintf(w, "  %-*s  %s %s\n", labelWidth, l, strings.Repeat("#", n), r.dim(formatValue(c.Values[i])))
	}
	fmt.Fprintln(w)
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
