package surface

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/updatelens/updatelens/pkg/metrics"
)

// maxMarkdownRows caps the breakdown table length.
const maxMarkdownRows = 15

// Summary is a compact Markdown report for chat tools and API clients.
type Summary struct {
	Title    string `json:"title"`
	Body     string `json:"body"` // Markdown
	Severity string `json:"severity"`
}

// MarkdownRenderer renders a Result as a Markdown report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *metrics.Result) error {
	_, err := io.WriteString(w, BuildSummary(result).Body)
	return err
}

// BuildSummary creates the Summary for a Result.
func BuildSummary(result *metrics.Result) Summary {
	return Summary{
		Title:    fmt.Sprintf("%s: %s (%s)", result.Name, formatValue(result.Value), result.Classification),
		Body:     buildMarkdown(result),
		Severity: SeverityOf(result.Classification).String(),
	}
}

func buildMarkdown(result *metrics.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", result.Name)
	fmt.Fprintf(&sb, "%s **%s** (%s)\n\n", severityIcon(SeverityOf(result.Classification)), formatValue(result.Value), result.Classification)
	if f := filterLabel(result); f != "" {
		fmt.Fprintf(&sb, "_Filter: %s_\n\n", f)
	}

	// Totals
	if len(result.Totals) > 0 {
		sb.WriteString("### Totals\n\n")
		sb.WriteString("| Measure | Value |\n|--------|-------|\n")
		keys := make([]string, 0, len(result.Totals))
		for k := range result.Totals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, formatValue(result.Totals[k]))
		}
		sb.WriteString("\n")
	}

	// Breakdown
	if len(result.Breakdown) > 0 {
		sb.WriteString("### Breakdown\n\n")
		sb.WriteString("| # | Entity | Value | Classification |\n|---|--------|-------|----------------|\n")
		for i, e := range result.Breakdown {
			if i >= maxMarkdownRows {
				fmt.Fprintf(&sb, "\n_... and %d more_\n", len(result.Breakdown)-maxMarkdownRows)
				break
			}
			class := e.Classification
			if len(e.Flags) > 0 {
				class += " (" + strings.Join(e.Flags, ", ") + ")"
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", i+1, escapeCell(e.Entity), formatValue(e.Value), class)
		}
		sb.WriteString("\n")
	}

	if len(result.Notes) > 0 {
		sb.WriteString("### Notes\n\n")
		for _, n := range result.Notes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func severityIcon(sev Severity) string {
	switch sev {
	case SeverityHigh:
		return ":red_circle:"
	case SeverityMedium:
		return ":orange_circle:"
	case SeverityLow:
		return ":yellow_circle:"
	default:
		return ":green_circle:"
	}
}
