package validate

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// FormatOption adjusts report rendering.
type FormatOption func(*reportFormatter)

// WithColor enables ANSI color codes in the output.
func WithColor() FormatOption {
	return func(f *reportFormatter) { f.colored = true }
}

// WithoutSummary omits the per-rule pass/fail summary.
func WithoutSummary() FormatOption {
	return func(f *reportFormatter) { f.noSummary = true }
}

type reportFormatter struct {
	w         io.Writer
	colored   bool
	noSummary bool
}

var severityColors = map[Severity]color.Attribute{
	SeverityInfo:    color.FgCyan,
	SeverityWarning: color.FgYellow,
	SeverityError:   color.FgRed,
	SeverityFatal:   color.FgRed,
}

// Format renders a report: one section per rule listing its findings, then
// a per-rule pass/fail summary.
func Format(w io.Writer, report Report, opts ...FormatOption) {
	f := &reportFormatter{w: w}
	for _, opt := range opts {
		opt(f)
	}

	for _, result := range report {
		f.heading(result.Rule.Name)
		if result.Rule.Description != "" {
			fmt.Fprintf(w, "%s\n\n", result.Rule.Description)
		}
		if len(result.Findings) == 0 {
			fmt.Fprintf(w, "  %s No findings\n", f.tag("SUCCESS", color.FgGreen))
		}
		for _, finding := range result.Findings {
			label := strings.ToUpper(string(finding.Severity))
			fmt.Fprintf(w, "  %s %s\n", f.tag(label, severityColors[finding.Severity]), finding.Finding.Message())
		}
		fmt.Fprintln(w)
	}

	if f.noSummary {
		return
	}

	f.heading("Summary")
	for _, summary := range Summarize(report) {
		verdict := f.tag("PASS", color.FgGreen)
		if !summary.Passed() {
			verdict = f.tag("FAIL", color.FgRed)
		}
		counts := make([]string, 0, 4)
		for _, severity := range Severities() {
			counts = append(counts, fmt.Sprintf("%s: %d", severity, summary.Counts[severity]))
		}
		fmt.Fprintf(w, "  %s %s: %s\n", verdict, summary.Rule.Name, strings.Join(counts, ", "))
	}
}

func (f *reportFormatter) heading(text string) {
	if f.colored {
		color.New(color.FgCyan).Fprintf(f.w, " %s\n", text)
	} else {
		fmt.Fprintf(f.w, " %s\n", text)
	}
	fmt.Fprintf(f.w, "%s\n", strings.Repeat("-", len(text)+2))
}

func (f *reportFormatter) tag(label string, attr color.Attribute) string {
	if !f.colored {
		return "[" + label + "]"
	}
	return "[" + color.New(attr).Sprint(label) + "]"
}
