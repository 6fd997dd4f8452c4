package validate

// CountSeverity counts findings across the report with the given effective
// severity.
func CountSeverity(report Report, severity Severity) int {
	count := 0
	for _, result := range report {
		for _, finding := range result.Findings {
			if finding.Severity == severity {
				count++
			}
		}
	}
	return count
}

// RuleSummary tallies one rule's findings by severity.
type RuleSummary struct {
	Rule   RuleMetadata
	Counts map[Severity]int
}

// Passed reports whether the rule produced no error findings.
func (s RuleSummary) Passed() bool {
	return s.Counts[SeverityError] == 0 && s.Counts[SeverityFatal] == 0
}

// Summarize tallies a report by rule and severity, in rule execution order.
func Summarize(report Report) []RuleSummary {
	summaries := make([]RuleSummary, 0, len(report))
	for _, result := range report {
		summary := RuleSummary{Rule: result.Rule, Counts: make(map[Severity]int, 4)}
		for _, severity := range Severities() {
			summary.Counts[severity] = 0
		}
		for _, finding := range result.Findings {
			summary.Counts[finding.Severity]++
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
