// Package validate is a small harness for running validation rules and
// collecting severity-tagged findings.
//
// A Rule inspects a caller-defined context and produces Findings. Findings
// carry a default severity that a Runner can override per finding type, so
// callers decide which finding types block a change and which merely warn.
package validate

import (
	"fmt"
	"reflect"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// ParseSeverity parses a severity name.
func ParseSeverity(name string) (Severity, error) {
	switch s := Severity(name); s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityFatal:
		return s, nil
	default:
		return "", fmt.Errorf("invalid severity %q", name)
	}
}

// Severities lists all severity levels in ascending order.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityFatal}
}

// Finding is one result of a validation rule. Findings should be
// specifically typed: each rule produces one or more distinct finding types,
// and severity overrides are keyed on the type name.
type Finding interface {
	Message() string
	Severity() Severity
}

// FindingName returns the name a severity override map keys on: the
// finding's type name without package or pointer decoration.
func FindingName(f Finding) string {
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// RuleMetadata describes a rule for reporting.
type RuleMetadata struct {
	Name        string
	Description string
}

// Rule is a validation rule over a context of type C.
type Rule[C any] interface {
	Metadata() RuleMetadata
	Validate(ctx C) []Finding
}

// RatedFinding pairs a finding with its effective severity after overrides.
type RatedFinding struct {
	Finding  Finding
	Severity Severity
}

// RuleResult holds the findings one rule produced.
type RuleResult struct {
	Rule     RuleMetadata
	Findings []RatedFinding
}

// Report is the outcome of a full runner pass, one entry per rule in
// execution order.
type Report []RuleResult

// FatalFindingError reports that a rule produced a finding whose effective
// severity is fatal. The run stops at the first such finding.
type FatalFindingError struct {
	Finding Finding
}

func (e *FatalFindingError) Error() string {
	return fmt.Sprintf("fatal finding %s: %s", FindingName(e.Finding), e.Finding.Message())
}

// ValidateSeverities checks that every value in a finding-name to severity
// override map is a known severity.
func ValidateSeverities(severities map[string]Severity) error {
	for name, severity := range severities {
		if _, err := ParseSeverity(string(severity)); err != nil {
			return fmt.Errorf("finding %s: %w", name, err)
		}
	}
	return nil
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	severities map[string]Severity
}

// WithSeverities sets a finding-name to severity override map.
func WithSeverities(severities map[string]Severity) RunnerOption {
	return func(c *runnerConfig) { c.severities = severities }
}

// Runner executes rules in order against a shared context.
type Runner[C any] struct {
	rules  []Rule[C]
	config runnerConfig
}

// NewRunner builds a runner over the given rules.
func NewRunner[C any](rules []Rule[C], opts ...RunnerOption) (*Runner[C], error) {
	var config runnerConfig
	for _, opt := range opts {
		opt(&config)
	}
	if err := ValidateSeverities(config.severities); err != nil {
		return nil, err
	}
	return &Runner[C]{rules: rules, config: config}, nil
}

// Run executes every rule and collects the findings. Severity overrides are
// applied per finding; the run stops with a FatalFindingError as soon as a
// finding's effective severity is fatal.
func (r *Runner[C]) Run(ctx C) (Report, error) {
	report := make(Report, 0, len(r.rules))
	for _, rule := range r.rules {
		result := RuleResult{Rule: rule.Metadata()}
		for _, finding := range rule.Validate(ctx) {
			severity := finding.Severity()
			if override, ok := r.config.severities[FindingName(finding)]; ok {
				severity = override
			}
			if severity == SeverityFatal {
				return nil, &FatalFindingError{Finding: finding}
			}
			result.Findings = append(result.Findings, RatedFinding{Finding: finding, Severity: severity})
		}
		report = append(report, result)
	}
	return report, nil
}
