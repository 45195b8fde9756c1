// Package report renders drift findings into a validation report: a
// structured record, a Markdown document, and a SARIF log.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/livingdoc/analysis-core/drift"
)

// DefaultSeverityOrder is the sequence severities are summarized and
// grouped in when no override is configured.
var DefaultSeverityOrder = []drift.Severity{
	drift.SeverityHigh,
	drift.SeverityMedium,
	drift.SeverityLow,
}

// SeverityCount is one entry of the ordered severity summary.
type SeverityCount struct {
	Severity drift.Severity `json:"severity"`
	Count    int            `json:"count"`
}

// TypeCount is one entry of the lexicographically ordered type summary.
type TypeCount struct {
	DriftType string `json:"drift_type"`
	Count     int    `json:"count"`
}

// Summary aggregates a report's findings. CountsBySeverity follows the
// generator's severity order with unknown severities appended in their
// natural order; CountsByType is sorted lexicographically.
type Summary struct {
	TotalFindings    int             `json:"total_findings"`
	CountsBySeverity []SeverityCount `json:"counts_by_severity"`
	CountsByType     []TypeCount     `json:"counts_by_type"`
}

// ValidationReport is the generator's output record.
type ValidationReport struct {
	Summary     Summary         `json:"summary"`
	Findings    []drift.Finding `json:"findings"`
	GeneratedAt time.Time       `json:"generated_at"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// Generator produces validation reports with a configurable severity
// order and an injectable clock.
type Generator struct {
	severityOrder []drift.Severity
	clock         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeverityOrder overrides the severity order used for summaries and
// Markdown grouping.
func WithSeverityOrder(order ...drift.Severity) Option {
	return func(g *Generator) {
		if len(order) > 0 {
			g.severityOrder = order
		}
	}
}

// WithClock overrides the generation timestamp source. Primarily used for
// testing.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewGenerator creates a generator with the default severity order and a
// UTC wall clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		severityOrder: DefaultSeverityOrder,
		clock:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a report over the findings with optional metadata
// passed through verbatim.
func (g *Generator) Generate(findings []drift.Finding, metadata map[string]any) ValidationReport {
	kept := make([]drift.Finding, len(findings))
	copy(kept, findings)

	var reportMetadata map[string]any
	if metadata != nil {
		reportMetadata = make(map[string]any, len(metadata))
		for key, value := range metadata {
			reportMetadata[key] = value
		}
	}

	return ValidationReport{
		Summary:     g.summarize(kept),
		Findings:    kept,
		GeneratedAt: g.clock(),
		Metadata:    reportMetadata,
	}
}

func (g *Generator) summarize(findings []drift.Finding) Summary {
	severityCounts := make(map[drift.Severity]int)
	typeCounts := make(map[string]int)
	for _, finding := range findings {
		severityCounts[finding.Severity]++
		typeCounts[finding.DriftType]++
	}

	known := make(map[drift.Severity]bool, len(g.severityOrder))
	orderedSeverities := make([]SeverityCount, 0, len(severityCounts))
	for _, severity := range g.severityOrder {
		known[severity] = true
		orderedSeverities = append(orderedSeverities, SeverityCount{Severity: severity, Count: severityCounts[severity]})
	}
	// Unknown severities follow in their natural order.
	var extras []drift.Severity
	for severity := range severityCounts {
		if !known[severity] {
			extras = append(extras, severity)
		}
	}
	sort.Slice(extras, func(i, k int) bool { return extras[i] < extras[k] })
	for _, severity := range extras {
		orderedSeverities = append(orderedSeverities, SeverityCount{Severity: severity, Count: severityCounts[severity]})
	}

	types := make([]string, 0, len(typeCounts))
	for driftType := range typeCounts {
		types = append(types, driftType)
	}
	sort.Strings(types)
	orderedTypes := make([]TypeCount, 0, len(types))
	for _, driftType := range types {
		orderedTypes = append(orderedTypes, TypeCount{DriftType: driftType, Count: typeCounts[driftType]})
	}

	return Summary{
		TotalFindings:    len(findings),
		CountsBySeverity: orderedSeverities,
		CountsByType:     orderedTypes,
	}
}

// ToMap renders the report in its structured mapping form, one-to-one with
// the record, with the timestamp in ISO-8601 UTC.
func (g *Generator) ToMap(report ValidationReport) map[string]any {
	severityCounts := make(map[string]int, len(report.Summary.CountsBySeverity))
	for _, entry := range report.Summary.CountsBySeverity {
		severityCounts[string(entry.Severity)] = entry.Count
	}
	typeCounts := make(map[string]int, len(report.Summary.CountsByType))
	for _, entry := range report.Summary.CountsByType {
		typeCounts[entry.DriftType] = entry.Count
	}

	findings := make([]map[string]any, 0, len(report.Findings))
	for _, finding := range report.Findings {
		findings = append(findings, map[string]any{
			"drift_type":  finding.DriftType,
			"description": finding.Description,
			"severity":    string(finding.Severity),
			"metadata":    finding.Metadata,
		})
	}

	return map[string]any{
		"summary": map[string]any{
			"total_findings":     report.Summary.TotalFindings,
			"counts_by_severity": severityCounts,
			"counts_by_type":     typeCounts,
		},
		"findings":     findings,
		"generated_at": report.GeneratedAt.UTC().Format(time.RFC3339),
		"metadata":     report.Metadata,
	}
}

// ToMarkdown renders the report as a Markdown document: a summary header
// followed by one section per non-empty severity group.
func (g *Generator) ToMarkdown(report ValidationReport) string {
	var b strings.Builder
	b.WriteString("# Validation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Total Findings: %d\n", report.Summary.TotalFindings)

	if len(report.Summary.CountsBySeverity) > 0 {
		b.WriteString("- Severity Counts:\n")
		for _, entry := range report.Summary.CountsBySeverity {
			fmt.Fprintf(&b, "  - %s: %d\n", entry.Severity, entry.Count)
		}
	}
	if len(report.Summary.CountsByType) > 0 {
		b.WriteString("- Drift Types:\n")
		for _, entry := range report.Summary.CountsByType {
			fmt.Fprintf(&b, "  - %s: %d\n", entry.DriftType, entry.Count)
		}
	}

	for _, group := range g.groupBySeverity(report.Findings) {
		if len(group.findings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%d)\n", group.severity, len(group.findings))
		for _, finding := range group.findings {
			fmt.Fprintf(&b, "- **%s**: %s\n", finding.DriftType, finding.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type severityGroup struct {
	severity drift.Severity
	findings []drift.Finding
}

func (g *Generator) groupBySeverity(findings []drift.Finding) []severityGroup {
	groups := make([]severityGroup, 0, len(g.severityOrder))
	position := make(map[drift.Severity]int, len(g.severityOrder))
	for i, severity := range g.severityOrder {
		position[severity] = i
		groups = append(groups, severityGroup{severity: severity})
	}
	var extras []drift.Severity
	for _, finding := range findings {
		if idx, ok := position[finding.Severity]; ok {
			if idx >= 0 {
				groups[idx].findings = append(groups[idx].findings, finding)
			}
			continue
		}
		position[finding.Severity] = -1
		extras = append(extras, finding.Severity)
	}
	sort.Slice(extras, func(i, k int) bool { return extras[i] < extras[k] })
	for _, severity := range extras {
		group := severityGroup{severity: severity}
		for _, finding := range findings {
			if finding.Severity == severity {
				group.findings = append(group.findings, finding)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
