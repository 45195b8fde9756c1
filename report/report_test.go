package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingdoc/analysis-core/drift"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 8, 2, 10, 30, 0, 0, time.UTC)
}

func sampleFindings() []drift.Finding {
	return []drift.Finding{
		{DriftType: drift.TypeAPIRemoved, Description: "endpoint GET /old gone", Severity: drift.SeverityHigh},
		{DriftType: drift.TypeDependencyRemoved, Description: "dep removed", Severity: drift.SeverityMedium},
		{DriftType: drift.TypeDependencyAdded, Description: "dep added", Severity: drift.SeverityLow},
		{DriftType: drift.TypeAPIRemoved, Description: "endpoint GET /other gone", Severity: drift.SeverityHigh},
	}
}

// TestReportCountsBalance checks the balancing property: total equals the
// findings count and both summary breakdowns sum to it.
func TestReportCountsBalance(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	validationReport := generator.Generate(sampleFindings(), nil)

	assert.Equal(t, 4, validationReport.Summary.TotalFindings)
	assert.Equal(t, len(validationReport.Findings), validationReport.Summary.TotalFindings)

	severityTotal := 0
	for _, entry := range validationReport.Summary.CountsBySeverity {
		severityTotal += entry.Count
	}
	assert.Equal(t, 4, severityTotal)

	typeTotal := 0
	for _, entry := range validationReport.Summary.CountsByType {
		typeTotal += entry.Count
	}
	assert.Equal(t, 4, typeTotal)
}

func TestSummaryOrdering(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	summary := generator.Generate(sampleFindings(), nil).Summary

	severities := make([]drift.Severity, 0, len(summary.CountsBySeverity))
	for _, entry := range summary.CountsBySeverity {
		severities = append(severities, entry.Severity)
	}
	assert.Equal(t, []drift.Severity{drift.SeverityHigh, drift.SeverityMedium, drift.SeverityLow}, severities)

	types := make([]string, 0, len(summary.CountsByType))
	for _, entry := range summary.CountsByType {
		types = append(types, entry.DriftType)
	}
	assert.Equal(t, []string{drift.TypeAPIRemoved, drift.TypeDependencyAdded, drift.TypeDependencyRemoved}, types)
}

func TestUnknownSeverityAppended(t *testing.T) {
	findings := []drift.Finding{
		{DriftType: "X", Description: "odd", Severity: drift.Severity("EXOTIC")},
		{DriftType: "Y", Description: "high", Severity: drift.SeverityHigh},
	}
	summary := NewGenerator(WithClock(fixedClock)).Generate(findings, nil).Summary
	require.Len(t, summary.CountsBySeverity, 4)
	assert.Equal(t, drift.Severity("EXOTIC"), summary.CountsBySeverity[3].Severity)
	assert.Equal(t, 1, summary.CountsBySeverity[3].Count)
}

func TestCustomSeverityOrder(t *testing.T) {
	generator := NewGenerator(
		WithClock(fixedClock),
		WithSeverityOrder(drift.SeverityLow, drift.SeverityHigh),
	)
	summary := generator.Generate(sampleFindings(), nil).Summary
	assert.Equal(t, drift.SeverityLow, summary.CountsBySeverity[0].Severity)
	assert.Equal(t, drift.SeverityHigh, summary.CountsBySeverity[1].Severity)
}

func TestToMarkdown(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	markdown := generator.ToMarkdown(generator.Generate(sampleFindings(), nil))

	assert.True(t, strings.HasPrefix(markdown, "# Validation Report"))
	assert.Contains(t, markdown, "Generated: 2026-08-02T10:30:00Z")
	assert.Contains(t, markdown, "## Summary")
	assert.Contains(t, markdown, "- Total Findings: 4")
	assert.Contains(t, markdown, "## HIGH (2)")
	assert.Contains(t, markdown, "## MEDIUM (1)")
	assert.Contains(t, markdown, "## LOW (1)")
	assert.Contains(t, markdown, "- **API_REMOVED**: endpoint GET /old gone")
}

// Empty severity groups are suppressed in the Markdown rendering.
func TestToMarkdownSuppressesEmptyGroups(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	markdown := generator.ToMarkdown(generator.Generate([]drift.Finding{
		{DriftType: drift.TypeAPIRemoved, Description: "gone", Severity: drift.SeverityHigh},
	}, nil))

	assert.Contains(t, markdown, "## HIGH (1)")
	assert.NotContains(t, markdown, "## MEDIUM")
	assert.NotContains(t, markdown, "## LOW")
}

func TestToMapRoundTrip(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	mapped := generator.ToMap(generator.Generate(sampleFindings(), map[string]any{"baseline": "v1"}))

	assert.Equal(t, "2026-08-02T10:30:00Z", mapped["generated_at"])
	summary := mapped["summary"].(map[string]any)
	assert.Equal(t, 4, summary["total_findings"])
	severityCounts := summary["counts_by_severity"].(map[string]int)
	assert.Equal(t, 2, severityCounts["HIGH"])
	metadata := mapped["metadata"].(map[string]any)
	assert.Equal(t, "v1", metadata["baseline"])
}

func TestGenerateCopiesInputs(t *testing.T) {
	findings := sampleFindings()
	metadata := map[string]any{"key": "value"}
	validationReport := NewGenerator(WithClock(fixedClock)).Generate(findings, metadata)

	findings[0].Description = "mutated"
	metadata["key"] = "mutated"
	assert.Equal(t, "endpoint GET /old gone", validationReport.Findings[0].Description)
	assert.Equal(t, "value", validationReport.Metadata["key"])
}

func TestWriteSARIF(t *testing.T) {
	generator := NewGenerator(WithClock(fixedClock))
	var buf bytes.Buffer
	err := generator.WriteSARIF(generator.Generate(sampleFindings(), nil), &buf)
	require.NoError(t, err)

	sarifOutput := buf.String()
	assert.Contains(t, sarifOutput, `"2.1.0"`)
	assert.Contains(t, sarifOutput, "livingdoc")
	assert.Contains(t, sarifOutput, drift.TypeAPIRemoved)
	assert.Contains(t, sarifOutput, "error")
}
