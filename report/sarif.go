package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/livingdoc/analysis-core/drift"
)

const toolName = "livingdoc"
const toolInformationURI = "https://github.com/livingdoc/analysis-core"

// sarifLevel maps finding severities to SARIF result levels.
func sarifLevel(severity drift.Severity) string {
	switch severity {
	case drift.SeverityHigh:
		return "error"
	case drift.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF renders the report as a SARIF 2.1.0 log with one rule per drift
// type and one result per finding.
func (g *Generator) ToSARIF(report ValidationReport) (*sarif.Report, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)

	seenRules := make(map[string]bool)
	for _, finding := range report.Findings {
		if !seenRules[finding.DriftType] {
			seenRules[finding.DriftType] = true
			run.AddRule(finding.DriftType).
				WithDescription(finding.DriftType)
		}
		result := run.CreateResultForRule(finding.DriftType).
			WithLevel(sarifLevel(finding.Severity)).
			WithMessage(sarif.NewTextMessage(finding.Description))
		if filePath := findingFilePath(finding); filePath != "" {
			result.AddLocation(
				sarif.NewLocationWithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)),
				),
			)
		}
	}

	log.AddRun(run)
	return log, nil
}

// WriteSARIF renders the report as SARIF and writes it to w.
func (g *Generator) WriteSARIF(report ValidationReport, w io.Writer) error {
	log, err := g.ToSARIF(report)
	if err != nil {
		return err
	}
	return log.PrettyWrite(w)
}

// findingFilePath digs the most specific file path out of a finding's
// metadata, when one was recorded by the rule.
func findingFilePath(finding drift.Finding) string {
	if finding.Metadata == nil {
		return ""
	}
	if relation, ok := finding.Metadata["relation"].(map[string]any); ok {
		if filePath, ok := relation["file_path"].(string); ok {
			return filePath
		}
	}
	for _, key := range []string{"baseline_endpoint", "current_endpoint"} {
		if endpoint, ok := finding.Metadata[key].(map[string]any); ok {
			if filePath, ok := endpoint["file_path"].(string); ok {
				return filePath
			}
		}
	}
	if endpoint, ok := finding.Metadata["endpoint"].(map[string]any); ok {
		if details, ok := endpoint["details"].(map[string]any); ok {
			if filePath, ok := details["file_path"].(string); ok {
				return filePath
			}
		}
	}
	return ""
}
