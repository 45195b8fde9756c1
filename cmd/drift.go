package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/livingdoc/analysis-core/analytics"
	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/config"
	"github.com/livingdoc/analysis-core/drift"
	"github.com/livingdoc/analysis-core/output"
	"github.com/livingdoc/analysis-core/report"
	"github.com/livingdoc/analysis-core/scanner"
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare two snapshots and report drift findings",
	Long: `Drift scans a baseline and a current tree, evaluates the drift rules
over the two artifact snapshots and renders a validation report.

Examples:
  # Markdown report between two checkouts
  livingdoc drift --baseline ./v1 --current ./v2

  # SARIF for CI, failing the build on HIGH findings
  livingdoc drift --baseline ./v1 --current ./v2 --format sarif --fail-on HIGH`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		baselinePath, _ := cmd.Flags().GetString("baseline")
		currentPath, _ := cmd.Flags().GetString("current")
		format, _ := cmd.Flags().GetString("format")
		filter, _ := cmd.Flags().GetString("filter")
		failOn, _ := cmd.Flags().GetStringSlice("fail-on")
		outputFile, _ := cmd.Flags().GetString("output")
		configPath, _ := cmd.Flags().GetString("config")

		if baselinePath == "" || currentPath == "" {
			return fmt.Errorf("--baseline and --current flags are required")
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if filter == "" {
			filter = cfg.FindingFilter
		}
		if format == "" {
			format = cfg.Format
		}
		if len(failOn) == 0 {
			failOn = cfg.FailOn
		}

		log := loggerFromFlags(cmd)
		analytics.ReportEvent(analytics.DriftCommand)

		baseline, err := scanSnapshot(cmd, log, baselinePath)
		if err != nil {
			analytics.ReportEvent(analytics.ErrorRunningDrift)
			return err
		}
		current, err := scanSnapshot(cmd, log, currentPath)
		if err != nil {
			analytics.ReportEvent(analytics.ErrorRunningDrift)
			return err
		}

		engine := drift.NewEngine()
		findings := engine.Evaluate(baseline, current)
		log.Statistic("Drift rules produced %d findings", len(findings))

		findings, err = drift.FilterFindings(findings, filter)
		if err != nil {
			return err
		}

		generator := report.NewGenerator(reportOptions(cfg)...)
		validationReport := generator.Generate(findings, map[string]any{
			"baseline": baselinePath,
			"current":  currentPath,
		})

		rendered, err := renderReport(generator, validationReport, output.OutputFormat(format))
		if err != nil {
			return err
		}
		if err := writeResult(outputFile, rendered); err != nil {
			return err
		}

		if severity := firstFailingSeverity(findings, failOn); severity != "" {
			return fmt.Errorf("drift findings at severity %s present", severity)
		}
		return nil
	},
}

func scanSnapshot(cmd *cobra.Command, log *output.Logger, path string) (artifact.Artifacts, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return artifact.Artifacts{}, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	log.Progress("Scanning %s...", absPath)
	artifacts, err := scanner.New(log).ScanDir(cmd.Context(), absPath)
	if err != nil {
		return artifact.Artifacts{}, fmt.Errorf("scanning %s: %w", absPath, err)
	}
	return artifacts, nil
}

func reportOptions(cfg *config.Config) []report.Option {
	if len(cfg.SeverityOrder) == 0 {
		return nil
	}
	order := make([]drift.Severity, 0, len(cfg.SeverityOrder))
	for _, severity := range cfg.SeverityOrder {
		order = append(order, drift.Severity(severity))
	}
	return []report.Option{report.WithSeverityOrder(order...)}
}

func renderReport(generator *report.Generator, validationReport report.ValidationReport, format output.OutputFormat) ([]byte, error) {
	switch format {
	case output.FormatJSON:
		encoded, err := json.MarshalIndent(generator.ToMap(validationReport), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		return append(encoded, '\n'), nil
	case output.FormatSARIF:
		var buf bytes.Buffer
		if err := generator.WriteSARIF(validationReport, &buf); err != nil {
			return nil, fmt.Errorf("encoding sarif report: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return []byte(generator.ToMarkdown(validationReport) + "\n"), nil
	}
}

func firstFailingSeverity(findings []drift.Finding, failOn []string) string {
	if len(failOn) == 0 {
		return ""
	}
	failing := make(map[drift.Severity]bool, len(failOn))
	for _, severity := range failOn {
		failing[drift.Severity(severity)] = true
	}
	for _, finding := range findings {
		if failing[finding.Severity] {
			return string(finding.Severity)
		}
	}
	return ""
}

func init() {
	driftCmd.Flags().String("baseline", "", "Baseline project directory")
	driftCmd.Flags().String("current", "", "Current project directory")
	driftCmd.Flags().String("format", "", "Output format: markdown, json or sarif")
	driftCmd.Flags().String("filter", "", `Finding filter expression, e.g. severity == "HIGH"`)
	driftCmd.Flags().StringSlice("fail-on", nil, "Severities that cause a nonzero exit")
	driftCmd.Flags().String("output", "", "Output file path (default stdout)")
	rootCmd.AddCommand(driftCmd)
}
