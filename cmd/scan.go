package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/livingdoc/analysis-core/analytics"
	"github.com/livingdoc/analysis-core/artifact"
	"github.com/livingdoc/analysis-core/depend"
	"github.com/livingdoc/analysis-core/output"
	"github.com/livingdoc/analysis-core/scanner"
)

// scanResult is the JSON shape of one snapshot's scan output.
type scanResult struct {
	Artifacts    artifact.Artifacts  `json:"artifacts"`
	Dependencies []depend.Dependency `json:"dependencies"`
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a repository into symbols, relations, endpoints and dependencies",
	Long: `Scan walks a project tree, runs the per-file analysis pipeline over
every supported source file and prints the collected artifacts together
with the derived dependency edges.

Examples:
  # Scan a project and print a summary
  livingdoc scan --project /path/to/project

  # Write the full artifact snapshot as JSON
  livingdoc scan --project . --format json --output snapshot.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		projectPath, _ := cmd.Flags().GetString("project")
		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")

		if projectPath == "" {
			return fmt.Errorf("--project flag is required")
		}
		absProjectPath, err := filepath.Abs(projectPath)
		if err != nil {
			return fmt.Errorf("failed to resolve project path: %w", err)
		}

		log := loggerFromFlags(cmd)
		analytics.ReportEvent(analytics.ScanCommand)

		s := scanner.New(log)
		log.Progress("Scanning %s...", absProjectPath)
		artifacts, err := s.ScanDir(cmd.Context(), absProjectPath)
		if err != nil {
			analytics.ReportEvent(analytics.ErrorRunningScan)
			return fmt.Errorf("scan failed: %w", err)
		}

		dependencies := depend.NewManager().Analyze(artifacts)
		log.Statistic("Collected %d symbols, %d relations, %d endpoints, %d dependencies",
			len(artifacts.Symbols), len(artifacts.Relations), len(artifacts.APIEndpoints), len(dependencies))

		if format == string(output.FormatJSON) {
			encoded, err := json.MarshalIndent(scanResult{Artifacts: artifacts, Dependencies: dependencies}, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding scan result: %w", err)
			}
			return writeResult(outputFile, append(encoded, '\n'))
		}
		return writeResult(outputFile, []byte(renderScanText(artifacts, dependencies)))
	},
}

func renderScanText(artifacts artifact.Artifacts, dependencies []depend.Dependency) string {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	result := fmt.Sprintf("Symbols: %s  Relations: %s  Endpoints: %s  Dependencies: %s\n",
		green(len(artifacts.Symbols)), green(len(artifacts.Relations)),
		green(len(artifacts.APIEndpoints)), green(len(dependencies)))
	for _, endpoint := range artifacts.APIEndpoints {
		result += fmt.Sprintf("  %s %s -> %s (%s)\n",
			yellow(endpoint.HTTPMethod), endpoint.Path, endpoint.HandlerName, endpoint.Framework)
	}
	return result
}

func writeResult(outputFile string, data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

func loggerFromFlags(cmd *cobra.Command) *output.Logger {
	verbosity := output.VerbosityDefault
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		verbosity = output.VerbosityVerbose
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		verbosity = output.VerbosityDebug
	}
	return output.NewLogger(verbosity)
}

func init() {
	scanCmd.Flags().String("project", "", "Project directory to scan")
	scanCmd.Flags().String("format", "text", "Output format: text or json")
	scanCmd.Flags().String("output", "", "Output file path (default stdout)")
	rootCmd.AddCommand(scanCmd)
}
