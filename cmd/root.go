package cmd

import (
	"github.com/spf13/cobra"

	"github.com/livingdoc/analysis-core/analytics"
	"github.com/livingdoc/analysis-core/config"
)

var rootCmd = &cobra.Command{
	Use:   "livingdoc",
	Short: "Living documentation analyzer - symbols, endpoints, dependencies and drift",
	Long: `Livingdoc scans a source repository into a language-agnostic program
model (symbols, relations, API endpoints, dependencies) and compares two
snapshots of that model for drift.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		configPath, _ := cmd.Flags().GetString("config")
		if cfg, err := config.Load(configPath); err == nil && cfg.DisableAnalytics {
			disableMetrics = true
		}
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show progress and statistics")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug diagnostics")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
}
