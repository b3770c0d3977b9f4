package cmd

import (
	"fmt"

	"github.com/jpequegn/loadgen/internal/trend"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved load test report",
	Long: `Render a JSON report produced by 'loadgen run --output' into HTML, or
re-emit it as JSON. When the report carries no trend section but holds at
least 3 batch samples (the original run enabled detailed metrics), the
in-run trend/anomaly section is computed from those samples.

Example:
  loadgen report --input run.json --format html --output run.html`,
	RunE: renderReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	flags := reportCmd.Flags()
	flags.StringP("input", "i", "", "path to a JSON report produced by 'loadgen run' (required)")
	flags.StringP("format", "f", "html", "report format: html or json")
	flags.StringP("output", "o", "", "output file path (default: stdout)")
	flags.Float64("anomaly-z-threshold", 2.0, "z-score magnitude above which a batch is flagged anomalous")

	_ = reportCmd.MarkFlagRequired("input")
}

func renderReport(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	zThreshold, _ := cmd.Flags().GetFloat64("anomaly-z-threshold")

	if format != "html" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be html or json)", format)
	}

	report, err := loadReport(inputPath)
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}

	if report.Trend == nil && len(report.Result.BatchSamples) >= 3 {
		if tr, err := trend.Analyze(report.Result.BatchSamples, 3); err == nil {
			report.Trend = &tr
		}
		report.Anomalies = trend.DetectAnomalies(report.Result.BatchSamples, zThreshold)
	}

	return writeReport(report, format, outputPath)
}
