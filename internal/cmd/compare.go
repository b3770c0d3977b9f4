package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpequegn/loadgen/internal/comparator"
	"github.com/jpequegn/loadgen/internal/reporter"
	"github.com/spf13/cobra"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two load test reports",
	Long: `Compare a baseline JSON report (from 'loadgen run --output') against a
current one, flagging latency and throughput metrics that regressed beyond
the given threshold.

Example:
  loadgen compare --baseline baseline.json --current current.json
  loadgen compare -b baseline.json -c current.json -f html -o compare.html`,
	RunE: compareReports,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	flags := compareCmd.Flags()
	flags.StringP("baseline", "b", "", "path to the baseline JSON report (required)")
	flags.StringP("current", "c", "", "path to the current JSON report (required)")
	flags.Float64P("threshold", "t", 5.0, "regression threshold in percent (e.g. 5.0 = 5%% worse)")
	flags.StringP("format", "f", "text", "output format: text, json, or html")
	flags.StringP("output", "o", "", "output file path for json or html (default: stdout); text always goes to stdout")

	_ = compareCmd.MarkFlagRequired("baseline")
	_ = compareCmd.MarkFlagRequired("current")
}

func compareReports(cmd *cobra.Command, args []string) error {
	baselinePath, _ := cmd.Flags().GetString("baseline")
	currentPath, _ := cmd.Flags().GetString("current")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "text" && format != "json" && format != "html" {
		return fmt.Errorf("invalid format: %s (must be text, json, or html)", format)
	}

	baseline, err := loadReport(baselinePath)
	if err != nil {
		return fmt.Errorf("loading baseline: %w", err)
	}
	current, err := loadReport(currentPath)
	if err != nil {
		return fmt.Errorf("loading current: %w", err)
	}

	slog.Info("comparing reports", "baseline", baseline.Result.Name, "current", current.Result.Name, "threshold_percent", threshold)

	result := comparator.Compare(baseline.Result, current.Result, threshold)

	switch format {
	case "text":
		fmt.Println(comparator.Summarize(result))
		for _, m := range result.Metrics {
			fmt.Printf("  %-20s baseline=%.2f current=%.2f delta=%+.2f%%\n", m.Name, m.Baseline, m.Current, m.DeltaPercent)
		}
	default:
		report := reporter.Report{Result: current.Result, Comparison: &result}
		if err := writeReport(report, format, outputPath); err != nil {
			return err
		}
	}

	if result.Summary.Regressions > 0 {
		fmt.Fprintf(os.Stderr, "\n⚠️  %d regression(s) detected: %v\n", result.Summary.Regressions, result.Regressions)
		return fmt.Errorf("performance regressions detected (%d)", result.Summary.Regressions)
	}
	return nil
}
