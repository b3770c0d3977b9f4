package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jpequegn/loadgen/internal/loadgen"
	"github.com/jpequegn/loadgen/internal/reporter"
	"github.com/jpequegn/loadgen/internal/trend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test",
	Long: `Run drives a configurable synthetic operation at the requested concurrency
and interval for a fixed duration, then prints a summary and optionally
writes the full result to a JSON file.

Example:
  loadgen run --name smoke --concurrency 50 --duration 30s --interval 1s
  loadgen run --name soak --pool task-spawned --duration 5m --output soak.json`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringP("name", "n", "run", "name for this run")
	flags.Int("concurrency", 10, "items submitted per batch")
	flags.Duration("duration", 10*time.Second, "how long to keep scheduling batches")
	flags.Duration("interval", time.Second, "time between the start of successive batches")
	flags.Int("max-iterations", 0, "cap total submitted items regardless of duration (0 = unset)")
	flags.String("termination-mode", "duration", "duration, complete-current-interval, or strict-duration")
	flags.String("pool", "hybrid", "hybrid or task-spawned")
	flags.Int("channel-capacity", 0, "hybrid pool queue depth (0 = default depth of 1048576)")
	flags.Int("max-worker-threads", 0, "pin the hybrid pool's worker count (0 = use the sizing formula)")
	flags.Duration("graceful-stop-timeout", 0, "in-flight drain budget (0 = spec default)")
	flags.Bool("detailed-metrics", false, "sample process memory and batch trend data")
	flags.Duration("demo-latency", 20*time.Millisecond, "mean latency of the built-in demo operation")
	flags.Float64("demo-failure-rate", 0.0, "fraction of demo operation calls that fail, 0-1")
	flags.StringP("output", "o", "", "write the full JSON report to this path")

	for _, name := range []string{"concurrency", "duration", "interval", "max-iterations", "termination-mode", "pool", "channel-capacity", "max-worker-threads", "graceful-stop-timeout", "detailed-metrics"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	plan, config, err := buildPlan(cmd)
	if err != nil {
		return fmt.Errorf("building run plan: %w", err)
	}

	slog.Info("starting run",
		"name", plan.Name,
		"concurrency", plan.Settings.Concurrency,
		"duration", plan.Settings.Duration,
		"interval", plan.Settings.Interval,
		"pool", config.PoolType)

	start := time.Now()
	result, err := loadgen.Run(context.Background(), plan, config)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printSummary(result, elapsed)

	report := reporter.Report{Result: result}
	if len(result.BatchSamples) >= 3 {
		if tr, err := trend.Analyze(result.BatchSamples, 3); err == nil {
			report.Trend = &tr
		}
		report.Anomalies = trend.DetectAnomalies(result.BatchSamples, 2.0)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		return nil
	}
	return writeReport(report, "json", outputPath)
}

func buildPlan(cmd *cobra.Command) (loadgen.LoadExecutionPlan, loadgen.WorkerConfiguration, error) {
	name, _ := cmd.Flags().GetString("name")
	concurrency := viper.GetInt("concurrency")
	duration := viper.GetDuration("duration")
	interval := viper.GetDuration("interval")
	maxIterations := viper.GetInt("max-iterations")
	modeFlag := viper.GetString("termination-mode")
	poolFlag := viper.GetString("pool")
	channelCapacity := viper.GetInt("channel-capacity")
	maxWorkerThreads := viper.GetInt("max-worker-threads")
	gracefulStop := viper.GetDuration("graceful-stop-timeout")
	detailed := viper.GetBool("detailed-metrics")

	demoLatency, _ := cmd.Flags().GetDuration("demo-latency")
	demoFailureRate, _ := cmd.Flags().GetFloat64("demo-failure-rate")

	mode, err := parseTerminationMode(modeFlag)
	if err != nil {
		return loadgen.LoadExecutionPlan{}, loadgen.WorkerConfiguration{}, err
	}
	poolType, err := parsePoolType(poolFlag)
	if err != nil {
		return loadgen.LoadExecutionPlan{}, loadgen.WorkerConfiguration{}, err
	}

	plan := loadgen.LoadExecutionPlan{
		Name:      name,
		Operation: demoOperation(demoLatency, demoFailureRate),
		Settings: loadgen.LoadSettings{
			Concurrency:     concurrency,
			Duration:        duration,
			Interval:        interval,
			MaxIterations:   maxIterations,
			TerminationMode: mode,
		},
	}

	config := loadgen.WorkerConfiguration{
		PoolType:              poolType,
		ChannelCapacity:       channelCapacity,
		MaxWorkerThreads:      maxWorkerThreads,
		GracefulStopTimeout:   gracefulStop,
		EnableDetailedMetrics: detailed,
	}

	return plan, config, nil
}

func parseTerminationMode(s string) (loadgen.TerminationMode, error) {
	switch s {
	case "duration":
		return loadgen.Duration, nil
	case "complete-current-interval":
		return loadgen.CompleteCurrentInterval, nil
	case "strict-duration":
		return loadgen.StrictDuration, nil
	default:
		return 0, fmt.Errorf("unknown termination-mode %q", s)
	}
}

func parsePoolType(s string) (loadgen.PoolType, error) {
	switch s {
	case "hybrid":
		return loadgen.HybridPoolType, nil
	case "task-spawned":
		return loadgen.TaskSpawnedPoolType, nil
	default:
		return 0, fmt.Errorf("unknown pool %q", s)
	}
}

// demoOperation stands in for the external collaborator this engine is
// meant to drive: it sleeps near meanLatency and fails at failureRate. Real
// integrations supply their own Operation instead of this one.
func demoOperation(meanLatency time.Duration, failureRate float64) loadgen.Operation {
	return func(ctx context.Context) bool {
		jitter := time.Duration(rand.Int63n(int64(meanLatency)+1)) - meanLatency/2
		select {
		case <-time.After(meanLatency + jitter):
		case <-ctx.Done():
			return false
		}
		return rand.Float64() >= failureRate
	}
}

func printSummary(r loadgen.LoadResult, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Load Test Summary: %s\n", r.Name)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "Run ID:           %s\n", r.RunID)
	fmt.Fprintf(os.Stderr, "Wall time:        %v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Total requests:   %d\n", r.Total)
	fmt.Fprintf(os.Stderr, "Success:          %d\n", r.Success)
	fmt.Fprintf(os.Stderr, "Failure:          %d\n", r.Failure)
	fmt.Fprintf(os.Stderr, "Requests/sec:     %.2f\n", r.RequestsPerSecond)
	fmt.Fprintf(os.Stderr, "Worker threads:   %d\n", r.WorkerThreadsUsed)
	fmt.Fprintf(os.Stderr, "Batches:          %d\n", r.BatchesCompleted)
	fmt.Fprintf(os.Stderr, "Latency avg/p95/p99/max: %.2f / %.2f / %.2f / %.2f ms\n",
		r.AvgLatencyMs, r.P95LatencyMs, r.P99LatencyMs, r.MaxLatencyMs)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════\n\n")
}
