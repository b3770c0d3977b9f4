package comparator

import (
	"fmt"

	"github.com/jpequegn/loadgen/internal/loadgen"
)

// metricDescriptor extracts one named metric from a LoadResult and says
// which direction of change is worse.
type metricDescriptor struct {
	name          string
	higherIsWorse bool
	extract       func(loadgen.LoadResult) float64
}

var metricDescriptors = []metricDescriptor{
	{"avg_latency_ms", true, func(r loadgen.LoadResult) float64 { return r.AvgLatencyMs }},
	{"median_latency_ms", true, func(r loadgen.LoadResult) float64 { return r.MedianLatencyMs }},
	{"p95_latency_ms", true, func(r loadgen.LoadResult) float64 { return r.P95LatencyMs }},
	{"p99_latency_ms", true, func(r loadgen.LoadResult) float64 { return r.P99LatencyMs }},
	{"requests_per_second", false, func(r loadgen.LoadResult) float64 { return r.RequestsPerSecond }},
}

// Compare compares a baseline run against a current one across a fixed set
// of latency and throughput metrics. thresholdPercent is the magnitude of
// change, in percent, beyond which a metric is flagged as a regression
// (e.g. 5.0 means a 5% worse reading regresses).
//
// There is no statistical significance test here: a LoadResult carries
// aggregate percentiles, not a raw sample population, so there is nothing
// to run a t-test or confidence interval over. The comparison is a direct
// threshold check on the aggregate values themselves.
func Compare(baseline, current loadgen.LoadResult, thresholdPercent float64) ComparisonResult {
	result := ComparisonResult{
		BaselineName:     baseline.Name,
		CurrentName:      current.Name,
		ThresholdPercent: thresholdPercent,
		Metrics:          make([]MetricComparison, 0, len(metricDescriptors)),
		Regressions:      make([]string, 0),
		Improvements:     make([]string, 0),
	}

	for _, d := range metricDescriptors {
		mc := compareMetric(d, baseline, current, thresholdPercent)
		result.Metrics = append(result.Metrics, mc)
		if mc.IsRegression {
			result.Regressions = append(result.Regressions, mc.Name)
		} else if mc.IsImprovement {
			result.Improvements = append(result.Improvements, mc.Name)
		}
	}

	result.Summary = ComparisonSummary{
		TotalMetrics: len(result.Metrics),
		Regressions:  len(result.Regressions),
		Improvements: len(result.Improvements),
	}
	return result
}

func compareMetric(d metricDescriptor, baseline, current loadgen.LoadResult, thresholdPercent float64) MetricComparison {
	base := d.extract(baseline)
	cur := d.extract(current)

	var delta float64
	if base != 0 {
		delta = ((cur - base) / base) * 100
	}

	mc := MetricComparison{
		Name:          d.name,
		Baseline:      base,
		Current:       cur,
		DeltaPercent:  delta,
		HigherIsWorse: d.higherIsWorse,
	}

	if d.higherIsWorse {
		mc.IsRegression = delta > thresholdPercent
		mc.IsImprovement = !mc.IsRegression && delta < 0
	} else {
		mc.IsRegression = delta < -thresholdPercent
		mc.IsImprovement = !mc.IsRegression && delta > 0
	}

	return mc
}

// Summarize renders a one-line verdict for the comparison, suitable for
// CLI output.
func Summarize(r ComparisonResult) string {
	if r.Summary.Regressions == 0 {
		return fmt.Sprintf("%s vs %s: no regressions (%d metrics compared, %d improved)",
			r.CurrentName, r.BaselineName, r.Summary.TotalMetrics, r.Summary.Improvements)
	}
	return fmt.Sprintf("%s vs %s: %d regression(s) detected: %v",
		r.CurrentName, r.BaselineName, r.Summary.Regressions, r.Regressions)
}
