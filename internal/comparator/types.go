package comparator

// MetricComparison captures one metric's change between a baseline and a
// current LoadResult.
type MetricComparison struct {
	// Name is the metric's field name, e.g. "avg_latency_ms".
	Name string `json:"name"`

	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`

	// DeltaPercent is the signed percentage change from baseline to
	// current. For latency-like metrics a positive delta is worse; for
	// throughput a negative delta is worse.
	DeltaPercent float64 `json:"delta_percent"`

	// HigherIsWorse distinguishes latency-style metrics (regression = got
	// bigger) from throughput-style metrics (regression = got smaller).
	HigherIsWorse bool `json:"higher_is_worse"`

	IsRegression  bool `json:"is_regression"`
	IsImprovement bool `json:"is_improvement"`
}

// ComparisonSummary aggregates the per-metric comparisons.
type ComparisonSummary struct {
	TotalMetrics int `json:"total_metrics"`
	Regressions  int `json:"regressions"`
	Improvements int `json:"improvements"`
}

// ComparisonResult is the full output of comparing a baseline LoadResult
// against a current one.
type ComparisonResult struct {
	BaselineName string `json:"baseline_name"`
	CurrentName  string `json:"current_name"`

	ThresholdPercent float64            `json:"threshold_percent"`
	Metrics          []MetricComparison `json:"metrics"`
	Regressions      []string           `json:"regressions"`
	Improvements     []string           `json:"improvements"`
	Summary          ComparisonSummary  `json:"summary"`
}
