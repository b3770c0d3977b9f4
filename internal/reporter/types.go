package reporter

import (
	"github.com/jpequegn/loadgen/internal/comparator"
	"github.com/jpequegn/loadgen/internal/loadgen"
	"github.com/jpequegn/loadgen/internal/trend"
)

// Options configures report rendering.
type Options struct {
	Title      string
	DarkMode   bool
	ShowCharts bool
}

// Report bundles everything a single HTML or JSON artifact can show: the
// run's result, and optionally a baseline comparison and an in-run trend.
type Report struct {
	Result     loadgen.LoadResult           `json:"result"`
	Comparison *comparator.ComparisonResult `json:"comparison,omitempty"`
	Trend      *trend.Result                `json:"trend,omitempty"`
	Anomalies  []trend.Anomaly              `json:"anomalies,omitempty"`
}

// templateData is what gets handed to the HTML template; it carries the
// render options alongside the report content.
type templateData struct {
	Title      string
	DarkMode   bool
	ShowCharts bool
	Report     Report
	ChartData  *chartData
}

// chartData mirrors a minimal Chart.js dataset shape for the latency
// percentile bar chart.
type chartData struct {
	Labels     []string
	Values     []float64
	ChartTitle string
	YAxisLabel string
}
