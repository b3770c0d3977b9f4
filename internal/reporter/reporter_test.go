package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpequegn/loadgen/internal/comparator"
	"github.com/jpequegn/loadgen/internal/loadgen"
	"github.com/jpequegn/loadgen/internal/trend"
)

func sampleReport() Report {
	return Report{
		Result: loadgen.LoadResult{
			Name:              "smoke",
			Total:             100,
			Success:           98,
			Failure:           2,
			RequestsPerSecond: 42.5,
			AvgLatencyMs:      12.3,
			P95LatencyMs:      30.1,
			P99LatencyMs:      40.2,
			WorkerThreadsUsed: 8,
		},
	}
}

func TestHTMLReporter_RendersWithoutError(t *testing.T) {
	reporter, err := NewHTMLReporter()
	if err != nil {
		t.Fatalf("NewHTMLReporter: %v", err)
	}

	var buf bytes.Buffer
	report := sampleReport()
	if err := reporter.Render(report, Options{DarkMode: true, ShowCharts: true}, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "smoke") {
		t.Error("expected rendered output to reference the run name")
	}
	if !strings.Contains(out, "<canvas") {
		t.Error("expected chart canvas when ShowCharts is true")
	}
}

func TestHTMLReporter_RendersComparisonAndTrendSections(t *testing.T) {
	reporter, err := NewHTMLReporter()
	if err != nil {
		t.Fatalf("NewHTMLReporter: %v", err)
	}

	report := sampleReport()
	cmp := comparator.Compare(loadgen.LoadResult{Name: "baseline", AvgLatencyMs: 10}, loadgen.LoadResult{Name: "current", AvgLatencyMs: 15}, 5.0)
	report.Comparison = &cmp
	tr := trend.Result{Direction: trend.Degrading, SlopeMsPerSecond: 0.5, RSquared: 0.9, DataPoints: 4}
	report.Trend = &tr

	var buf bytes.Buffer
	if err := reporter.Render(report, Options{}, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "avg_latency_ms") {
		t.Error("expected comparison metrics table in output")
	}
	if !strings.Contains(out, "degrading") {
		t.Error("expected trend direction in output")
	}
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	if err := RenderJSON(report, &buf); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Result.Name != report.Result.Name {
		t.Errorf("Result.Name = %q, want %q", decoded.Result.Name, report.Result.Name)
	}
	if decoded.Result.Total != report.Result.Total {
		t.Errorf("Result.Total = %d, want %d", decoded.Result.Total, report.Result.Total)
	}
}
