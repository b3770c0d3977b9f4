package reporter

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLReporter renders Reports to HTML with embedded CSS and a small
// Chart.js snippet for the latency percentile bars.
type HTMLReporter struct {
	templates *template.Template
}

// NewHTMLReporter parses the embedded templates once; reuse the returned
// reporter across renders.
func NewHTMLReporter() (*HTMLReporter, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("reporter: parsing templates: %w", err)
	}
	return &HTMLReporter{templates: tmpl}, nil
}

// Render writes an HTML report for r to writer.
func (h *HTMLReporter) Render(r Report, opts Options, writer io.Writer) error {
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Load Test Report: %s", r.Result.Name)
	}

	data := &templateData{
		Title:      opts.Title,
		DarkMode:   opts.DarkMode,
		ShowCharts: opts.ShowCharts,
		Report:     r,
		ChartData:  latencyChartData(r),
	}

	if err := h.templates.ExecuteTemplate(writer, "report.html", data); err != nil {
		return fmt.Errorf("reporter: executing template: %w", err)
	}
	return nil
}

func latencyChartData(r Report) *chartData {
	return &chartData{
		Labels:     []string{"min", "avg", "median", "p95", "p99", "max"},
		Values:     []float64{r.Result.MinLatencyMs, r.Result.AvgLatencyMs, r.Result.MedianLatencyMs, r.Result.P95LatencyMs, r.Result.P99LatencyMs, r.Result.MaxLatencyMs},
		ChartTitle: "Latency (ms)",
		YAxisLabel: "ms",
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatPercent": func(f float64) string {
			return fmt.Sprintf("%.2f%%", f)
		},
		"formatMs": func(f float64) string {
			return fmt.Sprintf("%.2f ms", f)
		},
		"formatBytes": func(b uint64) string {
			const unit = 1024
			if b < unit {
				return fmt.Sprintf("%d B", b)
			}
			div, exp := int64(unit), 0
			for n := b / unit; n >= unit; n /= unit {
				div *= unit
				exp++
			}
			return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
		},
		"formatTimestamp": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"plusSign": func(f float64) string {
			if f > 0 {
				return "+"
			}
			return ""
		},
		"severityClass": func(s string) string {
			return "severity-" + s
		},
		"toJSON": func(v interface{}) string {
			switch val := v.(type) {
			case []string:
				quoted := make([]string, len(val))
				for i, s := range val {
					quoted[i] = fmt.Sprintf("%q", s)
				}
				return "[" + strings.Join(quoted, ",") + "]"
			case []float64:
				strs := make([]string, len(val))
				for i, f := range val {
					strs[i] = fmt.Sprintf("%.4f", f)
				}
				return "[" + strings.Join(strs, ",") + "]"
			default:
				return "[]"
			}
		},
	}
}
