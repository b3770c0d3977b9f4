package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpequegn/loadgen/internal/reporter"
)

// loadReport reads a reporter.Report previously written by `loadgen run`.
func loadReport(path string) (reporter.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reporter.Report{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var r reporter.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return reporter.Report{}, fmt.Errorf("parsing %s as a load report: %w", path, err)
	}
	return r, nil
}

// writeReport renders r in the requested format to outputPath, or to stdout
// when outputPath is empty.
func writeReport(r reporter.Report, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch format {
	case "json":
		if err := reporter.RenderJSON(r, out); err != nil {
			return err
		}
	case "html":
		html, err := reporter.NewHTMLReporter()
		if err != nil {
			return err
		}
		opts := reporter.Options{DarkMode: true, ShowCharts: true}
		if err := html.Render(r, opts, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json or html)", format)
	}

	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}
	return nil
}
