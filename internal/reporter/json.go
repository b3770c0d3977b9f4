package reporter

import (
	"encoding/json"
	"fmt"
	"io"
)

// RenderJSON writes r as indented JSON to writer. It is the format loadgen
// run writes with --output and the compare and report commands read back in
// as input.
func RenderJSON(r Report, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("reporter: encoding JSON report: %w", err)
	}
	return nil
}
