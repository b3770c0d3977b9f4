// Command loadgen drives a configurable concurrent load test and reports
// latency, throughput, and worker utilization.
package main

import (
	"fmt"
	"os"

	"github.com/jpequegn/loadgen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
