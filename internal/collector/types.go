package collector

import "time"

// LoadResult is the finalized report produced by a single run.
type LoadResult struct {
	Name  string `json:"name"`
	RunID string `json:"run_id"`

	Total              int64 `json:"total"`
	Success            int64 `json:"success"`
	Failure            int64 `json:"failure"`
	RequestsStarted    int64 `json:"requests_started"`
	RequestsInFlight   int64 `json:"requests_in_flight"`
	BatchesCompleted   int64 `json:"batches_completed"`
	WorkerThreadsUsed  int   `json:"worker_threads_used"`

	TimeSeconds       float64 `json:"time_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`

	MinLatencyMs    float64 `json:"min_latency_ms"`
	AvgLatencyMs    float64 `json:"avg_latency_ms"`
	MedianLatencyMs float64 `json:"median_latency_ms"`
	P95LatencyMs    float64 `json:"p95_latency_ms"`
	P99LatencyMs    float64 `json:"p99_latency_ms"`
	MaxLatencyMs    float64 `json:"max_latency_ms"`

	AvgQueueTimeMs float64 `json:"avg_queue_time_ms"`
	MaxQueueTimeMs float64 `json:"max_queue_time_ms"`

	WorkerUtilization float64 `json:"worker_utilization"`
	PeakMemoryBytes   uint64  `json:"peak_memory_bytes"`

	// BatchSamples is populated only when detailed metrics are enabled; it
	// feeds the trend package's in-run degradation analysis and is not part
	// of the spec's required LoadResult surface.
	BatchSamples []BatchSample `json:"batch_samples,omitempty"`
}

// BatchSample is one data point for in-run trend analysis: the average
// service time of the items completed between the previous batch's
// BatchCompleted call and the one for batch `Index`.
type BatchSample struct {
	Index            int       `json:"index"`
	AvgServiceTimeMs float64   `json:"avg_service_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

// state is the mutable, private-to-the-goroutine collector state. It is
// never touched outside the run loop.
type state struct {
	name  string
	runID string

	requestsStarted  int64
	requestsInFlight int64
	success          int64
	failure          int64
	batchesCompleted int64
	workerThreads    int
	workerThreadsSet bool

	serviceTimes []float64 // milliseconds, in arrival order

	sumService float64

	sumQueue float64
	maxQueue float64

	peakMemoryBytes uint64

	detailedMetrics bool
	startTime       time.Time

	batchSamples      []BatchSample
	batchServiceSum   float64
	batchServiceCount int64
}
