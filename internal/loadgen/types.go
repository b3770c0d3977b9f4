// Package loadgen is the public entry point: it wires a collector, a pool,
// and an orchestrator together from a LoadExecutionPlan and
// WorkerConfiguration, and hands back a finalized LoadResult.
package loadgen

import (
	"time"

	"github.com/jpequegn/loadgen/internal/collector"
	"github.com/jpequegn/loadgen/internal/orchestrator"
	"github.com/jpequegn/loadgen/internal/pool"
)

// LoadResult is the finalized statistical report for one run.
type LoadResult = collector.LoadResult

// BatchSample is one in-run trend data point; see collector.BatchSample.
type BatchSample = collector.BatchSample

// Operation is the user's callback, invoked once per submitted item. It
// returns whether the attempt succeeded; a panic is recovered and recorded
// as a failure rather than crashing the run.
type Operation = pool.Operation

// TerminationMode selects how the run's stop boundary interacts with
// mid-batch and in-flight work.
type TerminationMode = orchestrator.TerminationMode

const (
	Duration                = orchestrator.Duration
	CompleteCurrentInterval = orchestrator.CompleteCurrentInterval
	StrictDuration          = orchestrator.StrictDuration
)

// PoolType selects which executor drives submission.
type PoolType int

const (
	// HybridPoolType is a fixed number of long-lived workers draining a
	// shared queue (optionally bounded).
	HybridPoolType PoolType = iota
	// TaskSpawnedPoolType spawns one goroutine per submitted item.
	TaskSpawnedPoolType
)

func (t PoolType) String() string {
	switch t {
	case HybridPoolType:
		return "hybrid"
	case TaskSpawnedPoolType:
		return "task-spawned"
	default:
		return "unknown"
	}
}

// LoadSettings is the timing plan for a run: how many items per batch, how
// often, for how long, and how to stop.
type LoadSettings struct {
	Concurrency     int
	Duration        time.Duration
	Interval        time.Duration
	MaxIterations   int // 0 means unset
	TerminationMode TerminationMode
}

// WorkerConfiguration selects and tunes the executor.
type WorkerConfiguration struct {
	PoolType PoolType

	// ChannelCapacity bounds the Hybrid pool's submission queue; 0 selects
	// a default depth of 1<<20 (1,048,576) items, beyond which Submit
	// blocks. Ignored for TaskSpawnedPoolType.
	ChannelCapacity int

	// MaxWorkerThreads pins the Hybrid pool's fixed worker count, overriding
	// the §4.B formula (base = cpu*2, scaled to concurrency/10, capped at
	// cpu*50 or 1000). 0 means unset: the formula applies. Ignored for
	// TaskSpawnedPoolType, which has no fixed worker count.
	MaxWorkerThreads int

	// GracefulStopTimeout overrides the default clamp(duration*0.30, 5s,
	// 60s) budget given to in-flight work once scheduling stops. Forced to
	// zero when Settings.TerminationMode is StrictDuration.
	GracefulStopTimeout time.Duration

	// EnableDetailedMetrics turns on process memory sampling and in-run
	// batch trend sampling, both of which cost a little overhead per
	// request.
	EnableDetailedMetrics bool
}

// LoadExecutionPlan names a run and supplies the operation it repeats.
type LoadExecutionPlan struct {
	Name      string
	Operation Operation
	Settings  LoadSettings
}
