package pool

import (
	"context"
	"runtime"
	"time"
)

// Operation is the opaque, argument-less, asynchronous callable a load test
// repeats. It receives the run's cancellation context (observed only if it
// chooses to) and reports success or failure; it never returns an error —
// any panic is caught at the worker boundary and recorded as a failure.
type Operation func(ctx context.Context) bool

// EventSink is the subset of the collector the pools need to report to. It
// is satisfied structurally by *collector.Collector.
type EventSink interface {
	RequestStarted()
	StepResult(success bool, serviceTime, queueTime time.Duration, hasQueueTime bool)
	WorkerThreadCount(n int)
	AdjustInFlight(delta int64)
}

// Pool is the interface the Orchestrator drives, satisfied by both the
// Hybrid and Task-spawned executors.
type Pool interface {
	// Submit enqueues one work item. It blocks only if the pool applies
	// back-pressure (a bounded Hybrid queue); ctx cancellation aborts the
	// wait without enqueuing.
	Submit(ctx context.Context) error

	// CloseSubmission signals that no further items will be submitted.
	CloseSubmission()

	// Drain returns a channel that closes once every submitted item has
	// completed (or, after Cancel, once abandoned work has been dropped).
	Drain(ctx context.Context) <-chan struct{}

	// Cancel abandons any in-flight or not-yet-started work immediately.
	Cancel()
}

// WorkerCount implements the spec's worker-count formula for the Hybrid
// pool when max_worker_threads is not explicitly configured.
func WorkerCount(concurrency int) int {
	cpus := runtime.NumCPU()
	base := cpus * 2
	scaled := base
	if s := ceilDiv(concurrency, 10); s > scaled {
		scaled = s
	}
	ceiling := cpus * 50
	if ceiling > 1000 {
		ceiling = 1000
	}
	if scaled > ceiling {
		return ceiling
	}
	return scaled
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
