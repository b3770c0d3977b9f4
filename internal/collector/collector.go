package collector

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
)

// inboxCapacity is large enough that producers on the hot path never block
// on delivery, per the spec's "no back-pressure in the hot path" rule.
const inboxCapacity = 1 << 16

// Collector accumulates per-request events from a running load test and
// finalizes them into a LoadResult on request. All state lives in a single
// goroutine started by New; callers interact only through the methods below,
// which send messages into its inbox.
type Collector struct {
	inbox  chan func(*state)
	closed chan struct{}
}

// New creates and starts a collector for a run named name. startTime is the
// Orchestrator's test-start timestamp, used to compute elapsed time at
// finalization (the elapsed span includes the drain tail, not just the
// configured duration). Each run is stamped with a fresh UUID so that
// reports from repeated runs of the same named plan can still be told apart.
func New(name string, startTime time.Time, detailedMetrics bool) *Collector {
	c := &Collector{
		inbox:  make(chan func(*state), inboxCapacity),
		closed: make(chan struct{}),
	}
	st := &state{
		name:            name,
		runID:           uuid.New().String(),
		startTime:       startTime,
		detailedMetrics: detailedMetrics,
	}
	go c.run(st)
	return c
}

func (c *Collector) run(st *state) {
	defer close(c.closed)
	for fn := range c.inbox {
		fn(st)
	}
}

// send enqueues fn to run on the collector goroutine. It never blocks in
// practice because the inbox is sized well above any realistic burst; if it
// ever did fill, blocking here is still safe since there is exactly one
// consumer draining it continuously.
func (c *Collector) send(fn func(*state)) {
	c.inbox <- fn
}

// RequestStarted records that an operation began executing. It optionally
// samples process memory when detailed metrics are enabled.
func (c *Collector) RequestStarted() {
	c.send(func(st *state) {
		st.requestsStarted++
		st.requestsInFlight++
		if st.detailedMetrics {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Sys > st.peakMemoryBytes {
				st.peakMemoryBytes = m.Sys
			}
		}
	})
}

// StepResult records a completed operation. queueTime is only meaningful for
// pools that measure it (the Hybrid pool); hasQueueTime distinguishes "zero
// because unmeasured" from "zero because instantaneous".
func (c *Collector) StepResult(success bool, serviceTime time.Duration, queueTime time.Duration, hasQueueTime bool) {
	c.send(func(st *state) {
		if st.requestsInFlight > 0 {
			st.requestsInFlight--
		}
		if success {
			st.success++
		} else {
			st.failure++
		}

		ms := float64(serviceTime) / float64(time.Millisecond)
		st.serviceTimes = append(st.serviceTimes, ms)
		st.sumService += ms

		if hasQueueTime {
			qms := float64(queueTime) / float64(time.Millisecond)
			st.sumQueue += qms
			if qms > st.maxQueue {
				st.maxQueue = qms
			}
		}

		if st.detailedMetrics {
			st.batchServiceSum += ms
			st.batchServiceCount++
		}
	})
}

// BatchCompleted records that the Orchestrator finished submitting batch
// index i (0-based). When detailed metrics are enabled it also closes out a
// BatchSample covering everything completed since the previous batch.
func (c *Collector) BatchCompleted(index int) {
	c.send(func(st *state) {
		st.batchesCompleted++
		if st.detailedMetrics {
			avg := 0.0
			if st.batchServiceCount > 0 {
				avg = st.batchServiceSum / float64(st.batchServiceCount)
			}
			st.batchSamples = append(st.batchSamples, BatchSample{
				Index:            index,
				AvgServiceTimeMs: avg,
				Timestamp:        time.Now(),
			})
			st.batchServiceSum = 0
			st.batchServiceCount = 0
		}
	})
}

// WorkerThreadCount sets the number of worker threads used. It is a
// single-shot, idempotent call — later calls overwrite earlier ones, but in
// practice a pool calls it exactly once at startup.
func (c *Collector) WorkerThreadCount(n int) {
	c.send(func(st *state) {
		st.workerThreads = n
		st.workerThreadsSet = true
	})
}

// AdjustInFlight reconciles requests_in_flight after cancellation drops
// started-but-unfinished items without a matching StepResult.
func (c *Collector) AdjustInFlight(delta int64) {
	c.send(func(st *state) {
		st.requestsInFlight += delta
		if st.requestsInFlight < 0 {
			st.requestsInFlight = 0
		}
	})
}

// Result finalizes and returns the LoadResult. It blocks until the
// collector goroutine processes every message enqueued before this call,
// per the ask-pattern in §9 of the design. Calling Result more than once is
// safe: with no events in between, counters and latency statistics are
// identical across calls. The output is not byte-identical, because
// TimeSeconds, RequestsPerSecond and WorkerUtilization are recomputed from
// the current time on every call.
func (c *Collector) Result(ctx context.Context) (LoadResult, error) {
	reply := make(chan LoadResult, 1)
	select {
	case c.inbox <- func(st *state) { reply <- finalize(st) }:
	case <-ctx.Done():
		return LoadResult{}, fmt.Errorf("collector: result request not accepted: %w", ctx.Err())
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return LoadResult{}, fmt.Errorf("collector: result request timed out: %w", ctx.Err())
	}
}

// Close stops the collector's goroutine. Call only after the final Result
// has been obtained.
func (c *Collector) Close() {
	close(c.inbox)
	<-c.closed
}

func finalize(st *state) LoadResult {
	sorted := append([]float64(nil), st.serviceTimes...)
	sort.Float64s(sorted)

	count := len(sorted)
	elapsed := time.Since(st.startTime)
	elapsedSeconds := elapsed.Seconds()

	avg := 0.0
	if count > 0 {
		avg = st.sumService / float64(count)
	}

	result := LoadResult{
		Name:              st.name,
		RunID:             st.runID,
		Total:             st.success + st.failure,
		Success:           st.success,
		Failure:           st.failure,
		RequestsStarted:   st.requestsStarted,
		RequestsInFlight:  st.requestsInFlight,
		BatchesCompleted:  st.batchesCompleted,
		WorkerThreadsUsed: st.workerThreads,
		TimeSeconds:       elapsedSeconds,
		MinLatencyMs:      edgeValue(sorted, 0),
		AvgLatencyMs:      avg,
		MedianLatencyMs:   percentile(sorted, 0.50),
		P95LatencyMs:      percentile(sorted, 0.95),
		P99LatencyMs:      percentile(sorted, 0.99),
		MaxLatencyMs:      edgeValue(sorted, len(sorted)-1),
		AvgQueueTimeMs:    avgOrZero(st.sumQueue, count),
		MaxQueueTimeMs:    st.maxQueue,
		PeakMemoryBytes:   st.peakMemoryBytes,
		BatchSamples:      append([]BatchSample(nil), st.batchSamples...),
	}

	if elapsedSeconds > 0 {
		result.RequestsPerSecond = float64(result.Total) / elapsedSeconds
	}

	if st.workerThreadsSet && st.workerThreads > 0 && elapsed > 0 {
		elapsedMs := float64(elapsed) / float64(time.Millisecond)
		util := (avg * float64(result.Total)) / (float64(st.workerThreads) * elapsedMs)
		result.WorkerUtilization = math.Min(1.0, util)
	}

	return result
}

// percentile implements the spec's upper-nearest-rank method:
// sorted[ceil(p*n) - 1], clamped to [0, n-1], 0 when n == 0.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// edgeValue returns sorted[idx], or 0 when sorted is empty.
func edgeValue(sorted []float64, idx int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[idx]
}

func avgOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
