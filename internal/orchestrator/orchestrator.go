// Package orchestrator drives the Running/Draining/Reporting/Terminated
// state machine: it schedules batches against an anchored clock, hands
// submission off to a pool.Pool, and finalizes through a collector.Collector
// once the pool has drained or been cancelled.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpequegn/loadgen/internal/collector"
	"github.com/jpequegn/loadgen/internal/pool"
)

// driftThreshold is how late a tick can fire before it is logged as drift.
// One full interval late means the scheduler missed an entire cycle.
const driftThreshold = 1

// Orchestrator owns one run's timing plan. It is not reusable: construct a
// new one per run.
type Orchestrator struct {
	settings Settings
	pool     pool.Pool
	coll     *collector.Collector
	log      *slog.Logger
}

// New constructs an Orchestrator. coll is used both for batch bookkeeping
// during Running and for the final Result() call during Reporting.
func New(settings Settings, p pool.Pool, coll *collector.Collector, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{settings: settings, pool: p, coll: coll, log: log}
}

// Run drives the full state machine to completion and returns the finalized
// LoadResult. It returns an error only for conditions the spec calls a fatal
// engine failure: the drain ceiling exceeded, or the final collector
// round-trip failing.
func (o *Orchestrator) Run(ctx context.Context) (collector.LoadResult, error) {
	if o.settings.Duration <= 0 {
		return o.drainAndReport(ctx)
	}

	t0 := time.Now()
	batchIndex := 0
	submitted := 0

running:
	for {
		if ctx.Err() != nil {
			break
		}

		target := t0.Add(time.Duration(batchIndex) * o.settings.Interval)

		if o.settings.TerminationMode == CompleteCurrentInterval && target.After(t0.Add(o.settings.Duration)) {
			break
		}

		if wait := time.Until(target); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				break running
			}
		} else if -wait > o.settings.Interval*driftThreshold {
			o.log.Warn("orchestrator: scheduler tick fired late",
				"batch", batchIndex, "behind", -wait, "interval", o.settings.Interval)
		}

		if o.settings.TerminationMode != CompleteCurrentInterval && time.Since(t0) >= o.settings.Duration {
			break
		}

		batchSize := o.settings.Concurrency
		if o.settings.MaxIterations > 0 {
			remaining := o.settings.MaxIterations - submitted
			if remaining <= 0 {
				break
			}
			if batchSize > remaining {
				batchSize = remaining
			}
		}

		for i := 0; i < batchSize; i++ {
			if err := o.pool.Submit(ctx); err != nil {
				break running
			}
			submitted++
		}
		o.coll.BatchCompleted(batchIndex)
		batchIndex++

		if o.settings.MaxIterations > 0 && submitted >= o.settings.MaxIterations {
			break
		}
	}

	return o.drainAndReport(ctx)
}

// drainAndReport runs the Draining and Reporting phases. Draining stops
// accepting new submissions, waits up to GracefulStopTimeout for in-flight
// work to finish naturally, then cancels and waits out a hard ceiling of
// max(60s, duration+60s) before declaring the run a fatal failure.
func (o *Orchestrator) drainAndReport(ctx context.Context) (collector.LoadResult, error) {
	o.pool.CloseSubmission()

	ceiling := o.settings.Duration + 60*time.Second
	if ceiling < 60*time.Second {
		ceiling = 60 * time.Second
	}
	hardCtx, hardCancel := context.WithTimeout(context.Background(), ceiling)
	defer hardCancel()

	graceCtx, graceCancel := context.WithTimeout(context.Background(), o.settings.GracefulStopTimeout)
	defer graceCancel()

	select {
	case <-o.pool.Drain(graceCtx):
	case <-graceCtx.Done():
		o.pool.Cancel()
		select {
		case <-o.pool.Drain(context.Background()):
		case <-hardCtx.Done():
			return collector.LoadResult{}, fmt.Errorf("orchestrator: drain exceeded hard ceiling of %s", ceiling)
		}
	case <-hardCtx.Done():
		return collector.LoadResult{}, fmt.Errorf("orchestrator: drain exceeded hard ceiling of %s", ceiling)
	}

	resultCtx, resultCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer resultCancel()

	result, err := o.coll.Result(resultCtx)
	if err != nil {
		return collector.LoadResult{}, fmt.Errorf("orchestrator: finalizing result: %w", err)
	}
	return result, nil
}
