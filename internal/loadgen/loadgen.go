package loadgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpequegn/loadgen/internal/collector"
	"github.com/jpequegn/loadgen/internal/orchestrator"
	"github.com/jpequegn/loadgen/internal/pool"
)

const (
	minGracefulStop     = 5 * time.Second
	maxGracefulStop     = 60 * time.Second
	gracefulStopPercent = 0.30
)

// Run executes plan under config to completion and returns the finalized
// result. The context governs cooperative cancellation of the Running
// phase; Draining and Reporting always run to their own bounded ceilings
// regardless of ctx so a cancelled run still reports whatever it collected.
func Run(ctx context.Context, plan LoadExecutionPlan, config WorkerConfiguration) (LoadResult, error) {
	if err := validate(plan, config); err != nil {
		return LoadResult{}, err
	}

	graceful := resolveGracefulStopTimeout(plan.Settings, config)

	coll := collector.New(plan.Name, time.Now(), config.EnableDetailedMetrics)
	defer coll.Close()

	p := newPool(plan, config, coll)

	orchSettings := orchestrator.Settings{
		Concurrency:         plan.Settings.Concurrency,
		Duration:            plan.Settings.Duration,
		Interval:            plan.Settings.Interval,
		MaxIterations:       plan.Settings.MaxIterations,
		TerminationMode:     plan.Settings.TerminationMode,
		GracefulStopTimeout: graceful,
	}

	log := slog.Default().With("run", plan.Name)
	o := orchestrator.New(orchSettings, p, coll, log)

	result, err := o.Run(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("loadgen: run %q: %w", plan.Name, err)
	}
	return result, nil
}

func newPool(plan LoadExecutionPlan, config WorkerConfiguration, sink pool.EventSink) pool.Pool {
	switch config.PoolType {
	case TaskSpawnedPoolType:
		return pool.NewTaskSpawned(plan.Operation, sink)
	default:
		workers := config.MaxWorkerThreads
		if workers <= 0 {
			workers = pool.WorkerCount(plan.Settings.Concurrency)
		}
		return pool.NewHybrid(plan.Operation, sink, workers, config.ChannelCapacity)
	}
}

// resolveGracefulStopTimeout applies the default clamp(duration*0.30, 5s,
// 60s) budget unless the caller set an explicit override, and forces the
// budget to zero under StrictDuration regardless of either.
func resolveGracefulStopTimeout(settings LoadSettings, config WorkerConfiguration) time.Duration {
	if settings.TerminationMode == StrictDuration {
		return 0
	}
	if config.GracefulStopTimeout > 0 {
		return config.GracefulStopTimeout
	}
	g := time.Duration(float64(settings.Duration) * gracefulStopPercent)
	if g < minGracefulStop {
		g = minGracefulStop
	}
	if g > maxGracefulStop {
		g = maxGracefulStop
	}
	return g
}
