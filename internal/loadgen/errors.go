package loadgen

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName               = errors.New("loadgen: plan name must not be empty")
	ErrNilOperation            = errors.New("loadgen: plan operation must not be nil")
	ErrInvalidConcurrency      = errors.New("loadgen: concurrency must be positive")
	ErrInvalidInterval         = errors.New("loadgen: interval must be positive")
	ErrInvalidDuration         = errors.New("loadgen: duration must not be negative")
	ErrInvalidMaxIterations    = errors.New("loadgen: max_iterations must not be negative")
	ErrInvalidChannelCapacity  = errors.New("loadgen: channel_capacity must not be negative")
	ErrInvalidMaxWorkerThreads = errors.New("loadgen: max_worker_threads must not be negative")
	ErrUnknownTerminationMode  = errors.New("loadgen: unknown termination mode")
	ErrUnknownPoolType         = errors.New("loadgen: unknown pool type")
)

// validate checks the plan and configuration before any collector or pool
// goroutine is started, so a misconfigured run fails fast with no cleanup
// required.
func validate(plan LoadExecutionPlan, config WorkerConfiguration) error {
	if plan.Name == "" {
		return ErrEmptyName
	}
	if plan.Operation == nil {
		return ErrNilOperation
	}
	if plan.Settings.Concurrency <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, plan.Settings.Concurrency)
	}
	if plan.Settings.Interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, plan.Settings.Interval)
	}
	if plan.Settings.Duration < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDuration, plan.Settings.Duration)
	}
	if plan.Settings.MaxIterations < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxIterations, plan.Settings.MaxIterations)
	}
	switch plan.Settings.TerminationMode {
	case Duration, CompleteCurrentInterval, StrictDuration:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownTerminationMode, plan.Settings.TerminationMode)
	}
	switch config.PoolType {
	case HybridPoolType, TaskSpawnedPoolType:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownPoolType, config.PoolType)
	}
	if config.ChannelCapacity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChannelCapacity, config.ChannelCapacity)
	}
	if config.MaxWorkerThreads < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxWorkerThreads, config.MaxWorkerThreads)
	}
	return nil
}
