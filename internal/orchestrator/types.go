package orchestrator

import "time"

// TerminationMode governs how the stop boundary interacts with in-flight
// work and mid-batch cut-offs, per spec §4.D.
type TerminationMode int

const (
	// Duration stops scheduling as soon as now - t0 >= duration.
	Duration TerminationMode = iota
	// CompleteCurrentInterval only stops after the last batch that begins
	// at or before t0 + duration, guaranteeing every emitted batch is the
	// full configured width.
	CompleteCurrentInterval
	// StrictDuration schedules identically to Duration but drives the
	// graceful-stop budget to zero: anything in flight at the boundary is
	// cancelled rather than drained.
	StrictDuration
)

func (m TerminationMode) String() string {
	switch m {
	case Duration:
		return "duration"
	case CompleteCurrentInterval:
		return "complete-current-interval"
	case StrictDuration:
		return "strict-duration"
	default:
		return "unknown"
	}
}

// Settings is the orchestrator's view of the timing plan. Callers (the
// loadgen package) are responsible for validating and defaulting fields
// (e.g. resolving GracefulStopTimeout, forcing it to zero under
// StrictDuration) before constructing one.
type Settings struct {
	Concurrency         int
	Duration            time.Duration
	Interval            time.Duration
	MaxIterations       int // 0 means unset
	TerminationMode     TerminationMode
	GracefulStopTimeout time.Duration
}
