package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
)

// TaskSpawnedPool is the spec's simpler alternative executor: one goroutine
// per submitted item, no shared queue, no fixed worker count. Queue time is
// never measured (there is no queue), matching §4.C and the Open Questions.
type TaskSpawnedPool struct {
	sink EventSink
	op   Operation

	wg conc.WaitGroup

	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
	inFlight  int64

	drained   chan struct{}
	drainOnce sync.Once
}

// NewTaskSpawned creates a Task-spawned pool. It reports worker_threads_used
// = 0 immediately, since this mode has no fixed worker count.
func NewTaskSpawned(op Operation, sink EventSink) *TaskSpawnedPool {
	ctx, cancel := context.WithCancel(context.Background())
	sink.WorkerThreadCount(0)
	return &TaskSpawnedPool{
		sink:    sink,
		op:      op,
		ctx:     ctx,
		cancel:  cancel,
		drained: make(chan struct{}),
	}
}

func (p *TaskSpawnedPool) Submit(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
	}

	p.wg.Go(p.execute)
	return nil
}

func (p *TaskSpawnedPool) execute() {
	startedAt := time.Now()
	p.sink.RequestStarted()
	atomic.AddInt64(&p.inFlight, 1)

	success := runGuarded(p.op, p.ctx)

	if p.cancelled.Load() {
		return
	}
	atomic.AddInt64(&p.inFlight, -1)
	p.sink.StepResult(success, time.Since(startedAt), 0, false)
}

// CloseSubmission is a no-op: there is no buffered queue to stop accepting
// from, only the spawning of new tasks, which the Orchestrator already
// stops driving once it transitions out of Running.
func (p *TaskSpawnedPool) CloseSubmission() {}

// Drain is safe to call more than once; only the first call's goroutine
// ever closes p.drained, the rest just observe it (see HybridPool.Drain).
func (p *TaskSpawnedPool) Drain(ctx context.Context) <-chan struct{} {
	p.drainOnce.Do(func() {
		go func() {
			p.wg.Wait()
			close(p.drained)
		}()
	})
	return p.drained
}

func (p *TaskSpawnedPool) Cancel() {
	if !p.cancelled.CompareAndSwap(false, true) {
		return
	}
	n := atomic.LoadInt64(&p.inFlight)
	if n > 0 {
		p.sink.AdjustInFlight(-n)
	}
	p.cancel()
}
