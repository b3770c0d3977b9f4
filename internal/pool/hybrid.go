package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
)

// unboundedQueueDepth is the buffer used when no explicit channel_capacity
// is configured. It is large rather than infinite so an unattended run
// cannot grow memory without limit, while still never back-pressuring the
// Orchestrator in practice.
const unboundedQueueDepth = 1 << 20

// HybridPool is the spec's Hybrid Worker Pool: a fixed number of long-lived
// workers draining a shared channel. The worker goroutines themselves are
// supervised by a conc.WaitGroup, which recovers and re-raises any panic
// that escapes worker bookkeeping (as opposed to the user operation, which
// is guarded separately by runGuarded so it can never reach this layer).
type HybridPool struct {
	sink    EventSink
	op      Operation
	workers int
	queue   chan time.Time

	wg conc.WaitGroup

	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
	inFlight  int64

	drained   chan struct{}
	drainOnce sync.Once
}

// NewHybrid creates a Hybrid pool with the given worker count and optional
// bounded queue capacity (0 selects unboundedQueueDepth). It starts the workers and
// reports the worker count to sink immediately, per spec §4.B.
func NewHybrid(op Operation, sink EventSink, workers, channelCapacity int) *HybridPool {
	if workers <= 0 {
		workers = 1
	}
	depth := channelCapacity
	if depth <= 0 {
		depth = unboundedQueueDepth
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &HybridPool{
		sink:    sink,
		op:      op,
		workers: workers,
		queue:   make(chan time.Time, depth),
		ctx:     ctx,
		cancel:  cancel,
		drained: make(chan struct{}),
	}

	sink.WorkerThreadCount(workers)
	for i := 0; i < workers; i++ {
		p.wg.Go(p.workerLoop)
	}
	return p
}

func (p *HybridPool) workerLoop() {
	for {
		select {
		case enqueuedAt, ok := <-p.queue:
			if !ok {
				return
			}
			if p.cancelled.Load() {
				continue
			}
			p.execute(enqueuedAt)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *HybridPool) execute(enqueuedAt time.Time) {
	startedAt := time.Now()
	p.sink.RequestStarted()
	atomic.AddInt64(&p.inFlight, 1)

	success := runGuarded(p.op, p.ctx)
	finishedAt := time.Now()

	if p.cancelled.Load() {
		// Abandoned at cancellation time: discarded, not counted.
		return
	}
	atomic.AddInt64(&p.inFlight, -1)
	p.sink.StepResult(success, finishedAt.Sub(startedAt), startedAt.Sub(enqueuedAt), true)
}

// Submit enqueues one item, back-pressuring the caller when the queue is
// bounded and full.
func (p *HybridPool) Submit(ctx context.Context) error {
	select {
	case p.queue <- time.Now():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// CloseSubmission closes the submission side; workers keep draining until
// the queue empties.
func (p *HybridPool) CloseSubmission() {
	close(p.queue)
}

// Drain returns a channel that closes once all workers have exited, either
// because the queue drained naturally or because Cancel fired. It is safe
// to call more than once (the Orchestrator does, once before Cancel and
// once after): the wait goroutine is started exactly once, so only the
// first caller's goroutine ever closes p.drained.
func (p *HybridPool) Drain(ctx context.Context) <-chan struct{} {
	p.drainOnce.Do(func() {
		go func() {
			p.wg.Wait()
			close(p.drained)
		}()
	})
	return p.drained
}

// Cancel reconciles in-flight work with the collector and tells workers to
// stop picking up new items. Items already executing are abandoned: their
// eventual completion, if any, is discarded rather than reported.
func (p *HybridPool) Cancel() {
	if !p.cancelled.CompareAndSwap(false, true) {
		return
	}
	n := atomic.LoadInt64(&p.inFlight)
	if n > 0 {
		p.sink.AdjustInFlight(-n)
	}
	p.cancel()
}
