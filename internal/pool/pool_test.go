package pool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSink records every event it receives, using atomics for the counters
// and a mutex for workerThreads, since both pools may call it from many
// goroutines concurrently.
type fakeSink struct {
	mu sync.Mutex

	started       int64
	success       int64
	failure       int64
	workerThreads int
	inFlightAdj   int64
}

func (f *fakeSink) RequestStarted() {
	atomic.AddInt64(&f.started, 1)
}

func (f *fakeSink) StepResult(success bool, _, _ time.Duration, _ bool) {
	if success {
		atomic.AddInt64(&f.success, 1)
	} else {
		atomic.AddInt64(&f.failure, 1)
	}
}

func (f *fakeSink) WorkerThreadCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workerThreads = n
}

func (f *fakeSink) AdjustInFlight(delta int64) {
	atomic.AddInt64(&f.inFlightAdj, delta)
}

func TestWorkerCount_Formula(t *testing.T) {
	// Regardless of GOMAXPROCS/NumCPU on the test machine, scaled must never
	// exceed the 1000-or-cpu*50 ceiling, and must be at least cpu*2.
	w := WorkerCount(10000)
	if w <= 0 {
		t.Fatalf("WorkerCount returned non-positive: %d", w)
	}
	if w > 1000 {
		t.Errorf("WorkerCount = %d, want <= 1000", w)
	}
	ceiling := runtime.NumCPU() * 50
	if ceiling > 1000 {
		ceiling = 1000
	}
	if w > ceiling {
		t.Errorf("WorkerCount = %d, want <= %d (min(1000, cpu*50))", w, ceiling)
	}
	if floor := runtime.NumCPU() * 2; floor <= ceiling && w < floor {
		t.Errorf("WorkerCount = %d, want >= %d (cpu*2)", w, floor)
	}
}

func TestHybridPool_AllItemsComplete(t *testing.T) {
	sink := &fakeSink{}
	op := func(ctx context.Context) bool { return true }
	p := NewHybrid(op, sink, 4, 0)

	const n = 100
	for i := 0; i < n; i++ {
		if err := p.Submit(context.Background()); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.CloseSubmission()

	select {
	case <-p.Drain(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain in time")
	}

	if sink.started != n {
		t.Errorf("started = %d, want %d", sink.started, n)
	}
	if sink.success != n {
		t.Errorf("success = %d, want %d", sink.success, n)
	}
	if sink.workerThreads != 4 {
		t.Errorf("workerThreads = %d, want 4", sink.workerThreads)
	}
}

func TestHybridPool_PanicIsRecordedAsFailure(t *testing.T) {
	sink := &fakeSink{}
	op := func(ctx context.Context) bool { panic("boom") }
	p := NewHybrid(op, sink, 2, 0)

	_ = p.Submit(context.Background())
	p.CloseSubmission()

	select {
	case <-p.Drain(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain in time")
	}

	if sink.failure != 1 {
		t.Errorf("failure = %d, want 1", sink.failure)
	}
}

func TestHybridPool_CancelAbandonsInFlight(t *testing.T) {
	sink := &fakeSink{}
	started := make(chan struct{})
	release := make(chan struct{})
	op := func(ctx context.Context) bool {
		close(started)
		<-release
		return true
	}
	p := NewHybrid(op, sink, 1, 0)
	_ = p.Submit(context.Background())

	<-started
	p.Cancel()
	close(release)

	select {
	case <-p.Drain(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain in time")
	}

	if sink.success != 0 || sink.failure != 0 {
		t.Errorf("abandoned operation should not be counted, got success=%d failure=%d", sink.success, sink.failure)
	}
	if sink.inFlightAdj != -1 {
		t.Errorf("inFlightAdj = %d, want -1", sink.inFlightAdj)
	}
}

func TestHybridPool_DrainCalledTwiceDoesNotPanic(t *testing.T) {
	sink := &fakeSink{}
	started := make(chan struct{})
	release := make(chan struct{})
	op := func(ctx context.Context) bool {
		close(started)
		<-release
		return true
	}
	p := NewHybrid(op, sink, 1, 0)
	_ = p.Submit(context.Background())
	<-started

	// Mirrors the orchestrator: one Drain call to build the graceful-budget
	// select, then Cancel, then a second Drain call to wait out the abandon.
	first := p.Drain(context.Background())
	p.Cancel()
	second := p.Drain(context.Background())
	close(release)

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("pool did not drain in time")
		}
	}
}

func TestTaskSpawnedPool_DrainCalledTwiceDoesNotPanic(t *testing.T) {
	sink := &fakeSink{}
	started := make(chan struct{})
	release := make(chan struct{})
	op := func(ctx context.Context) bool {
		close(started)
		<-release
		return true
	}
	p := NewTaskSpawned(op, sink)
	_ = p.Submit(context.Background())
	<-started

	first := p.Drain(context.Background())
	p.Cancel()
	second := p.Drain(context.Background())
	close(release)

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("pool did not drain in time")
		}
	}
}

func TestTaskSpawnedPool_ReportsZeroWorkerThreads(t *testing.T) {
	sink := &fakeSink{}
	op := func(ctx context.Context) bool { return true }
	p := NewTaskSpawned(op, sink)

	for i := 0; i < 10; i++ {
		_ = p.Submit(context.Background())
	}
	p.CloseSubmission()

	select {
	case <-p.Drain(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain in time")
	}

	if sink.workerThreads != 0 {
		t.Errorf("workerThreads = %d, want 0", sink.workerThreads)
	}
	if sink.success != 10 {
		t.Errorf("success = %d, want 10", sink.success)
	}
}
