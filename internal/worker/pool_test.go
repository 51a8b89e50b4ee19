package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error {
	return r.err
}

// stubJob counts executions and tracks peak concurrency
type stubJob struct {
	fail    bool
	hold    time.Duration
	running *int32
	peak    *int32
	ran     *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.ran != nil {
		atomic.AddInt32(j.ran, 1)
	}
	if j.running != nil {
		n := atomic.AddInt32(j.running, 1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(j.running, -1)
	}

	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("upstream 502")}
	}
	return &stubResult{}
}

func TestNewPoolWithContext_Workers(t *testing.T) {
	if p := NewPoolWithContext(context.Background(), 4); p.workers != 4 {
		t.Errorf("Expected 4 workers, got %d", p.workers)
	}
	if p := NewPoolWithContext(context.Background(), 0); p.workers != 1 {
		t.Errorf("Expected at least 1 worker, got %d", p.workers)
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPoolWithContext(context.Background(), 2)
	pool.Start()

	var ran int32
	for i := 0; i < 10; i++ {
		pool.Submit(&stubJob{ran: &ran})
	}

	if results := pool.Wait(); len(results) != 10 {
		t.Errorf("Expected 10 results, got %d", len(results))
	}
	if got := atomic.LoadInt32(&ran); got != 10 {
		t.Errorf("Expected 10 executions, got %d", got)
	}
}

func TestPool_ConcurrencyBounded(t *testing.T) {
	const workers = 3
	pool := NewPoolWithContext(context.Background(), workers)
	pool.Start()

	var running, peak int32
	for i := 0; i < 12; i++ {
		pool.Submit(&stubJob{hold: 10 * time.Millisecond, running: &running, peak: &peak})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("Peak concurrency %d exceeded %d workers", got, workers)
	}
}

func TestPool_ErrorsAreResults(t *testing.T) {
	pool := NewPoolWithContext(context.Background(), 2)
	pool.Start()

	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed result, got %d", failed)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPoolWithContext(ctx, 1)
	pool.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			pool.Submit(&stubJob{hold: time.Second})
		}
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pool did not stop after cancellation")
	}
}

func TestResultCollector(t *testing.T) {
	c := NewResultCollector()
	c.Add(&stubResult{})
	c.Add(&stubResult{err: errors.New("timeout")})

	if got := len(c.Results()); got != 2 {
		t.Errorf("Expected 2 results, got %d", got)
	}
}
