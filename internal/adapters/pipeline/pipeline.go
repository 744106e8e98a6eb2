// Package pipeline fans per-game computations out across a bounded worker
// pool and streams results back in completion order.
package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/asad/clutchboard/pkg/metrics"
)

// Pool sizing bounds. The pool is kept to a small multiple of the available
// CPUs and clamped so a wide candidate list cannot hammer the upstream feed.
const (
	minWorkers         = 6
	maxWorkers         = 12
	workerMultiplier   = 2
	defaultTaskTimeout = 25 * time.Second
)

// Task is one unit of work keyed by its item identifier.
type Task[R any] struct {
	Key     string
	Compute func(ctx context.Context) (R, error)
}

// Outcome is a completed task. TimedOut outcomes must not be cached so a
// later query can retry the item.
type Outcome[R any] struct {
	Key      string
	Value    R
	Err      error
	TimedOut bool
}

// DefaultWorkerCount returns the clamped pool size for this host.
func DefaultWorkerCount() int {
	n := runtime.NumCPU() * workerMultiplier
	if n < minWorkers {
		return minWorkers
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

// Run executes tasks on a bounded pool and returns a channel of outcomes in
// completion order, not submission order: one slow upstream fetch never
// stalls collection of already-finished work. The channel is closed once
// every task has resolved or ctx is cancelled. Each task runs under its own
// per-task timeout.
func Run[R any](ctx context.Context, tasks []Task[R], opts ...Option) <-chan Outcome[R] {
	s := &settings{
		workers: DefaultWorkerCount(),
		timeout: defaultTaskTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	out := make(chan Outcome[R], len(tasks))
	feed := make(chan Task[R])

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range feed {
				emit(ctx, out, run(ctx, task, s.timeout))
			}
		}()
	}

	go func() {
		defer close(feed)
		for _, task := range tasks {
			select {
			case feed <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// run executes one task under its per-task timeout.
func run[R any](ctx context.Context, task Task[R], timeout time.Duration) Outcome[R] {
	start := time.Now()
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	value, err := task.Compute(taskCtx)
	metrics.RecordTaskLatency(time.Since(start).Seconds())

	o := Outcome[R]{Key: task.Key, Value: value, Err: err}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			o.TimedOut = true
			metrics.RecordTaskTimeout()
		} else {
			metrics.RecordTaskFailure()
		}
	}
	return o
}

func emit[R any](ctx context.Context, out chan<- Outcome[R], o Outcome[R]) {
	select {
	case out <- o:
	case <-ctx.Done():
	}
}
