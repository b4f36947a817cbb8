// Package pool provides the shared worker pool the engine cores schedule
// batch work onto. Tasks carry a priority class; workers always drain
// higher classes first.
package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Priority classes, drained highest first.
type Priority int

const (
	Critical Priority = iota
	High
	Normal
	Low
	Idle
	priorityCount
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	case Idle:
		return "idle"
	}
	return "unknown"
}

// Task is a handle to submitted work. Wait blocks until the task function
// returns or the timeout elapses.
type Task struct {
	done chan struct{}
}

// Wait returns true if the task completed before the timeout.
// A zero or negative timeout waits forever.
func (t *Task) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-t.done
		return true
	}
	select {
	case <-t.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Done reports completion without blocking.
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

type queuedTask struct {
	fn         func()
	task       *Task
	descriptor string
}

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queues   [priorityCount][]queuedTask
	pending  int
	shutdown bool

	workers int
	busy    atomic.Int32
	wg      sync.WaitGroup
	log     *zap.Logger
}

// New creates a pool with the given worker count. workers <= 0 uses
// GOMAXPROCS-1 (minimum 2) so the main loop keeps a core.
func New(workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0) - 1
		if workers < 2 {
			workers = 2
		}
	}
	p := &Pool{workers: workers, log: log}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues fn at the given priority. The returned task is already
// completed if the pool has shut down; the function is not run.
func (p *Pool) Submit(fn func(), prio Priority, descriptor string) *Task {
	t := &Task{done: make(chan struct{})}
	if prio < Critical || prio >= priorityCount {
		prio = Normal
	}

	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		close(t.done)
		p.log.Warn("task submitted after pool shutdown", zap.String("descriptor", descriptor))
		return t
	}
	p.queues[prio] = append(p.queues[prio], queuedTask{fn: fn, task: t, descriptor: descriptor})
	p.pending++
	p.mu.Unlock()

	p.cond.Signal()
	return t
}

// ReserveQueueCapacity pre-grows the Normal queue to avoid per-frame
// growth during bursts.
func (p *Pool) ReserveQueueCapacity(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.queues {
		if cap(p.queues[i]) < n {
			q := make([]queuedTask, len(p.queues[i]), n)
			copy(q, p.queues[i])
			p.queues[i] = q
		}
	}
}

func (p *Pool) ThreadCount() int { return p.workers }

// IsBusy reports whether any worker is currently executing a task or work
// is queued.
func (p *Pool) IsBusy() bool {
	if p.busy.Load() > 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending > 0
}

func (p *Pool) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

// Shutdown stops accepting tasks, runs out the queues, and joins the
// workers.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.pending == 0 && !p.shutdown {
			p.cond.Wait()
		}
		qt, ok := p.pop()
		if !ok {
			// shutdown with empty queues
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		p.busy.Add(1)
		p.run(qt)
		p.busy.Add(-1)
	}
}

// pop removes the highest-priority queued task. Caller holds p.mu.
func (p *Pool) pop() (queuedTask, bool) {
	for prio := range p.queues {
		if len(p.queues[prio]) == 0 {
			continue
		}
		qt := p.queues[prio][0]
		p.queues[prio] = p.queues[prio][1:]
		p.pending--
		return qt, true
	}
	return queuedTask{}, false
}

func (p *Pool) run(qt queuedTask) {
	defer close(qt.task.done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panicked",
				zap.String("descriptor", qt.descriptor),
				zap.Any("panic", r))
		}
	}()
	qt.fn()
}
