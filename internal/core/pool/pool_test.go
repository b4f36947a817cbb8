package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New(2, zap.NewNop())
	defer p.Shutdown()

	var ran atomic.Bool
	task := p.Submit(func() { ran.Store(true) }, Normal, "test")
	require.True(t, task.Wait(time.Second))
	assert.True(t, ran.Load())
	assert.True(t, task.Done())
}

func TestManyTasksAllComplete(t *testing.T) {
	p := New(4, zap.NewNop())
	defer p.Shutdown()

	var count atomic.Int32
	tasks := make([]*Task, 0, 200)
	for i := 0; i < 200; i++ {
		tasks = append(tasks, p.Submit(func() { count.Add(1) }, Normal, "bulk"))
	}
	for _, task := range tasks {
		require.True(t, task.Wait(5*time.Second))
	}
	assert.Equal(t, int32(200), count.Load())
}

func TestWaitTimesOutOnSlowTask(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Shutdown()

	release := make(chan struct{})
	task := p.Submit(func() { <-release }, Normal, "slow")
	assert.False(t, task.Wait(20*time.Millisecond))
	assert.False(t, task.Done())

	close(release)
	assert.True(t, task.Wait(time.Second))
}

func TestPriorityOrdering(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Shutdown()

	// hold the single worker so later submissions queue up
	gate := make(chan struct{})
	p.Submit(func() { <-gate }, Critical, "gate")

	var mu sync.Mutex
	var order []Priority
	record := func(prio Priority) func() {
		return func() {
			mu.Lock()
			order = append(order, prio)
			mu.Unlock()
		}
	}
	tLow := p.Submit(record(Low), Low, "low")
	tCrit := p.Submit(record(Critical), Critical, "crit")
	tNorm := p.Submit(record(Normal), Normal, "norm")
	close(gate)

	for _, task := range []*Task{tLow, tCrit, tNorm} {
		require.True(t, task.Wait(time.Second))
	}
	assert.Equal(t, []Priority{Critical, Normal, Low}, order)
}

func TestInvalidPriorityFallsBackToNormal(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Shutdown()

	task := p.Submit(func() {}, Priority(99), "odd")
	assert.True(t, task.Wait(time.Second))
}

func TestTaskPanicIsContained(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Shutdown()

	bad := p.Submit(func() { panic("task exploded") }, Normal, "bad")
	require.True(t, bad.Wait(time.Second))

	// the worker survives and keeps serving
	var ran atomic.Bool
	ok := p.Submit(func() { ran.Store(true) }, Normal, "after")
	require.True(t, ok.Wait(time.Second))
	assert.True(t, ran.Load())
}

func TestShutdownDrainsQueues(t *testing.T) {
	p := New(2, zap.NewNop())

	var count atomic.Int32
	for i := 0; i < 50; i++ {
		p.Submit(func() { count.Add(1) }, Low, "drain")
	}
	p.Shutdown()
	assert.Equal(t, int32(50), count.Load())
	assert.True(t, p.IsShutdown())
}

func TestSubmitAfterShutdownCompletesWithoutRunning(t *testing.T) {
	p := New(1, zap.NewNop())
	p.Shutdown()

	var ran atomic.Bool
	task := p.Submit(func() { ran.Store(true) }, Normal, "late")
	assert.True(t, task.Done())
	assert.False(t, ran.Load())
}

func TestShutdownIsIdempotent(t *testing.T) {
	p := New(1, zap.NewNop())
	p.Shutdown()
	assert.NotPanics(t, p.Shutdown)
}

func TestDefaultWorkerCount(t *testing.T) {
	p := New(0, zap.NewNop())
	defer p.Shutdown()
	assert.GreaterOrEqual(t, p.ThreadCount(), 2)
}

func TestIsBusy(t *testing.T) {
	p := New(1, zap.NewNop())
	defer p.Shutdown()

	release := make(chan struct{})
	task := p.Submit(func() { <-release }, Normal, "busy")
	assert.Eventually(t, p.IsBusy, time.Second, time.Millisecond)

	close(release)
	require.True(t, task.Wait(time.Second))
	assert.Eventually(t, func() bool { return !p.IsBusy() }, time.Second, time.Millisecond)
}
