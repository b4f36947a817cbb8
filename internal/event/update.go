package event

import (
	"time"

	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/core/pool"
)

// Update is the per-frame entrypoint, called from the main loop only.
// Sequence: tick event timers, drain deferred messages, drain deferred
// handler calls, rebuild caches if invalid, run per-type batch updates
// (threaded when worthwhile), then drain handler calls produced by the
// batches so deferred dispatch completes within the frame.
func (m *Manager) Update() {
	if !m.initialized.Load() {
		return
	}
	now := m.now()
	dt := float32(now.Sub(m.lastUpdate).Seconds())
	if dt < 0 {
		dt = 0
	}
	m.lastUpdate = now
	m.frame.Add(1)

	m.updateEventTimers(dt)
	m.processMessageQueue()
	m.processHandlerQueue()

	m.ensureActiveCache()
	m.ensureTypeBatches()

	if m.shouldThread() {
		m.updateBatchesThreaded()
	} else {
		m.updateSequential()
	}

	// batch processing defers dispatch for handler-bearing types; deliver
	// those before the frame returns
	m.processHandlerQueue()
}

// updateEventTimers ticks cooldowns on every registered event and
// variant-specific timers where the variant carries them.
func (m *Manager) updateEventTimers(dt float32) {
	m.eventsMu.RLock()
	snapshot := make([]Event, 0, len(m.events))
	for _, ev := range m.events {
		snapshot = append(snapshot, ev)
	}
	m.eventsMu.RUnlock()

	for _, ev := range snapshot {
		ev.UpdateCooldown(dt)
		switch e := ev.(type) {
		case *SceneChangeEvent:
			e.TickTimer(dt)
		case *NPCSpawnEvent:
			e.TickTimers(dt)
		}
	}
}

// processMessageQueue swaps the double-buffered message queue and
// delivers the drained buffer in FIFO order.
func (m *Manager) processMessageQueue() {
	m.msgMu.Lock()
	m.msgIn, m.msgProcessing = m.msgProcessing[:0], m.msgIn
	m.msgMu.Unlock()

	// m.msgProcessing is private to the main goroutine between swaps
	for _, msg := range m.msgProcessing {
		switch {
		case msg.broadcast:
			m.BroadcastMessage(msg.body, true)
		case msg.byType:
			m.BroadcastMessageToType(msg.targetType, msg.body, true)
		default:
			m.SendMessageToEvent(msg.targetName, msg.body, true)
		}
	}
}

// processHandlerQueue swaps the deferred handler-call queue and fans the
// drained records out. Handler lists are copied under the lock; the
// handlers run without it. Calls enqueued after the swap wait for the
// next drain.
func (m *Manager) processHandlerQueue() {
	m.callMu.Lock()
	m.callIn, m.callProcessing = m.callProcessing[:0], m.callIn
	m.callMu.Unlock()

	if len(m.callProcessing) == 0 {
		return
	}
	start := m.now()
	defer func() {
		m.recordHandlerBatch(float64(m.now().Sub(start).Microseconds()) / 1000)
	}()

	for _, call := range m.callProcessing {
		d := Data{TypeID: call.typeID, Name: call.name, Payload: call.payload}
		if call.event != nil {
			d.Event = call.event
			d.Active = call.event.Active()
		}
		if call.byName {
			for _, fn := range m.copyNameHandlers(call.name) {
				m.safeInvoke(fn, d)
			}
			continue
		}
		m.invokeHandlers(d)
	}
}

func (m *Manager) copyNameHandlers(name string) []Handler {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	out := make([]Handler, 0, len(m.nameHandlers[name]))
	for _, h := range m.nameHandlers[name] {
		out = append(out, h.fn)
	}
	return out
}

// ── Cache maintenance ──────────────────────────────────────────────

// ensureActiveCache rebuilds the flat active-event list when invalid,
// double-checked under the cache mutex.
func (m *Manager) ensureActiveCache() {
	if m.cacheValid.Load() {
		return
	}
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if m.cacheValid.Load() {
		return
	}

	m.activeCache = m.activeCache[:0]
	m.eventsMu.RLock()
	for t := TypeID(0); t < typeCount; t++ {
		for _, name := range m.typeIndex[t] {
			ev, ok := m.events[name]
			if !ok || !ev.Active() {
				continue
			}
			m.activeCache = append(m.activeCache, cacheEntry{event: ev, name: name, typeID: t})
		}
	}
	m.eventsMu.RUnlock()
	m.cacheValid.Store(true)
}

// ensureTypeBatches rebuilds the per-type active lists when invalid.
func (m *Manager) ensureTypeBatches() {
	if m.batchesValid.Load() {
		return
	}
	m.batchesMu.Lock()
	defer m.batchesMu.Unlock()
	if m.batchesValid.Load() {
		return
	}

	for i := range m.typeBatches {
		m.typeBatches[i] = m.typeBatches[i][:0]
	}
	m.eventsMu.RLock()
	for t := TypeID(0); t < typeCount; t++ {
		for _, name := range m.typeIndex[t] {
			if ev, ok := m.events[name]; ok && ev.Active() {
				m.typeBatches[t] = append(m.typeBatches[t], ev)
			}
		}
	}
	m.eventsMu.RUnlock()
	m.batchesValid.Store(true)
}

// ── Batch processing ───────────────────────────────────────────────

func (m *Manager) shouldThread() bool {
	if !m.threadingEnabled.Load() || m.pool == nil || m.pool.IsShutdown() {
		return false
	}
	nonEmpty := 0
	total := 0
	m.batchesMu.Lock()
	for i := range m.typeBatches {
		n := len(m.typeBatches[i])
		if n > 0 {
			nonEmpty++
			total += n
		}
	}
	m.batchesMu.Unlock()
	return nonEmpty >= 2 && total >= m.threadingThreshold
}

// taskPriority maps an event type to its pool priority class.
func taskPriority(t TypeID) pool.Priority {
	switch t {
	case TypeCollision:
		return pool.Critical
	case TypeCombat, TypeWeather, TypeParticleEffect:
		return pool.High
	case TypeResourceChange:
		return pool.Low
	default:
		return pool.Normal
	}
}

// updateBatchesThreaded submits one task per non-empty type batch and
// waits for each with a soft timeout. A late task is logged and left to
// finish on its own; it never mutates table shape, so cached state stays
// valid.
func (m *Manager) updateBatchesThreaded() {
	type submitted struct {
		typeID TypeID
		task   *pool.Task
		size   int
		start  time.Time
	}

	m.batchesMu.Lock()
	batches := make([][]Event, typeCount)
	for i := range m.typeBatches {
		if len(m.typeBatches[i]) > 0 {
			batches[i] = m.typeBatches[i]
		}
	}
	m.batchesMu.Unlock()

	tasks := make([]submitted, 0, typeCount)
	for i := range batches {
		if batches[i] == nil {
			continue
		}
		t := TypeID(i)
		batch := batches[i]
		start := m.now()
		task := m.pool.Submit(func() {
			m.processBatch(t, batch)
		}, taskPriority(t), "event:"+t.String())
		tasks = append(tasks, submitted{typeID: t, task: task, size: len(batch), start: start})
	}

	for _, s := range tasks {
		timeout := m.taskTimeout
		if s.size > largeBatchSize {
			timeout = m.taskTimeoutMax
		}
		if !s.task.Wait(timeout) {
			m.log.Warn("event batch task exceeded budget",
				zap.String("type", s.typeID.String()),
				zap.Int("events", s.size),
				zap.Duration("budget", timeout))
			continue
		}
		m.recordPerformance(s.typeID, float64(m.now().Sub(s.start).Microseconds())/1000)
	}
}

// updateSequential walks the active cache on the calling goroutine.
func (m *Manager) updateSequential() {
	m.cacheMu.Lock()
	entries := make([]cacheEntry, len(m.activeCache))
	copy(entries, m.activeCache)
	m.cacheMu.Unlock()

	var current TypeID
	var start time.Time
	for i, e := range entries {
		if i == 0 || e.typeID != current {
			if i != 0 {
				m.recordPerformance(current, float64(m.now().Sub(start).Microseconds())/1000)
			}
			current = e.typeID
			start = m.now()
		}
		m.processOne(e.typeID, e.event)
	}
	if len(entries) > 0 {
		m.recordPerformance(current, float64(m.now().Sub(start).Microseconds())/1000)
	}
}

// processBatch runs on a worker goroutine; events are updated in
// insertion order within the type.
func (m *Manager) processBatch(t TypeID, batch []Event) {
	for _, ev := range batch {
		m.processOne(t, ev)
	}
}

// processOne applies the update/execute rule for a single event. Types
// with a registered handler are handler driven: conditions passing
// enqueues a deferred dispatch instead of auto-executing.
func (m *Manager) processOne(t TypeID, ev Event) {
	if !ev.ShouldUpdate() {
		return
	}
	ev.Update()
	if !ev.CheckConditions() {
		return
	}
	if m.hasTypedHandler(t) {
		m.callMu.Lock()
		m.callIn = append(m.callIn, handlerCall{typeID: t, name: ev.Name(), event: ev})
		m.callMu.Unlock()
		return
	}
	ev.Execute()
	if ev.Cooldown() > 0 {
		ev.StartCooldown()
	}
}
