package event

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/core/pool"
)

// Data is the value passed to handlers. Event is nil for payload-only
// deferred calls.
type Data struct {
	Event   Event
	TypeID  TypeID
	Name    string
	Active  bool
	Payload string
}

// Handler receives dispatched events. Handlers must not mutate manager
// tables; re-entrancy goes through the deferred operations.
type Handler func(Data)

// HandlerToken identifies a registration for removal.
type HandlerToken struct {
	typeID  TypeID
	id      uint64
	forName bool
	name    string
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// message is one deferred routing record; exactly one target mode is set.
type message struct {
	targetName string
	targetType TypeID
	byType     bool
	broadcast  bool
	body       string
}

// handlerCall is one deferred handler fan-out record.
type handlerCall struct {
	byName  bool
	name    string
	typeID  TypeID
	event   Event // nil for payload-only calls
	payload string
}

type cacheEntry struct {
	event        Event
	name         string
	typeID       TypeID
	lastUpdateNs uint64
}

// PerfStats accumulates per-type batch timings.
type PerfStats struct {
	TotalMs   float64
	CallCount uint64
	AvgMs     float64
	MinMs     float64
	MaxMs     float64
}

func (s *PerfStats) addSample(ms float64) {
	s.TotalMs += ms
	s.CallCount++
	s.AvgMs = s.TotalMs / float64(s.CallCount)
	if s.CallCount == 1 || ms < s.MinMs {
		s.MinMs = ms
	}
	if ms > s.MaxMs {
		s.MaxMs = ms
	}
}

const (
	defaultTaskTimeout    = 500 * time.Millisecond
	extendedTaskTimeout   = 2 * time.Second
	largeBatchSize        = 1000 // batches past this get the extended timeout
	defaultQueueCapacity  = 256
	defaultThreadingFloor = 50
)

// Manager is the engine's event core. It owns all registered events by
// name, routes messages, dispatches typed handlers, and schedules
// per-type batch updates onto the worker pool.
type Manager struct {
	log  *zap.Logger
	pool *pool.Pool

	initialized atomic.Bool

	eventsMu  sync.RWMutex
	events    map[string]Event
	typeIndex [typeCount][]string // names in insertion order

	handlersMu    sync.Mutex
	typeHandlers  [typeCount][]handlerEntry
	nameHandlers  map[string][]handlerEntry
	nextHandlerID atomic.Uint64

	cacheMu     sync.Mutex
	cacheValid  atomic.Bool
	activeCache []cacheEntry

	batchesMu    sync.Mutex
	batchesValid atomic.Bool
	typeBatches  [typeCount][]Event

	msgMu         sync.Mutex
	msgIn         []message
	msgProcessing []message

	callMu         sync.Mutex
	callIn         []handlerCall
	callProcessing []handlerCall

	threadingEnabled   atomic.Bool
	threadingThreshold int
	taskTimeout        time.Duration
	taskTimeoutMax     time.Duration

	perfMu      sync.Mutex
	perf        [typeCount]PerfStats
	handlerPerf PerfStats // handler-queue drain batches

	lastUpdate time.Time
	now        func() time.Time

	frame atomic.Uint64
}

// NewManager creates an event manager scheduling batch work on p. A nil
// pool forces sequential processing.
func NewManager(p *pool.Pool, log *zap.Logger) *Manager {
	m := &Manager{
		log:                log,
		pool:               p,
		threadingThreshold: defaultThreadingFloor,
		taskTimeout:        defaultTaskTimeout,
		taskTimeoutMax:     extendedTaskTimeout,
		now:                time.Now,
	}
	m.threadingEnabled.Store(p != nil)
	return m
}

// Init reserves queues and clears tables. Idempotent.
func (m *Manager) Init() bool {
	if m.initialized.Load() {
		return true
	}
	m.eventsMu.Lock()
	m.events = make(map[string]Event)
	for i := range m.typeIndex {
		m.typeIndex[i] = nil
	}
	m.eventsMu.Unlock()

	m.handlersMu.Lock()
	m.nameHandlers = make(map[string][]handlerEntry)
	m.handlersMu.Unlock()

	m.msgMu.Lock()
	m.msgIn = make([]message, 0, defaultQueueCapacity)
	m.msgProcessing = make([]message, 0, defaultQueueCapacity)
	m.msgMu.Unlock()

	m.callMu.Lock()
	m.callIn = make([]handlerCall, 0, defaultQueueCapacity)
	m.callProcessing = make([]handlerCall, 0, defaultQueueCapacity)
	m.callMu.Unlock()

	if m.pool != nil {
		m.pool.ReserveQueueCapacity(int(typeCount))
	}

	m.lastUpdate = m.now()
	m.invalidateCaches()
	m.initialized.Store(true)
	m.log.Info("event manager initialized")
	return true
}

func (m *Manager) IsInitialized() bool { return m.initialized.Load() }

// Clean drains the deferred queues, then clears every table. Idempotent.
func (m *Manager) Clean() {
	if !m.initialized.Load() {
		return
	}
	// deliver what is still queued so producers are not silently dropped
	m.processMessageQueue()
	m.processHandlerQueue()

	m.eventsMu.Lock()
	for _, ev := range m.events {
		ev.Clean()
	}
	m.events = make(map[string]Event)
	for i := range m.typeIndex {
		m.typeIndex[i] = nil
	}
	m.eventsMu.Unlock()

	m.ClearAllHandlers()
	m.invalidateCaches()
	m.ResetPerformanceStats()
	m.initialized.Store(false)
	m.log.Info("event manager cleaned")
}

// PrepareForStateTransition removes events and handlers but keeps the
// manager initialized for the next state.
func (m *Manager) PrepareForStateTransition() {
	m.processMessageQueue()
	m.processHandlerQueue()

	m.eventsMu.Lock()
	for _, ev := range m.events {
		ev.Clean()
	}
	m.events = make(map[string]Event)
	for i := range m.typeIndex {
		m.typeIndex[i] = nil
	}
	m.eventsMu.Unlock()

	m.ClearAllHandlers()
	m.invalidateCaches()
}

// ── Event registry ─────────────────────────────────────────────────

// RegisterEvent stores ev under name, replacing any prior event with the
// same name.
func (m *Manager) RegisterEvent(name string, ev Event) bool {
	if name == "" || ev == nil {
		return false
	}
	m.eventsMu.Lock()
	if old, ok := m.events[name]; ok {
		m.log.Info("replacing registered event", zap.String("name", name))
		old.Clean()
		m.removeFromIndexLocked(name, old.TypeID())
	}
	m.events[name] = ev
	t := ev.TypeID()
	m.typeIndex[t] = append(m.typeIndex[t], name)
	m.eventsMu.Unlock()

	m.invalidateCaches()
	return true
}

// RemoveEvent cleans and unregisters the named event.
func (m *Manager) RemoveEvent(name string) bool {
	m.eventsMu.Lock()
	ev, ok := m.events[name]
	if !ok {
		m.eventsMu.Unlock()
		return false
	}
	ev.Clean()
	delete(m.events, name)
	m.removeFromIndexLocked(name, ev.TypeID())
	m.eventsMu.Unlock()

	m.invalidateCaches()
	return true
}

// removeFromIndexLocked drops name from the per-type order. Caller holds
// eventsMu.
func (m *Manager) removeFromIndexLocked(name string, t TypeID) {
	idx := m.typeIndex[t]
	for i, n := range idx {
		if n == name {
			m.typeIndex[t] = append(idx[:i], idx[i+1:]...)
			return
		}
	}
}

// GetEvent returns the named event, or nil. The manager keeps ownership.
func (m *Manager) GetEvent(name string) Event {
	m.eventsMu.RLock()
	defer m.eventsMu.RUnlock()
	return m.events[name]
}

func (m *Manager) HasEvent(name string) bool {
	m.eventsMu.RLock()
	defer m.eventsMu.RUnlock()
	_, ok := m.events[name]
	return ok
}

// GetEventsByType returns events of the type in registration order.
func (m *Manager) GetEventsByType(t TypeID) []Event {
	if t >= typeCount {
		return nil
	}
	m.eventsMu.RLock()
	defer m.eventsMu.RUnlock()
	out := make([]Event, 0, len(m.typeIndex[t]))
	for _, name := range m.typeIndex[t] {
		if ev, ok := m.events[name]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// EventCount reports registered events, all types.
func (m *Manager) EventCount() int {
	m.eventsMu.RLock()
	defer m.eventsMu.RUnlock()
	return len(m.events)
}

// EventCountByType reports registered events of one type.
func (m *Manager) EventCountByType(t TypeID) int {
	if t >= typeCount {
		return 0
	}
	m.eventsMu.RLock()
	defer m.eventsMu.RUnlock()
	return len(m.typeIndex[t])
}

func (m *Manager) SetEventActive(name string, active bool) bool {
	m.eventsMu.RLock()
	ev, ok := m.events[name]
	m.eventsMu.RUnlock()
	if !ok {
		return false
	}
	if ev.Active() != active {
		ev.SetActive(active)
		m.invalidateCaches()
	}
	return true
}

func (m *Manager) IsEventActive(name string) bool {
	m.eventsMu.RLock()
	ev, ok := m.events[name]
	m.eventsMu.RUnlock()
	return ok && ev.Active()
}

// ── Handlers ───────────────────────────────────────────────────────

// RegisterHandler binds fn to a type id. Registration order is
// invocation order.
func (m *Manager) RegisterHandler(t TypeID, fn Handler) {
	m.RegisterHandlerWithToken(t, fn)
}

// RegisterHandlerWithToken binds fn to a type id and returns a removal
// token.
func (m *Manager) RegisterHandlerWithToken(t TypeID, fn Handler) HandlerToken {
	id := m.nextHandlerID.Add(1)
	m.handlersMu.Lock()
	m.typeHandlers[t] = append(m.typeHandlers[t], handlerEntry{id: id, fn: fn})
	m.handlersMu.Unlock()
	return HandlerToken{typeID: t, id: id}
}

// RegisterHandlerForName binds fn to a single event name. Name handlers
// fire in addition to type handlers.
func (m *Manager) RegisterHandlerForName(name string, fn Handler) HandlerToken {
	id := m.nextHandlerID.Add(1)
	m.handlersMu.Lock()
	if m.nameHandlers == nil {
		m.nameHandlers = make(map[string][]handlerEntry)
	}
	m.nameHandlers[name] = append(m.nameHandlers[name], handlerEntry{id: id, fn: fn})
	m.handlersMu.Unlock()
	return HandlerToken{forName: true, name: name, id: id}
}

// RemoveHandler removes the registration the token identifies.
func (m *Manager) RemoveHandler(tok HandlerToken) bool {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	if tok.forName {
		list := m.nameHandlers[tok.name]
		for i, h := range list {
			if h.id == tok.id {
				m.nameHandlers[tok.name] = append(list[:i], list[i+1:]...)
				return true
			}
		}
		return false
	}
	list := m.typeHandlers[tok.typeID]
	for i, h := range list {
		if h.id == tok.id {
			m.typeHandlers[tok.typeID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveHandlers clears every handler bound to the type.
func (m *Manager) RemoveHandlers(t TypeID) {
	m.handlersMu.Lock()
	m.typeHandlers[t] = nil
	m.handlersMu.Unlock()
}

// RemoveNameHandlers clears every handler bound to the name.
func (m *Manager) RemoveNameHandlers(name string) {
	m.handlersMu.Lock()
	delete(m.nameHandlers, name)
	m.handlersMu.Unlock()
}

func (m *Manager) ClearAllHandlers() {
	m.handlersMu.Lock()
	for i := range m.typeHandlers {
		m.typeHandlers[i] = nil
	}
	m.nameHandlers = make(map[string][]handlerEntry)
	m.handlersMu.Unlock()
}

func (m *Manager) HandlerCount(t TypeID) int {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	return len(m.typeHandlers[t])
}

func (m *Manager) hasTypedHandler(t TypeID) bool {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	return len(m.typeHandlers[t]) > 0
}

// copyHandlers snapshots the matching handler functions so user code
// never runs under the handler lock.
func (m *Manager) copyHandlers(t TypeID, name string) []Handler {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	out := make([]Handler, 0, len(m.typeHandlers[t])+len(m.nameHandlers[name]))
	for _, h := range m.typeHandlers[t] {
		out = append(out, h.fn)
	}
	if name != "" {
		for _, h := range m.nameHandlers[name] {
			out = append(out, h.fn)
		}
	}
	return out
}

// ── Dispatch ───────────────────────────────────────────────────────

// DispatchEvent fans ev out to its type and name handlers. Immediate
// runs handlers synchronously on the calling goroutine; Deferred queues
// the call for Manager.Update.
func (m *Manager) DispatchEvent(ev Event, mode DispatchMode) {
	if ev == nil {
		return
	}
	if mode == Immediate {
		m.invokeHandlers(Data{Event: ev, TypeID: ev.TypeID(), Name: ev.Name(), Active: ev.Active()})
		return
	}
	m.callMu.Lock()
	m.callIn = append(m.callIn, handlerCall{typeID: ev.TypeID(), name: ev.Name(), event: ev})
	m.callMu.Unlock()
}

func (m *Manager) invokeHandlers(d Data) {
	for _, fn := range m.copyHandlers(d.TypeID, d.Name) {
		m.safeInvoke(fn, d)
	}
}

// safeInvoke shields the dispatch loop from handler panics.
func (m *Manager) safeInvoke(fn Handler, d Data) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("event handler panicked",
				zap.String("type", d.TypeID.String()),
				zap.String("event", d.Name),
				zap.Any("panic", r))
		}
	}()
	fn(d)
}

// ── Execution ──────────────────────────────────────────────────────

// ExecuteEvent triggers the named event regardless of its conditions.
// When typed handlers exist for the event's type, they are notified
// instead of auto-executing, so handler-bearing types stay handler
// driven.
func (m *Manager) ExecuteEvent(name string) bool {
	ev := m.GetEvent(name)
	if ev == nil {
		return false
	}
	if m.hasTypedHandler(ev.TypeID()) {
		m.DispatchEvent(ev, Immediate)
		return true
	}
	ev.Execute()
	return true
}

// ExecuteEventsByType executes every event of the type, bypassing
// cooldowns, and returns the processed count.
func (m *Manager) ExecuteEventsByType(t TypeID) int {
	events := m.GetEventsByType(t)
	if len(events) == 0 {
		return 0
	}
	handled := m.hasTypedHandler(t)
	for _, ev := range events {
		if handled {
			m.DispatchEvent(ev, Immediate)
		} else {
			ev.Execute()
		}
	}
	return len(events)
}

// ── Messaging ──────────────────────────────────────────────────────

// SendMessageToEvent routes body to one event. Immediate delivers now;
// deferred delivery happens inside Update in FIFO order.
func (m *Manager) SendMessageToEvent(name, body string, immediate bool) {
	if immediate {
		if ev := m.GetEvent(name); ev != nil {
			ev.OnMessage(body)
		}
		return
	}
	m.msgMu.Lock()
	m.msgIn = append(m.msgIn, message{targetName: name, body: body})
	m.msgMu.Unlock()
}

// BroadcastMessageToType routes body to every event of a type.
func (m *Manager) BroadcastMessageToType(t TypeID, body string, immediate bool) {
	if immediate {
		for _, ev := range m.GetEventsByType(t) {
			ev.OnMessage(body)
		}
		return
	}
	m.msgMu.Lock()
	m.msgIn = append(m.msgIn, message{targetType: t, byType: true, body: body})
	m.msgMu.Unlock()
}

// BroadcastMessage routes body to every registered event.
func (m *Manager) BroadcastMessage(body string, immediate bool) {
	if immediate {
		m.eventsMu.RLock()
		evs := make([]Event, 0, len(m.events))
		for _, ev := range m.events {
			evs = append(evs, ev)
		}
		m.eventsMu.RUnlock()
		for _, ev := range evs {
			ev.OnMessage(body)
		}
		return
	}
	m.msgMu.Lock()
	m.msgIn = append(m.msgIn, message{broadcast: true, body: body})
	m.msgMu.Unlock()
}

// ── Threading control ──────────────────────────────────────────────

// ConfigureThreading toggles worker-pool batch updates. threshold is the
// minimum total active events before fan-out pays off.
func (m *Manager) ConfigureThreading(enable bool, threshold int) {
	m.threadingEnabled.Store(enable && m.pool != nil)
	if threshold > 0 {
		m.threadingThreshold = threshold
	}
}

// SetTaskTimeouts overrides the soft watchdog budgets for batch tasks.
func (m *Manager) SetTaskTimeouts(soft, max time.Duration) {
	if soft > 0 {
		m.taskTimeout = soft
	}
	if max > 0 {
		m.taskTimeoutMax = max
	}
}

func (m *Manager) IsThreadingEnabled() bool { return m.threadingEnabled.Load() }

// ── Perf ───────────────────────────────────────────────────────────

func (m *Manager) GetPerformanceStats(t TypeID) PerfStats {
	m.perfMu.Lock()
	defer m.perfMu.Unlock()
	return m.perf[t]
}

// GetHandlerBatchStats reports timings for handler-queue drain batches.
func (m *Manager) GetHandlerBatchStats() PerfStats {
	m.perfMu.Lock()
	defer m.perfMu.Unlock()
	return m.handlerPerf
}

func (m *Manager) ResetPerformanceStats() {
	m.perfMu.Lock()
	for i := range m.perf {
		m.perf[i] = PerfStats{}
	}
	m.handlerPerf = PerfStats{}
	m.perfMu.Unlock()
}

func (m *Manager) recordHandlerBatch(ms float64) {
	m.perfMu.Lock()
	m.handlerPerf.addSample(ms)
	m.perfMu.Unlock()
}

func (m *Manager) recordPerformance(t TypeID, ms float64) {
	m.perfMu.Lock()
	m.perf[t].addSample(ms)
	m.perfMu.Unlock()
}

func (m *Manager) invalidateCaches() {
	m.cacheValid.Store(false)
	m.batchesValid.Store(false)
}

// Frame reports the tick counter, incremented by Update.
func (m *Manager) Frame() uint64 { return m.frame.Load() }
