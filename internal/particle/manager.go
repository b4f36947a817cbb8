package particle

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/core/pool"
	"github.com/emberforge/engine/internal/event"
	"github.com/emberforge/engine/internal/geom"
	"github.com/emberforge/engine/internal/render"
)

const (
	// DefaultMaxParticles bounds the SoA arrays.
	DefaultMaxParticles = 100_000

	defaultThreadingThreshold = 1000
	defaultCullMargin         = 128
	defaultScreenWidth        = 1920
	defaultScreenHeight       = 1080

	// life fraction below which alpha attenuation starts
	fadeStartRatio = 0.25
	// extra attenuation applied to particles marked for fade out
	fadeOutMultiplier = 4

	simTaskTimeout = 500 * time.Millisecond
	minSliceSize   = 256
)

// effectInstance is one running occurrence of a definition.
type effectInstance struct {
	id          uint64
	def         EffectDefinition
	pos         geom.Vector2D
	current     float32 // intensity
	target      float32
	rampSpeed   float32 // intensity units per second
	emitAccum   float32
	burstTimer  float32
	age         float32
	maxDuration float32 // seconds, <0 infinite
	active      bool
	paused      bool
	weather     bool
	independent bool
	fading      bool
	groupTag    string
	sound       string
	gen         uint8
}

// PerfStats aggregates per-frame update cost.
type PerfStats struct {
	UpdateCount    uint64
	TotalUpdate    time.Duration
	MaxActiveCount int
}

// Core owns particle storage and effect instances. The main loop is
// the sole caller of Update and the render methods; simulation fans
// out to the worker pool on disjoint index slices.
type Core struct {
	log  *zap.Logger
	pool *pool.Pool

	mu        sync.RWMutex
	store     *storage
	defs      map[string]EffectDefinition
	instances []*effectInstance
	nextID    uint64

	viewport   geom.Rect
	cullMargin float32

	initialized bool
	paused      bool
	visible     bool

	threadingEnabled   bool
	threadingThreshold int
	maxThreads         int

	weatherGen uint8

	rng  *rand.Rand
	perf PerfStats
}

// NewCore creates an uninitialized particle core. p may be nil; the
// simulation then always runs on the caller thread.
func NewCore(p *pool.Pool, log *zap.Logger) *Core {
	return &Core{
		log:  log,
		pool: p,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Init reserves storage and registers the built-in effects.
// Idempotent.
func (c *Core) Init() bool {
	return c.InitWithCapacity(DefaultMaxParticles)
}

func (c *Core) InitWithCapacity(capacity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return true
	}
	if capacity < 1 {
		capacity = DefaultMaxParticles
	}
	c.store = newStorage(capacity)
	c.defs = make(map[string]EffectDefinition)
	for _, def := range builtinEffects(defaultScreenWidth, defaultScreenHeight) {
		c.defs[def.Name] = def
	}
	c.instances = c.instances[:0]
	c.nextID = 0
	c.viewport = geom.Rect{X: 0, Y: 0, W: defaultScreenWidth, H: defaultScreenHeight}
	c.cullMargin = defaultCullMargin
	c.visible = true
	c.paused = false
	c.threadingEnabled = c.pool != nil
	c.threadingThreshold = defaultThreadingThreshold
	c.weatherGen = 0
	c.perf = PerfStats{}
	c.initialized = true
	c.log.Info("particle core initialized", zap.Int("capacity", capacity))
	return true
}

// Clean discards all particles and instances but keeps the system
// re-usable. Idempotent.
func (c *Core) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	c.store.reset()
	c.instances = c.instances[:0]
	c.perf = PerfStats{}
	c.initialized = false
	c.log.Info("particle core cleaned")
}

// PrepareForStateTransition pauses, drops inactive particles and
// resets counters while staying initialized.
func (c *Core) PrepareForStateTransition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	c.paused = true
	c.store.compact()
	c.perf = PerfStats{}
}

func (c *Core) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// RegisterEffect inserts or replaces a definition by name.
func (c *Core) RegisterEffect(def EffectDefinition) bool {
	if def.Name == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defs == nil {
		return false
	}
	c.defs[def.Name] = def
	return true
}

// ── Playback ───────────────────────────────────────────────────────

// PlayEffect starts a bounded instance of a named effect. Returns 0
// when the name is unknown.
func (c *Core) PlayEffect(name string, pos geom.Vector2D, intensity float32) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked(name, pos, intensity, 0, false, "", "", 0)
}

// PlayIndependentEffect starts an instance excluded from weather bulk
// stops. duration < 0 means infinite.
func (c *Core) PlayIndependentEffect(name string, pos geom.Vector2D, intensity, duration float32, groupTag, sound string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.playLocked(name, pos, intensity, duration, false, groupTag, sound, 0)
	if id != 0 {
		c.instances[len(c.instances)-1].independent = true
	}
	return id
}

func (c *Core) playLocked(name string, pos geom.Vector2D, intensity, duration float32, weather bool, groupTag, sound string, gen uint8) uint64 {
	if !c.initialized {
		return 0
	}
	def, ok := c.defs[name]
	if !ok {
		c.log.Warn("unknown particle effect", zap.String("name", name))
		return 0
	}
	if intensity <= 0 {
		intensity = 1
	}
	if duration == 0 {
		duration = def.Emitter.Duration
	}
	c.nextID++
	inst := &effectInstance{
		id:          c.nextID,
		def:         def,
		pos:         pos,
		current:     intensity,
		target:      intensity,
		maxDuration: duration,
		active:      true,
		weather:     weather,
		groupTag:    groupTag,
		sound:       sound,
		gen:         gen,
	}
	c.instances = append(c.instances, inst)
	return inst.id
}

// StopEffect deactivates an instance immediately. Unknown ids are a
// no-op.
func (c *Core) StopEffect(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst := c.findLocked(id); inst != nil {
		inst.active = false
	}
}

func (c *Core) StopIndependentEffect(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst := c.findLocked(id); inst != nil && inst.independent {
		inst.active = false
	}
}

func (c *Core) StopAllIndependentEffects() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inst := range c.instances {
		if inst.independent {
			inst.active = false
		}
	}
}

func (c *Core) StopIndependentEffectsByGroup(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inst := range c.instances {
		if inst.independent && inst.groupTag == tag {
			inst.active = false
		}
	}
}

func (c *Core) PauseIndependentEffect(id uint64, paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst := c.findLocked(id); inst != nil && inst.independent {
		inst.paused = paused
	}
}

func (c *Core) PauseAllIndependentEffects(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inst := range c.instances {
		if inst.independent {
			inst.paused = paused
		}
	}
}

func (c *Core) PauseIndependentEffectsByGroup(tag string, paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inst := range c.instances {
		if inst.independent && inst.groupTag == tag {
			inst.paused = paused
		}
	}
}

// SetEffectIntensity ramps an instance toward target at rampSpeed per
// second. A weather instance ramped to zero is treated as fading out.
func (c *Core) SetEffectIntensity(id uint64, target float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst := c.findLocked(id)
	if inst == nil {
		return
	}
	inst.target = target
	if inst.rampSpeed <= 0 {
		inst.rampSpeed = 1
	}
	if target <= 0 && inst.weather {
		inst.fading = true
	}
}

func (c *Core) findLocked(id uint64) *effectInstance {
	for _, inst := range c.instances {
		if inst.id == id {
			return inst
		}
	}
	return nil
}

// ── Weather hook ───────────────────────────────────────────────────

// TriggerWeatherEffect stops prior weather effects with the given fade
// and starts the effect mapped to the weather type. Clear and Windy
// only stop. Returns the new instance id, or 0.
func (c *Core) TriggerWeatherEffect(weatherType string, intensity, transitionTime float32) uint64 {
	name := weatherEffectName(event.ParseWeatherType(weatherType), intensity)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return 0
	}
	c.stopWeatherLocked(transitionTime)
	if name == "" {
		return 0
	}
	c.weatherGen++
	if c.weatherGen == 0 {
		c.weatherGen = 1
	}
	id := c.playLocked(name, geom.Vector2D{}, intensity, -1, true, "", "", c.weatherGen)
	if id != 0 {
		c.log.Info("weather effect started",
			zap.String("effect", name),
			zap.Float32("intensity", intensity),
			zap.Uint8("generation", c.weatherGen))
	}
	return id
}

func weatherEffectName(t event.WeatherType, intensity float32) string {
	switch t {
	case event.WeatherRainy:
		if intensity > 0.7 {
			return "HeavyRain"
		}
		return "Rain"
	case event.WeatherStormy:
		return "HeavyRain"
	case event.WeatherSnowy:
		if intensity > 0.7 {
			return "HeavySnow"
		}
		return "Snow"
	case event.WeatherFoggy:
		return "Fog"
	case event.WeatherCloudy:
		return "Cloudy"
	default:
		return ""
	}
}

// StopWeatherEffects fades out every weather instance over
// transitionTime seconds, or kills them immediately when it is zero.
func (c *Core) StopWeatherEffects(transitionTime float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopWeatherLocked(transitionTime)
}

func (c *Core) stopWeatherLocked(transitionTime float32) {
	for _, inst := range c.instances {
		if !inst.weather || !inst.active {
			continue
		}
		if transitionTime <= 0 {
			inst.active = false
		} else {
			inst.target = 0
			inst.rampSpeed = 1 / transitionTime
			inst.fading = true
		}
	}
	if transitionTime <= 0 {
		c.clearWeatherGenLocked(0, 0)
	}
}

// ClearWeatherGeneration deactivates or fades weather particles of the
// given generation. gen 0 matches every generation.
func (c *Core) ClearWeatherGeneration(gen uint8, fadeTime float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearWeatherGenLocked(gen, fadeTime)
}

func (c *Core) clearWeatherGenLocked(gen uint8, fadeTime float32) {
	for i := range c.store.hot {
		p := &c.store.hot[i]
		if !p.active() || !p.weather() {
			continue
		}
		if gen != 0 && p.Gen != gen {
			continue
		}
		if fadeTime <= 0 {
			p.Flags &^= flagActive
		} else {
			p.Flags |= flagFadeOut
			if p.Life > fadeTime {
				p.Life = fadeTime
			}
		}
	}
}

// ── Global switches ────────────────────────────────────────────────

func (c *Core) SetGlobalPause(paused bool) {
	c.mu.Lock()
	c.paused = paused
	c.mu.Unlock()
}

func (c *Core) SetGlobalVisibility(visible bool) {
	c.mu.Lock()
	c.visible = visible
	c.mu.Unlock()
}

func (c *Core) SetCameraViewport(x, y, w, h float32) {
	c.mu.Lock()
	c.viewport = geom.Rect{X: x, Y: y, W: w, H: h}
	c.mu.Unlock()
}

func (c *Core) SetCullMargin(margin float32) {
	c.mu.Lock()
	c.cullMargin = margin
	c.mu.Unlock()
}

func (c *Core) ConfigureThreading(enable bool, maxThreads int) {
	c.mu.Lock()
	c.threadingEnabled = enable && c.pool != nil
	c.maxThreads = maxThreads
	c.mu.Unlock()
}

func (c *Core) SetThreadingThreshold(n int) {
	c.mu.Lock()
	if n > 0 {
		c.threadingThreshold = n
	}
	c.mu.Unlock()
}

// ── Per-frame pipeline ─────────────────────────────────────────────

// Update advances instances and particles by dt seconds.
func (c *Core) Update(dt float32) {
	started := time.Now()

	c.mu.Lock()
	if !c.initialized || c.paused || dt <= 0 {
		c.mu.Unlock()
		return
	}
	c.updateInstancesLocked(dt)
	hot := c.store.hot
	cold := c.store.cold
	threaded := c.threadingEnabled && len(hot) >= c.threadingThreshold
	viewport := c.viewport.Expanded(c.cullMargin)
	c.mu.Unlock()

	// Slice writes are disjoint per task, so the simulation path runs
	// without the lock. The main loop is the only appender and it is
	// blocked here until every task is awaited.
	if threaded {
		c.simulateThreaded(hot, cold, viewport, dt)
	} else {
		simulateSlice(hot, cold, viewport, dt)
	}

	c.mu.Lock()
	c.store.compactIfNeeded()
	active := c.store.countActive()
	c.perf.UpdateCount++
	c.perf.TotalUpdate += time.Since(started)
	if active > c.perf.MaxActiveCount {
		c.perf.MaxActiveCount = active
	}
	c.mu.Unlock()
}

// updateInstancesLocked ramps intensities, ticks durations and emits.
func (c *Core) updateInstancesLocked(dt float32) {
	w := 0
	for _, inst := range c.instances {
		if !inst.active {
			continue
		}
		if inst.rampSpeed > 0 && inst.current != inst.target {
			step := inst.rampSpeed * dt
			if inst.current < inst.target {
				inst.current = minf(inst.current+step, inst.target)
			} else {
				inst.current = maxf(inst.current-step, inst.target)
			}
		}
		if inst.fading && inst.current <= 0.01 {
			inst.active = false
			continue
		}
		inst.age += dt
		if inst.maxDuration >= 0 && inst.age >= inst.maxDuration {
			inst.active = false
			continue
		}
		if !inst.paused {
			c.emitLocked(inst, dt)
		}
		c.instances[w] = inst
		w++
	}
	c.instances = c.instances[:w]
}

func (c *Core) emitLocked(inst *effectInstance, dt float32) {
	e := &inst.def.Emitter
	effective := inst.current * inst.def.IntensityMultiplier
	if effective <= 0 {
		return
	}
	inst.emitAccum += e.EmissionRate * effective * dt
	count := int(inst.emitAccum)
	inst.emitAccum -= float32(count)

	if e.BurstCount > 0 && e.BurstInterval > 0 {
		inst.burstTimer += dt
		for inst.burstTimer >= e.BurstInterval {
			inst.burstTimer -= e.BurstInterval
			count += e.BurstCount
		}
	}

	for i := 0; i < count; i++ {
		if !c.emitOne(inst) {
			return // storage full, drop the rest
		}
	}
}

func (c *Core) emitOne(inst *effectInstance) bool {
	e := &inst.def.Emitter
	t := c.rng.Float32()

	var pos geom.Vector2D
	if inst.def.ScreenSpace {
		pos = geom.Vector2D{
			X: c.viewport.X + c.rng.Float32()*c.viewport.W,
			Y: c.viewport.Y + c.rng.Float32()*c.viewport.H,
		}
	} else {
		pos = inst.pos
	}

	speed := e.MinSpeed + (e.MaxSpeed-e.MinSpeed)*t

	// screen-space weather keeps a tight angle; point effects use the
	// full configured spread
	spreadDeg := e.Spread
	if inst.def.ScreenSpace {
		spreadDeg = 5
	}
	base := float32(0)
	if e.Direction.X != 0 || e.Direction.Y != 0 {
		base = e.Direction.Angle()
	} else {
		base = 180 // straight down
	}
	angle := base + (c.rng.Float32()*2-1)*spreadDeg
	vel := geom.FromAngle(angle).Scale(speed)

	life := e.MinLife + (e.MaxLife-e.MinLife)*c.rng.Float32()
	size := e.MinSize + (e.MaxSize-e.MinSize)*c.rng.Float32()

	flags := flagActive | flagVisible
	if inst.weather {
		flags |= flagWeather
	}
	h := hotParticle{
		Pos:     pos,
		Vel:     vel,
		Life:    life,
		MaxLife: life,
		Color:   interpolateColor(e.MinColor, e.MaxColor, t),
		Flags:   flags,
		Gen:     inst.gen,
	}
	cd := coldParticle{
		Accel: e.Gravity.Add(e.Wind),
		Size:  size,
		Layer: inst.def.Layer,
	}
	return c.store.append(h, cd)
}

func (c *Core) simulateThreaded(hot []hotParticle, cold []coldParticle, viewport geom.Rect, dt float32) {
	workers := c.pool.ThreadCount()
	if c.maxThreads > 0 && workers > c.maxThreads {
		workers = c.maxThreads
	}
	slice := (len(hot) + workers - 1) / workers
	if slice < minSliceSize {
		slice = minSliceSize
	}

	tasks := make([]*pool.Task, 0, workers)
	for start := 0; start < len(hot); start += slice {
		end := start + slice
		if end > len(hot) {
			end = len(hot)
		}
		hs, cs := hot[start:end], cold[start:end]
		tasks = append(tasks, c.pool.Submit(func() {
			simulateSlice(hs, cs, viewport, dt)
		}, pool.High, "particle sim slice"))
	}
	for _, t := range tasks {
		if !t.Wait(simTaskTimeout) {
			c.log.Warn("particle simulation task timed out")
		}
	}
}

// simulateSlice runs the per-particle step over one index slice.
func simulateSlice(hot []hotParticle, cold []coldParticle, viewport geom.Rect, dt float32) {
	for i := range hot {
		p := &hot[i]
		if !p.active() {
			continue
		}
		p.Life -= dt
		if p.Life <= 0 {
			p.Life = 0
			p.Flags &^= flagActive
			continue
		}

		ratio := p.Life / p.MaxLife
		if ratio < fadeStartRatio || p.Flags&flagFadeOut != 0 {
			alpha := ratio / fadeStartRatio * 255
			if p.Flags&flagFadeOut != 0 {
				alpha /= fadeOutMultiplier
			}
			if alpha <= 5 {
				p.Flags &^= flagActive
				continue
			}
			p.Color = p.Color&0xFFFFFF00 | uint32(alpha)&0xFF
		}

		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel = p.Vel.Add(cold[i].Accel.Scale(dt))

		if viewport.Contains(p.Pos) {
			p.Flags |= flagVisible
		} else {
			p.Flags &^= flagVisible
		}
	}
}

// ── Rendering ──────────────────────────────────────────────────────

// Render draws every visible particle regardless of layer.
func (c *Core) Render(r render.Renderer, camX, camY float32) {
	c.renderLayer(r, camX, camY, nil)
}

// RenderBackground draws only background-layer particles.
func (c *Core) RenderBackground(r render.Renderer, camX, camY float32) {
	layer := LayerBackground
	c.renderLayer(r, camX, camY, &layer)
}

// RenderForeground draws world and foreground layers.
func (c *Core) RenderForeground(r render.Renderer, camX, camY float32) {
	layer := LayerForeground
	c.renderLayer(r, camX, camY, &layer)
}

func (c *Core) renderLayer(r render.Renderer, camX, camY float32, layer *RenderLayer) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.visible {
		return
	}
	// group draw calls by color to cut state changes
	var lastColor uint32
	colorSet := false
	for i := range c.store.hot {
		p := &c.store.hot[i]
		if !p.active() || !p.visible() {
			continue
		}
		cd := &c.store.cold[i]
		if layer != nil && cd.Layer != *layer {
			continue
		}
		if !colorSet || p.Color != lastColor {
			r.SetDrawColor(
				uint8(p.Color>>24), uint8(p.Color>>16),
				uint8(p.Color>>8), uint8(p.Color))
			lastColor = p.Color
			colorSet = true
		}
		half := cd.Size / 2
		r.DrawFilledRect(p.Pos.X-camX-half, p.Pos.Y-camY-half, cd.Size, cd.Size)
	}
}

// ── Introspection ──────────────────────────────────────────────────

// ActiveParticleCount returns the count recorded by the last update.
func (c *Core) ActiveParticleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.countActive()
}

// CountActiveParticles scans storage for the exact live count.
func (c *Core) CountActiveParticles() int { return c.ActiveParticleCount() }

func (c *Core) MaxParticleCapacity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return 0
	}
	return c.store.cap
}

// ActiveEffectCount reports running effect instances.
func (c *Core) ActiveEffectCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, inst := range c.instances {
		if inst.active {
			n++
		}
	}
	return n
}

// EffectIntensity returns the current intensity of an instance, or 0.
func (c *Core) EffectIntensity(id uint64) float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if inst := c.findLocked(id); inst != nil {
		return inst.current
	}
	return 0
}

func (c *Core) PerformanceStats() PerfStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perf
}

func (c *Core) ResetPerformanceStats() {
	c.mu.Lock()
	c.perf = PerfStats{}
	c.mu.Unlock()
}

// WeatherGeneration exposes the current weather batch id.
func (c *Core) WeatherGeneration() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.weatherGen
}

func minf(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}

func maxf(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}
