package event

import "github.com/emberforge/engine/internal/geom"

// ParticleEffectEvent requests a particle effect at a position. The
// particle core is driven through the typed handler registered for
// TypeParticleEffect; the event itself only carries the request and the
// id of the live instance once started.
type ParticleEffectEvent struct {
	Base
	effectName string
	position   geom.Vector2D
	intensity  float32
	duration   float32 // seconds, -1 = infinite
	groupTag   string
	sound      string

	liveEffectID uint64 // 0 while not playing
	executed     int
}

func NewParticleEffectEvent(name, effectName string, pos geom.Vector2D, intensity, duration float32, groupTag string) *ParticleEffectEvent {
	if intensity < 0 {
		intensity = 0
	}
	return &ParticleEffectEvent{
		Base:       NewBase(name, TypeParticleEffect),
		effectName: effectName,
		position:   pos,
		intensity:  intensity,
		duration:   duration,
		groupTag:   groupTag,
	}
}

func (e *ParticleEffectEvent) EffectName() string       { return e.effectName }
func (e *ParticleEffectEvent) Position() geom.Vector2D  { return e.position }
func (e *ParticleEffectEvent) SetPosition(p geom.Vector2D) { e.position = p }
func (e *ParticleEffectEvent) Intensity() float32       { return e.intensity }
func (e *ParticleEffectEvent) SetIntensity(i float32)   { e.intensity = i }
func (e *ParticleEffectEvent) Duration() float32        { return e.duration }
func (e *ParticleEffectEvent) GroupTag() string         { return e.groupTag }
func (e *ParticleEffectEvent) Sound() string            { return e.sound }
func (e *ParticleEffectEvent) SetSound(id string)       { e.sound = id }
func (e *ParticleEffectEvent) ExecutionCount() int      { return e.executed }

// LiveEffectID is the running instance id, 0 when not playing.
func (e *ParticleEffectEvent) LiveEffectID() uint64      { return e.liveEffectID }
func (e *ParticleEffectEvent) SetLiveEffectID(id uint64) { e.liveEffectID = id }

func (e *ParticleEffectEvent) Execute() {
	e.executed++
	e.MarkTriggered()
}

func (e *ParticleEffectEvent) Reset() {
	e.Base.Reset()
	e.liveEffectID = 0
}

// OnMessage understands "stop", clearing the live instance marker. The
// handler that owns the particle core observes the id before it clears.
func (e *ParticleEffectEvent) OnMessage(msg string) {
	if msg == "stop" {
		e.liveEffectID = 0
	}
}
