package event

import (
	"strings"

	"github.com/emberforge/engine/internal/geom"
)

// SceneChangeEvent requests a transition to another scene when triggered
// by zone entry, an input key, or a timer.
type SceneChangeEvent struct {
	Base
	targetScene string
	transition  TransitionType
	duration    float32 // seconds
	effectColor RGBA
	direction   float32 // degrees, for wipe/slide
	sound       string

	// trigger zones; at most one is set
	zoneRect   geom.Rect
	hasRect    bool
	zoneCircle geom.Circle
	hasCircle  bool

	// input gate
	triggerKey    string
	keyPressed    bool
	requireKey    bool

	// timer trigger
	timerDuration float32
	timerElapsed  float32
	timerArmed    bool

	posFn func() geom.Vector2D

	executed int
}

func NewSceneChangeEvent(name, targetScene string, transition TransitionType, duration float32) *SceneChangeEvent {
	if duration < 0 {
		duration = 0
	}
	return &SceneChangeEvent{
		Base:        NewBase(name, TypeSceneChange),
		targetScene: targetScene,
		transition:  transition,
		duration:    duration,
		effectColor: RGBA{0, 0, 0, 255},
	}
}

func (e *SceneChangeEvent) TargetScene() string        { return e.targetScene }
func (e *SceneChangeEvent) Transition() TransitionType { return e.transition }
func (e *SceneChangeEvent) Duration() float32          { return e.duration }
func (e *SceneChangeEvent) EffectColor() RGBA          { return e.effectColor }
func (e *SceneChangeEvent) SetEffectColor(c RGBA)      { e.effectColor = c }
func (e *SceneChangeEvent) Direction() float32         { return e.direction }
func (e *SceneChangeEvent) SetDirection(deg float32)   { e.direction = deg }
func (e *SceneChangeEvent) Sound() string              { return e.sound }
func (e *SceneChangeEvent) SetSound(id string)         { e.sound = id }
func (e *SceneChangeEvent) ExecutionCount() int        { return e.executed }

// SetTriggerZoneRect arms a rectangular entry trigger, replacing any
// circle zone.
func (e *SceneChangeEvent) SetTriggerZoneRect(r geom.Rect) {
	e.zoneRect = r
	e.hasRect = true
	e.hasCircle = false
}

// SetTriggerZoneCircle arms a circular entry trigger, replacing any rect
// zone.
func (e *SceneChangeEvent) SetTriggerZoneCircle(c geom.Circle) {
	e.zoneCircle = c
	e.hasCircle = true
	e.hasRect = false
}

// SetTriggerKey gates the transition on an input key. The input layer
// reports presses through NotifyKeyPressed.
func (e *SceneChangeEvent) SetTriggerKey(key string) {
	e.triggerKey = key
	e.requireKey = key != ""
}

// NotifyKeyPressed records a key press observed by the input layer.
func (e *SceneChangeEvent) NotifyKeyPressed(key string) {
	if e.requireKey && strings.EqualFold(key, e.triggerKey) {
		e.keyPressed = true
	}
}

// SetTimerTrigger fires the transition after seconds of updates.
func (e *SceneChangeEvent) SetTimerTrigger(seconds float32) {
	e.timerDuration = seconds
	e.timerElapsed = 0
	e.timerArmed = seconds > 0
}

// SetPositionSource injects the position checked against trigger zones.
func (e *SceneChangeEvent) SetPositionSource(fn func() geom.Vector2D) { e.posFn = fn }

// TickTimer advances the timer trigger; the manager calls it with the
// frame delta.
func (e *SceneChangeEvent) TickTimer(dt float32) {
	if e.timerArmed {
		e.timerElapsed += dt
	}
}

func (e *SceneChangeEvent) CheckConditions() bool {
	zoneOK := true
	if e.hasRect || e.hasCircle {
		if e.posFn == nil {
			return false
		}
		p := e.posFn()
		if e.hasRect {
			zoneOK = e.zoneRect.Contains(p)
		} else {
			zoneOK = e.zoneCircle.Contains(p)
		}
	}
	if !zoneOK {
		return false
	}
	if e.requireKey && !e.keyPressed {
		return false
	}
	if e.timerArmed && e.timerElapsed < e.timerDuration {
		return false
	}
	return true
}

func (e *SceneChangeEvent) Execute() {
	e.executed++
	e.keyPressed = false
	if e.timerArmed {
		e.timerElapsed = 0
	}
	e.MarkTriggered()
}

func (e *SceneChangeEvent) Reset() {
	e.Base.Reset()
	e.keyPressed = false
	e.timerElapsed = 0
}

// OnMessage understands "trigger" (force conditions next check) and
// "retarget:<scene>".
func (e *SceneChangeEvent) OnMessage(msg string) {
	switch {
	case msg == "trigger":
		e.keyPressed = true
		e.timerElapsed = e.timerDuration
	case strings.HasPrefix(msg, "retarget:"):
		e.targetScene = strings.TrimPrefix(msg, "retarget:")
	}
}
