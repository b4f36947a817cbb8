package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/engine/internal/entity"
	"github.com/emberforge/engine/internal/geom"
)

func TestBaseCooldownMechanics(t *testing.T) {
	b := NewBase("x", TypeCustom)
	b.SetCooldown(2)

	assert.False(t, b.OnCooldown())
	b.StartCooldown()
	require.True(t, b.OnCooldown())

	b.UpdateCooldown(1)
	assert.True(t, b.OnCooldown())
	b.UpdateCooldown(1)
	assert.False(t, b.OnCooldown())
}

func TestBaseStartCooldownNeedsPositiveTime(t *testing.T) {
	b := NewBase("x", TypeCustom)
	b.StartCooldown()
	assert.False(t, b.OnCooldown())
}

func TestBaseShouldUpdateGates(t *testing.T) {
	b := NewBase("x", TypeCustom)
	assert.True(t, b.ShouldUpdate())

	b.SetActive(false)
	assert.False(t, b.ShouldUpdate())
	b.SetActive(true)

	b.SetCooldown(1)
	b.StartCooldown()
	assert.False(t, b.ShouldUpdate())
	b.ResetCooldown()

	b.SetOneTime(true)
	b.MarkTriggered()
	assert.False(t, b.ShouldUpdate())
	b.Reset()
	assert.True(t, b.ShouldUpdate())
}

func TestWeatherEventTimeWindow(t *testing.T) {
	ev := NewWeatherEvent("night-fog", WeatherFoggy)
	hour := float32(12)
	ev.SetHourSource(func() float32 { return hour })

	ev.SetTimeOfDay(6, 18)
	assert.True(t, ev.CheckConditions())
	hour = 20
	assert.False(t, ev.CheckConditions())

	// window wrapping midnight
	ev.SetTimeOfDay(22, 4)
	hour = 23
	assert.True(t, ev.CheckConditions())
	hour = 2
	assert.True(t, ev.CheckConditions())
	hour = 12
	assert.False(t, ev.CheckConditions())
}

func TestWeatherEventTimeWindowNeedsHourSource(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherRainy)
	ev.SetTimeOfDay(6, 18)
	assert.False(t, ev.CheckConditions(), "window without an hour source never passes")
}

func TestWeatherEventRegionCondition(t *testing.T) {
	ev := NewWeatherEvent("coastal", WeatherRainy)
	ev.SetBoundingArea(geom.Rect{X: 0, Y: 0, W: 100, H: 100})

	assert.False(t, ev.CheckConditions(), "region without a position source never passes")

	pos := geom.Vector2D{X: 50, Y: 50}
	ev.SetPositionSource(func() geom.Vector2D { return pos })
	assert.True(t, ev.CheckConditions())

	pos = geom.Vector2D{X: 150, Y: 50}
	assert.False(t, ev.CheckConditions())
}

func TestWeatherEventSeasonCondition(t *testing.T) {
	ev := NewWeatherEvent("winter-only", WeatherSnowy)
	ev.SetSeason(Winter)

	assert.False(t, ev.CheckConditions(), "season without a season source never passes")

	season := Winter
	ev.SetSeasonSource(func() Season { return season })
	assert.True(t, ev.CheckConditions())

	season = Summer
	assert.False(t, ev.CheckConditions())
}

func TestWeatherEventCustomConditions(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherRainy)
	pass := true
	ev.AddCondition(func() bool { return pass })

	assert.True(t, ev.CheckConditions())
	pass = false
	assert.False(t, ev.CheckConditions())
}

func TestWeatherEventTransitionProgress(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherRainy)
	p := ev.Params()
	p.TransitionTime = 1 // 60 update ticks
	ev.SetParams(p)

	ev.Execute()
	require.True(t, ev.InTransition())
	assert.Equal(t, float32(0), ev.TransitionProgress())

	for i := 0; i < 59; i++ {
		ev.Update()
	}
	assert.True(t, ev.InTransition())
	for i := 0; i < 5; i++ {
		ev.Update()
	}
	assert.False(t, ev.InTransition())
	assert.Equal(t, float32(1), ev.TransitionProgress())
}

func TestWeatherEventInstantTransition(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherRainy)
	p := ev.Params()
	p.TransitionTime = 0
	ev.SetParams(p)

	ev.Execute()
	ev.Update()
	assert.False(t, ev.InTransition())
	assert.Equal(t, float32(1), ev.TransitionProgress())
}

func TestWeatherEventChangeMessage(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherClear)

	ev.OnMessage("CHANGE:Snowy:3.5")
	assert.Equal(t, WeatherSnowy, ev.WeatherType())
	assert.Equal(t, float32(3.5), ev.Params().TransitionTime)
	assert.Equal(t, 1, ev.ExecutionCount())
	assert.True(t, ev.InTransition())

	// unknown names become a custom type
	ev.OnMessage("CHANGE:AshFall:1")
	assert.Equal(t, WeatherCustom, ev.WeatherType())
	assert.Equal(t, "AshFall", ev.WeatherTypeString())
}

func TestWeatherEventStartStopMessages(t *testing.T) {
	ev := NewWeatherEvent("x", WeatherRainy)
	ev.OnMessage("start")
	assert.True(t, ev.InTransition())
	ev.OnMessage("stop")
	assert.False(t, ev.InTransition())
}

func TestDefaultWeatherParamsPerType(t *testing.T) {
	assert.Equal(t, "Rain", DefaultWeatherParams(WeatherRainy).ParticleEffect)
	assert.Equal(t, "HeavyRain", DefaultWeatherParams(WeatherStormy).ParticleEffect)
	assert.Equal(t, "Snow", DefaultWeatherParams(WeatherSnowy).ParticleEffect)
	assert.Equal(t, "Fog", DefaultWeatherParams(WeatherFoggy).ParticleEffect)
	assert.Empty(t, DefaultWeatherParams(WeatherClear).ParticleEffect)
	assert.Equal(t, float32(25), DefaultWeatherParams(WeatherWindy).WindSpeed)
}

func TestSceneChangeZoneTrigger(t *testing.T) {
	ev := NewSceneChangeEvent("door", "cave", TransitionFade, 1)
	ev.SetTriggerZoneRect(geom.Rect{X: 0, Y: 0, W: 32, H: 32})

	pos := geom.Vector2D{X: 100, Y: 100}
	ev.SetPositionSource(func() geom.Vector2D { return pos })
	assert.False(t, ev.CheckConditions())

	pos = geom.Vector2D{X: 16, Y: 16}
	assert.True(t, ev.CheckConditions())
}

func TestSceneChangeKeyTrigger(t *testing.T) {
	ev := NewSceneChangeEvent("door", "cave", TransitionFade, 1)
	ev.SetTriggerKey("e")

	assert.False(t, ev.CheckConditions())
	ev.NotifyKeyPressed("q")
	assert.False(t, ev.CheckConditions())
	ev.NotifyKeyPressed("e")
	assert.True(t, ev.CheckConditions())

	// Execute consumes the key press
	ev.Execute()
	assert.False(t, ev.CheckConditions())
}

func TestSceneChangeTimerTrigger(t *testing.T) {
	ev := NewSceneChangeEvent("cutscene", "credits", TransitionFade, 1)
	ev.SetTimerTrigger(2)

	ev.TickTimer(1)
	assert.False(t, ev.CheckConditions())
	ev.TickTimer(1.5)
	assert.True(t, ev.CheckConditions())

	// Execute re-arms the timer
	ev.Execute()
	assert.False(t, ev.CheckConditions())
}

func TestSceneChangeTriggerMessage(t *testing.T) {
	ev := NewSceneChangeEvent("door", "cave", TransitionSlide, 1)
	ev.SetTriggerKey("e")
	ev.SetTimerTrigger(10)

	ev.OnMessage("trigger")
	assert.True(t, ev.CheckConditions())

	ev.OnMessage("retarget:dungeon")
	assert.Equal(t, "dungeon", ev.TargetScene())
}

func TestNPCSpawnAtPoints(t *testing.T) {
	w := entity.NewFakeWorld()
	ev := NewNPCSpawnEvent("guards", SpawnParams{NPCType: "guard", Count: 3})
	ev.SetSpawnPoints([]geom.Vector2D{{X: 10, Y: 10}, {X: 20, Y: 20}})
	ev.SetWorld(w)

	ev.Execute()
	assert.Equal(t, 3, w.SpawnedCount())
	require.Len(t, ev.LastSpawnPositions(), 3)
	// points cycle when count exceeds them
	assert.Equal(t, geom.Vector2D{X: 10, Y: 10}, ev.LastSpawnPositions()[0])
	assert.Equal(t, geom.Vector2D{X: 20, Y: 20}, ev.LastSpawnPositions()[1])
	assert.Equal(t, geom.Vector2D{X: 10, Y: 10}, ev.LastSpawnPositions()[2])
}

func TestNPCSpawnInCircleStaysInside(t *testing.T) {
	w := entity.NewFakeWorld()
	center := geom.Vector2D{X: 500, Y: 500}
	ev := NewNPCSpawnEvent("slimes", SpawnParams{NPCType: "slime", Count: 50})
	ev.SetSpawnCircle(geom.Circle{Center: center, Radius: 64})
	ev.SetWorld(w)

	ev.Execute()
	require.Len(t, ev.LastSpawnPositions(), 50)
	for _, p := range ev.LastSpawnPositions() {
		assert.LessOrEqual(t, center.DistanceTo(p), float32(64.01))
	}
}

func TestNPCSpawnProximityTrigger(t *testing.T) {
	w := entity.NewFakeWorld()
	ev := NewNPCSpawnEvent("ambush", SpawnParams{NPCType: "bandit", Count: 2})
	ev.SetSpawnPoints([]geom.Vector2D{{X: 100, Y: 100}})
	ev.SetProximityTrigger(50)
	ev.SetWorld(w)

	w.SetPlayerPosition(geom.Vector2D{X: 500, Y: 500})
	assert.False(t, ev.CheckConditions())

	w.SetPlayerPosition(geom.Vector2D{X: 120, Y: 100})
	assert.True(t, ev.CheckConditions())
}

func TestNPCSpawnRespawnCadenceAndCap(t *testing.T) {
	w := entity.NewFakeWorld()
	ev := NewNPCSpawnEvent("wolves", SpawnParams{NPCType: "wolf", Count: 2})
	ev.SetSpawnPoints([]geom.Vector2D{{X: 0, Y: 0}})
	ev.SetRespawn(10, 3)
	ev.SetWorld(w)

	require.True(t, ev.CheckConditions())
	ev.Execute()
	assert.Equal(t, 2, ev.AliveCount())

	// respawn interval not yet elapsed
	ev.TickTimers(5)
	assert.False(t, ev.CheckConditions())

	// elapsed, but the cap only leaves room for one more
	ev.TickTimers(6)
	require.True(t, ev.CheckConditions())
	ev.Execute()
	assert.Equal(t, 3, ev.AliveCount())

	// at the cap nothing passes until something dies
	ev.TickTimers(11)
	assert.False(t, ev.CheckConditions())

	for _, ref := range w.QueryEntitiesInRadius(geom.Vector2D{}, 10, nil, false)[:2] {
		ref.(*entity.FakeRef).Kill()
	}
	assert.True(t, ev.CheckConditions())
}

func TestNPCSpawnClearMessage(t *testing.T) {
	w := entity.NewFakeWorld()
	ev := NewNPCSpawnEvent("x", SpawnParams{NPCType: "rat", Count: 4})
	ev.SetSpawnPoints([]geom.Vector2D{{X: 0, Y: 0}})
	ev.SetWorld(w)

	ev.OnMessage("spawn")
	assert.Equal(t, 4, ev.AliveCount())

	ev.OnMessage("clear")
	assert.Equal(t, 0, ev.AliveCount())
	assert.Empty(t, ev.LastSpawnPositions())
}

func TestParticleEffectEventLifecycle(t *testing.T) {
	ev := NewParticleEffectEvent("torch", "Fire", geom.Vector2D{X: 32, Y: 64}, 0.8, -1, "torches")
	assert.Equal(t, "Fire", ev.EffectName())
	assert.Equal(t, float32(0.8), ev.Intensity())
	assert.Equal(t, uint64(0), ev.LiveEffectID())

	ev.Execute()
	ev.SetLiveEffectID(7)
	assert.Equal(t, 1, ev.ExecutionCount())

	ev.OnMessage("stop")
	assert.Equal(t, uint64(0), ev.LiveEffectID())

	ev.SetLiveEffectID(9)
	ev.Reset()
	assert.Equal(t, uint64(0), ev.LiveEffectID())
}

func TestParticleEffectEventClampsIntensity(t *testing.T) {
	ev := NewParticleEffectEvent("x", "Smoke", geom.Vector2D{}, -2, 1, "")
	assert.Equal(t, float32(0), ev.Intensity())
}

// fakeRunner records script hook calls for ScriptedEvent tests.
type fakeRunner struct {
	condResult bool
	condErr    error
	actions    []string
	messages   []string
}

func (r *fakeRunner) CallCondition(hook string) (bool, error) { return r.condResult, r.condErr }
func (r *fakeRunner) CallAction(hook string) error {
	r.actions = append(r.actions, hook)
	return nil
}
func (r *fakeRunner) CallMessage(hook, body string) error {
	r.messages = append(r.messages, hook+":"+body)
	return nil
}

func TestScriptedEventHooks(t *testing.T) {
	r := &fakeRunner{condResult: true}
	ev := NewScriptedEvent("quest", r)
	ev.SetHooks("quest_ready", "quest_start", "quest_msg")

	assert.True(t, ev.CheckConditions())
	ev.Execute()
	assert.Equal(t, []string{"quest_start"}, r.actions)

	ev.OnMessage("hello")
	assert.Equal(t, []string{"quest_msg:hello"}, r.messages)

	r.condResult = false
	assert.False(t, ev.CheckConditions())
}

func TestScriptedEventConditionErrorFails(t *testing.T) {
	r := &fakeRunner{condResult: true, condErr: errors.New("script blew up")}
	ev := NewScriptedEvent("quest", r)
	ev.SetHooks("quest_ready", "", "")

	assert.False(t, ev.CheckConditions())
	assert.Error(t, ev.LastError())
}

func TestScriptedEventDefaultsWithoutHooks(t *testing.T) {
	ev := NewScriptedEvent("bare", nil)
	assert.True(t, ev.CheckConditions())
	assert.NotPanics(t, func() { ev.Execute() })
	assert.True(t, ev.HasTriggered())
}

func TestTimeEventConstructors(t *testing.T) {
	h := NewHourChangedEvent(23, true)
	assert.Equal(t, HourChanged, h.Kind)
	assert.Equal(t, 23, h.Hour)
	assert.True(t, h.IsNight)
	assert.Equal(t, TypeTime, h.TypeID())

	s := NewSeasonChangedEvent(Winter, Fall)
	assert.Equal(t, Winter, s.Season)
	assert.Equal(t, Fall, s.PreviousSeason)

	w := NewWeatherCheckEvent(Summer, WeatherStormy)
	assert.Equal(t, WeatherCheck, w.Kind)
	assert.Equal(t, WeatherStormy, w.RecommendedWeather)
}

func TestParseWeatherTypeRoundTrip(t *testing.T) {
	for _, wt := range []WeatherType{WeatherClear, WeatherRainy, WeatherStormy, WeatherSnowy, WeatherFoggy, WeatherCloudy, WeatherWindy} {
		assert.Equal(t, wt, ParseWeatherType(wt.String()))
	}
	assert.Equal(t, WeatherCustom, ParseWeatherType("BloodMoon"))
}

func TestParseTypeID(t *testing.T) {
	for tt := TypeID(0); tt < typeCount; tt++ {
		assert.Equal(t, tt, ParseTypeID(tt.String()))
	}
	assert.Equal(t, TypeCustom, ParseTypeID("nonsense"))
}
