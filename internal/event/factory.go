package event

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/geom"
)

// Convenience creators: construct a typed event with defaulted payload
// and register it in one call.

func (m *Manager) CreateWeatherEvent(name, weatherType string, intensity, transitionTime float32) bool {
	t := ParseWeatherType(weatherType)
	if t == WeatherCustom {
		m.log.Warn("unknown weather type treated as custom", zap.String("type", weatherType))
	}
	ev := NewWeatherEvent(name, t)
	if t == WeatherCustom {
		ev.SetCustomWeatherType(weatherType)
	}
	p := ev.Params()
	if intensity >= 0 && intensity <= 1 {
		p.Intensity = intensity
	}
	if transitionTime >= 0 {
		p.TransitionTime = transitionTime
	}
	ev.SetParams(p)
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateSceneChangeEvent(name, targetScene, transitionType string, transitionTime float32) bool {
	ev := NewSceneChangeEvent(name, targetScene, ParseTransitionType(transitionType), transitionTime)
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateNPCSpawnEvent(name, npcType string, count int, spawnRadius float32) bool {
	ev := NewNPCSpawnEvent(name, SpawnParams{
		NPCType:     npcType,
		Count:       count,
		SpawnRadius: spawnRadius,
	})
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateParticleEffectEvent(name, effectName string, pos geom.Vector2D, intensity, duration float32, groupTag string) bool {
	ev := NewParticleEffectEvent(name, effectName, pos, intensity, duration, groupTag)
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateResourceChangeEvent(name string, ownerID uint64, resourceID string, oldQty, newQty int, reason string) bool {
	return m.RegisterEvent(name, NewResourceChangeEvent(name, ownerID, resourceID, oldQty, newQty, reason))
}

func (m *Manager) CreateWorldLoadedEvent(name, worldID string, width, height int) bool {
	ev := NewWorldEvent(name, WorldLoaded)
	ev.WorldID = worldID
	ev.Width = width
	ev.Height = height
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateWorldUnloadedEvent(name, worldID string) bool {
	ev := NewWorldEvent(name, WorldUnloaded)
	ev.WorldID = worldID
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateTileChangedEvent(name string, x, y int, changeType string) bool {
	ev := NewWorldEvent(name, TileChanged)
	ev.TileX = x
	ev.TileY = y
	ev.ChangeType = changeType
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateCameraMovedEvent(name string, newPos, oldPos geom.Vector2D) bool {
	ev := NewCameraEvent(name, CameraMoved)
	ev.NewPosition = newPos
	ev.OldPosition = oldPos
	return m.RegisterEvent(name, ev)
}

func (m *Manager) CreateCameraShakeEvent(name string, duration, intensity float32) bool {
	ev := NewCameraEvent(name, CameraShakeStarted)
	ev.ShakeDuration = duration
	ev.ShakeIntensity = intensity
	return m.RegisterEvent(name, ev)
}

// ── Forcing helpers ────────────────────────────────────────────────
// Each synthesizes a transient typed event and pushes it through the
// handler pipeline. The call is a best-effort request: success is
// returned even when nobody handles it.

// ChangeWeather requests a weather change. When no Weather handler is
// registered the request is also broadcast as a message to every Weather
// event so custom events can observe it.
func (m *Manager) ChangeWeather(weatherType string, transitionTime float32, mode DispatchMode) bool {
	t := ParseWeatherType(weatherType)
	ev := NewWeatherEvent("__weather_change", t)
	if t == WeatherCustom {
		ev.SetCustomWeatherType(weatherType)
	}
	p := ev.Params()
	p.TransitionTime = transitionTime
	ev.SetParams(p)

	if m.hasTypedHandler(TypeWeather) {
		m.DispatchEvent(ev, mode)
		return true
	}
	body := fmt.Sprintf("CHANGE:%s:%g", weatherType, transitionTime)
	m.BroadcastMessageToType(TypeWeather, body, mode == Immediate)
	return true
}

// ChangeScene requests a transition to the given scene.
func (m *Manager) ChangeScene(sceneID, transitionType string, transitionTime float32, mode DispatchMode) bool {
	ev := NewSceneChangeEvent("__scene_change", sceneID, ParseTransitionType(transitionType), transitionTime)
	m.DispatchEvent(ev, mode)
	return true
}

// SpawnNPC requests a single NPC of the given type at (x, y).
func (m *Manager) SpawnNPC(npcType string, x, y float32, mode DispatchMode) bool {
	ev := NewNPCSpawnEvent("__npc_spawn", SpawnParams{NPCType: npcType, Count: 1})
	ev.SetSpawnPoints([]geom.Vector2D{{X: x, Y: y}})
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerParticleEffect requests a particle effect without registering
// an event.
func (m *Manager) TriggerParticleEffect(effectName string, x, y, intensity, duration float32, groupTag string, mode DispatchMode) bool {
	ev := NewParticleEffectEvent("__particle_effect", effectName, geom.Vector2D{X: x, Y: y}, intensity, duration, groupTag)
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerWorldLoaded notifies handlers a world finished loading.
func (m *Manager) TriggerWorldLoaded(worldID string, width, height int, mode DispatchMode) bool {
	ev := NewWorldEvent("__world_loaded", WorldLoaded)
	ev.WorldID = worldID
	ev.Width = width
	ev.Height = height
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerWorldUnloaded notifies handlers a world was torn down, and
// clears spawn-event entity tracking so stale references do not leak
// across reloads.
func (m *Manager) TriggerWorldUnloaded(worldID string, mode DispatchMode) bool {
	ev := NewWorldEvent("__world_unloaded", WorldUnloaded)
	ev.WorldID = worldID
	m.DispatchEvent(ev, mode)
	m.BroadcastMessageToType(TypeNPCSpawn, "clear", mode == Immediate)
	return true
}

// TriggerTileChanged notifies handlers of a tile mutation.
func (m *Manager) TriggerTileChanged(x, y int, changeType string, mode DispatchMode) bool {
	ev := NewWorldEvent("__tile_changed", TileChanged)
	ev.TileX = x
	ev.TileY = y
	ev.ChangeType = changeType
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerCameraMoved notifies handlers of a camera move.
func (m *Manager) TriggerCameraMoved(newPos, oldPos geom.Vector2D, mode DispatchMode) bool {
	ev := NewCameraEvent("__camera_moved", CameraMoved)
	ev.NewPosition = newPos
	ev.OldPosition = oldPos
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerCameraShakeStarted notifies handlers a camera shake began.
func (m *Manager) TriggerCameraShakeStarted(duration, intensity float32, mode DispatchMode) bool {
	ev := NewCameraEvent("__camera_shake", CameraShakeStarted)
	ev.ShakeDuration = duration
	ev.ShakeIntensity = intensity
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerCameraShakeEnded notifies handlers a camera shake finished.
func (m *Manager) TriggerCameraShakeEnded(mode DispatchMode) bool {
	m.DispatchEvent(NewCameraEvent("__camera_shake_end", CameraShakeEnded), mode)
	return true
}

// TriggerCollision notifies handlers of a contact.
func (m *Manager) TriggerCollision(a, b uint64, point, normal geom.Vector2D, penetration float32, mode DispatchMode) bool {
	ev := NewCollisionEvent("__collision")
	ev.EntityA = a
	ev.EntityB = b
	ev.Point = point
	ev.Normal = normal
	ev.Penetration = penetration
	m.DispatchEvent(ev, mode)
	return true
}

// TriggerResourceChange notifies handlers of a quantity change.
func (m *Manager) TriggerResourceChange(ownerID uint64, resourceID string, oldQty, newQty int, reason string, mode DispatchMode) bool {
	m.DispatchEvent(NewResourceChangeEvent("__resource_change", ownerID, resourceID, oldQty, newQty, reason), mode)
	return true
}
