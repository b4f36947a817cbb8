package event

import (
	"math"
	"math/rand"

	"github.com/emberforge/engine/internal/entity"
	"github.com/emberforge/engine/internal/geom"
)

// SpawnAreaKind selects how spawn positions are sampled.
type SpawnAreaKind uint8

const (
	SpawnAtPoints SpawnAreaKind = iota
	SpawnInRect
	SpawnInCircle
)

// SpawnParams configures what an NPCSpawnEvent creates.
type SpawnParams struct {
	NPCType         string
	Count           int
	SpawnRadius     float32 // jitter around the sampled position
	FacingPlayer    bool
	FadeIn          bool
	FadeTime        float32
	SpawnEffect     string // particle effect name played at each spawn
	SpawnSound      string
	AIBehavior      string
	DespawnTime     float32 // seconds, 0 = never
	DespawnDistance float32 // distance from player, 0 = never
}

// NPCSpawnEvent spawns NPCs into the world when its trigger passes. It
// holds only non-owning references to what it spawned; the world owns the
// entities.
type NPCSpawnEvent struct {
	Base
	params SpawnParams

	areaKind   SpawnAreaKind
	points     []geom.Vector2D
	area       geom.Rect
	circle     geom.Circle

	// proximity trigger: spawn when the player is within triggerRadius of
	// the area center
	triggerRadius float32

	// time-of-day window, -1 = unrestricted
	startHour float32
	endHour   float32
	hourFn    func() float32

	// respawn cadence
	respawnInterval float32 // seconds between waves, 0 = single wave
	sinceLastSpawn  float32
	maxAlive        int // cap on live spawned entities, 0 = unlimited

	world   entity.World
	spawned []entity.Ref

	lastPositions []geom.Vector2D // positions of the latest wave
}

func NewNPCSpawnEvent(name string, params SpawnParams) *NPCSpawnEvent {
	if params.Count < 1 {
		params.Count = 1
	}
	return &NPCSpawnEvent{
		Base:      NewBase(name, TypeNPCSpawn),
		params:    params,
		startHour: -1,
		endHour:   -1,
	}
}

func (e *NPCSpawnEvent) Params() SpawnParams { return e.params }

// SetSpawnPoints spawns at fixed points, cycling when count exceeds them.
func (e *NPCSpawnEvent) SetSpawnPoints(points []geom.Vector2D) {
	e.areaKind = SpawnAtPoints
	e.points = points
}

func (e *NPCSpawnEvent) SetSpawnRect(r geom.Rect) {
	e.areaKind = SpawnInRect
	e.area = r
}

func (e *NPCSpawnEvent) SetSpawnCircle(c geom.Circle) {
	e.areaKind = SpawnInCircle
	e.circle = c
}

// SetProximityTrigger spawns only while the player is within radius of
// the spawn area center.
func (e *NPCSpawnEvent) SetProximityTrigger(radius float32) { e.triggerRadius = radius }

func (e *NPCSpawnEvent) SetTimeOfDay(start, end float32) {
	e.startHour, e.endHour = start, end
}

func (e *NPCSpawnEvent) SetHourSource(fn func() float32) { e.hourFn = fn }

// SetRespawn re-arms the event every interval seconds, keeping at most
// maxAlive spawned entities live (0 = unlimited).
func (e *NPCSpawnEvent) SetRespawn(interval float32, maxAlive int) {
	e.respawnInterval = interval
	e.maxAlive = maxAlive
}

// SetWorld injects the entity sink. Without it Execute records positions
// but spawns nothing.
func (e *NPCSpawnEvent) SetWorld(w entity.World) { e.world = w }

func (e *NPCSpawnEvent) areaCenter() geom.Vector2D {
	switch e.areaKind {
	case SpawnInRect:
		return geom.Vector2D{X: e.area.X + e.area.W/2, Y: e.area.Y + e.area.H/2}
	case SpawnInCircle:
		return e.circle.Center
	default:
		if len(e.points) > 0 {
			return e.points[0]
		}
		return geom.Vector2D{}
	}
}

// TickTimers advances the respawn cadence. Called with the frame delta.
func (e *NPCSpawnEvent) TickTimers(dt float32) {
	if e.respawnInterval > 0 {
		e.sinceLastSpawn += dt
	}
}

func (e *NPCSpawnEvent) CheckConditions() bool {
	if e.startHour >= 0 && e.endHour >= 0 {
		if e.hourFn == nil {
			return false
		}
		h := e.hourFn()
		if e.startHour <= e.endHour {
			if h < e.startHour || h > e.endHour {
				return false
			}
		} else if h < e.startHour && h > e.endHour {
			return false
		}
	}
	if e.triggerRadius > 0 {
		if e.world == nil {
			return false
		}
		if e.world.PlayerPosition().DistanceTo(e.areaCenter()) > e.triggerRadius {
			return false
		}
	}
	if e.respawnInterval > 0 {
		if e.sinceLastSpawn < e.respawnInterval && len(e.spawned) > 0 {
			return false
		}
	}
	if e.maxAlive > 0 && e.AliveCount() >= e.maxAlive {
		return false
	}
	return true
}

// Update prunes dropped entity references.
func (e *NPCSpawnEvent) Update() {
	e.pruneDead()
}

func (e *NPCSpawnEvent) Execute() {
	e.pruneDead()
	e.lastPositions = e.lastPositions[:0]

	n := e.params.Count
	if e.maxAlive > 0 {
		if room := e.maxAlive - len(e.spawned); room < n {
			n = room
		}
	}
	for i := 0; i < n; i++ {
		pos := e.samplePosition(i)
		e.lastPositions = append(e.lastPositions, pos)
		if e.world == nil {
			continue
		}
		if ref := e.world.CreateNPC(e.params.NPCType, pos, 0, 0); ref != nil {
			e.spawned = append(e.spawned, ref)
		}
	}
	e.sinceLastSpawn = 0
	e.MarkTriggered()
}

func (e *NPCSpawnEvent) samplePosition(i int) geom.Vector2D {
	var pos geom.Vector2D
	switch e.areaKind {
	case SpawnAtPoints:
		if len(e.points) > 0 {
			pos = e.points[i%len(e.points)]
		}
	case SpawnInRect:
		pos = geom.Vector2D{
			X: e.area.X + rand.Float32()*e.area.W,
			Y: e.area.Y + rand.Float32()*e.area.H,
		}
	case SpawnInCircle:
		// uniform over the disk
		r := e.circle.Radius * float32(math.Sqrt(float64(rand.Float32())))
		theta := rand.Float64() * 2 * math.Pi
		pos = geom.Vector2D{
			X: e.circle.Center.X + r*float32(math.Cos(theta)),
			Y: e.circle.Center.Y + r*float32(math.Sin(theta)),
		}
	}
	if e.params.SpawnRadius > 0 {
		pos.X += (rand.Float32()*2 - 1) * e.params.SpawnRadius
		pos.Y += (rand.Float32()*2 - 1) * e.params.SpawnRadius
	}
	return pos
}

func (e *NPCSpawnEvent) pruneDead() {
	kept := e.spawned[:0]
	for _, ref := range e.spawned {
		if ref.Alive() {
			kept = append(kept, ref)
		}
	}
	e.spawned = kept
}

// AliveCount reports live spawned entities.
func (e *NPCSpawnEvent) AliveCount() int {
	e.pruneDead()
	return len(e.spawned)
}

// LastSpawnPositions returns the positions of the latest wave.
func (e *NPCSpawnEvent) LastSpawnPositions() []geom.Vector2D { return e.lastPositions }

func (e *NPCSpawnEvent) Reset() {
	e.Base.Reset()
	e.sinceLastSpawn = 0
}

// Clean drops all tracked references. Spawned entities stay with their
// owner; a world reload clears them through this path.
func (e *NPCSpawnEvent) Clean() {
	e.spawned = nil
	e.lastPositions = nil
}

// OnMessage understands "spawn" (force a wave) and "clear" (drop refs).
func (e *NPCSpawnEvent) OnMessage(msg string) {
	switch msg {
	case "spawn":
		e.Execute()
	case "clear":
		e.Clean()
	}
}
