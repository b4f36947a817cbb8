package entity

import (
	"sync"
	"sync/atomic"

	"github.com/emberforge/engine/internal/geom"
)

// FakeWorld is an in-memory World used by tests and the demo binary.
type FakeWorld struct {
	mu       sync.Mutex
	player   geom.Vector2D
	entities []*FakeRef
	nextID   atomic.Uint64
}

type FakeRef struct {
	id    uint64
	Pos   geom.Vector2D
	Type  string
	alive atomic.Bool
}

func (r *FakeRef) ID() uint64              { return r.id }
func (r *FakeRef) Position() geom.Vector2D { return r.Pos }
func (r *FakeRef) Alive() bool             { return r.alive.Load() }
func (r *FakeRef) Kill()                   { r.alive.Store(false) }

func NewFakeWorld() *FakeWorld { return &FakeWorld{} }

func (w *FakeWorld) SetPlayerPosition(p geom.Vector2D) {
	w.mu.Lock()
	w.player = p
	w.mu.Unlock()
}

func (w *FakeWorld) PlayerPosition() geom.Vector2D {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.player
}

func (w *FakeWorld) QueryEntitiesInRadius(center geom.Vector2D, radius float32, out []Ref, includeInactive bool) []Ref {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range w.entities {
		if !includeInactive && !e.Alive() {
			continue
		}
		if center.DistanceTo(e.Pos) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (w *FakeWorld) CreateNPC(npcType string, pos geom.Vector2D, frameW, frameH int) Ref {
	r := &FakeRef{id: w.nextID.Add(1), Pos: pos, Type: npcType}
	r.alive.Store(true)
	w.mu.Lock()
	w.entities = append(w.entities, r)
	w.mu.Unlock()
	return r
}

// SpawnedCount reports live entities, for assertions.
func (w *FakeWorld) SpawnedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, e := range w.entities {
		if e.Alive() {
			n++
		}
	}
	return n
}
