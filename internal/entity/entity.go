// Package entity defines the boundary to the entity/world subsystem. The
// core only queries positions and requests NPC creation; behavior, AI and
// lifetime belong to the owner of the World implementation.
package entity

import "github.com/emberforge/engine/internal/geom"

// Ref is a non-owning handle to a spawned entity. Alive turning false
// means the external owner dropped it; holders prune such refs.
type Ref interface {
	ID() uint64
	Position() geom.Vector2D
	Alive() bool
}

// World is the entity-query sink consumed by spawn events and combat
// controllers.
type World interface {
	// QueryEntitiesInRadius appends entities within radius of center to
	// out and returns the extended slice.
	QueryEntitiesInRadius(center geom.Vector2D, radius float32, out []Ref, includeInactive bool) []Ref
	PlayerPosition() geom.Vector2D
	// CreateNPC instantiates an entity of the given type at pos. Returns
	// nil when the world cannot spawn (no world loaded, cap reached).
	CreateNPC(npcType string, pos geom.Vector2D, frameW, frameH int) Ref
}
