package event

import "github.com/emberforge/engine/internal/geom"

// Carrier events. These hold before/after values for handler consumption
// and have no internal logic of their own.

// WorldEventKind distinguishes the world lifecycle notifications.
type WorldEventKind uint8

const (
	WorldLoaded WorldEventKind = iota
	WorldUnloaded
	WorldGenerated
	TileChanged
)

// WorldEvent reports world lifecycle and tile mutations.
type WorldEvent struct {
	Base
	Kind           WorldEventKind
	WorldID        string
	Width          int
	Height         int
	TileX          int
	TileY          int
	ChangeType     string
	GenerationTime float32 // seconds, WorldGenerated only
}

func NewWorldEvent(name string, kind WorldEventKind) *WorldEvent {
	return &WorldEvent{Base: NewBase(name, TypeWorld), Kind: kind}
}

// CameraEventKind distinguishes camera notifications.
type CameraEventKind uint8

const (
	CameraMoved CameraEventKind = iota
	CameraModeChanged
	CameraShakeStarted
	CameraShakeEnded
	CameraTargetChanged
)

// CameraEvent reports camera movement, mode changes, and shake phases.
type CameraEvent struct {
	Base
	Kind           CameraEventKind
	NewPosition    geom.Vector2D
	OldPosition    geom.Vector2D
	NewMode        int
	OldMode        int
	ShakeDuration  float32
	ShakeIntensity float32
	NewTargetID    uint64
	OldTargetID    uint64
}

func NewCameraEvent(name string, kind CameraEventKind) *CameraEvent {
	return &CameraEvent{Base: NewBase(name, TypeCamera), Kind: kind}
}

// CombatEvent reports a resolved attack.
type CombatEvent struct {
	Base
	AttackerID      uint64
	TargetID        uint64
	Damage          float32
	RemainingHealth float32
	Critical        bool
}

func NewCombatEvent(name string) *CombatEvent {
	return &CombatEvent{Base: NewBase(name, TypeCombat)}
}

// CollisionEvent reports a contact between two entities.
type CollisionEvent struct {
	Base
	EntityA     uint64
	EntityB     uint64
	Point       geom.Vector2D
	Normal      geom.Vector2D
	Penetration float32
	Trigger     bool // overlap with a trigger volume, not a solid contact
}

func NewCollisionEvent(name string) *CollisionEvent {
	return &CollisionEvent{Base: NewBase(name, TypeCollision)}
}

// ResourceChangeEvent reports an inventory or world-resource quantity
// change.
type ResourceChangeEvent struct {
	Base
	OwnerID     uint64
	ResourceID  string
	OldQuantity int
	NewQuantity int
	Reason      string
}

func NewResourceChangeEvent(name string, ownerID uint64, resourceID string, oldQty, newQty int, reason string) *ResourceChangeEvent {
	return &ResourceChangeEvent{
		Base:        NewBase(name, TypeResourceChange),
		OwnerID:     ownerID,
		ResourceID:  resourceID,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		Reason:      reason,
	}
}

// Delta is the signed quantity change.
func (e *ResourceChangeEvent) Delta() int { return e.NewQuantity - e.OldQuantity }

// HarvestEvent reports a resource node being harvested.
type HarvestEvent struct {
	Base
	HarvesterID uint64
	ResourceID  string
	Amount      int
	Position    geom.Vector2D
}

func NewHarvestEvent(name string) *HarvestEvent {
	return &HarvestEvent{Base: NewBase(name, TypeHarvest)}
}
