package tile

import "github.com/kolvynathar/tilemapcore/spatial"

// EntityKind is one of the four selectable things a tile can hold.
type EntityKind uint8

const (
	EntityGround EntityKind = iota
	EntityItem
	EntityCreature
	EntitySpawn
)

func (k EntityKind) String() string {
	switch k {
	case EntityGround:
		return "ground"
	case EntityItem:
		return "item"
	case EntityCreature:
		return "creature"
	case EntitySpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// EntityID identifies one selectable entity. LocalID distinguishes stacked
// items (their Item.Handle()) and is 0 for Ground/Creature/Spawn, since at
// most one of each exists per tile.
type EntityID struct {
	Position spatial.Position
	Kind     EntityKind
	LocalID  uint64
}

// Hash combines all three fields into a 64-bit digest suitable as a map key.
func (id EntityID) Hash() uint64 {
	h := id.Position.Hash()
	h = h*1099511628211 ^ uint64(id.Kind)
	h = h*1099511628211 ^ id.LocalID
	return h
}

// GroundID builds the EntityID for the ground slot of a tile.
func GroundID(pos spatial.Position) EntityID {
	return EntityID{Position: pos, Kind: EntityGround}
}

// ItemID builds the EntityID for a stacked item.
func ItemID(pos spatial.Position, handle uint64) EntityID {
	return EntityID{Position: pos, Kind: EntityItem, LocalID: handle}
}

// CreatureID builds the EntityID for a tile's creature.
func CreatureID(pos spatial.Position) EntityID {
	return EntityID{Position: pos, Kind: EntityCreature}
}

// SpawnID builds the EntityID for a tile's spawn.
func SpawnID(pos spatial.Position) EntityID {
	return EntityID{Position: pos, Kind: EntitySpawn}
}
