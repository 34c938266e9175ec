package tile

import "github.com/kolvynathar/tilemapcore/spatial"

// Outfit is the visual appearance of a creature. The concrete sprite/layer
// resolution lives in the GPU rendering pipeline (out of scope here); the
// core only stores the identifying fields the client needs to draw one.
type Outfit struct {
	LookType   uint16
	Head       uint8
	Body       uint8
	Legs       uint8
	Feet       uint8
	Addons     uint8
	Mount      uint16
}

// Creature is a named entity occupying at most one tile.
type Creature struct {
	Name      string
	SpawnTime uint16 // seconds
	Direction spatial.Direction
	Outfit    Outfit
	Position  spatial.Position

	// Selected is a visual-only highlight flag kept in lock-step with
	// selection-service membership; it has no bearing on persistence.
	Selected bool
}

// Clone returns an independent copy of the creature.
func (c *Creature) Clone() *Creature {
	cp := *c
	return &cp
}
