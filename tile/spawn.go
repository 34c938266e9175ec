package tile

import "github.com/kolvynathar/tilemapcore/spatial"

// Spawn marks a tile as the center of a creature spawn region. Creatures
// are not members of a spawn in memory; membership is computed at save
// time by scanning tiles within Radius on the same floor (§4.3.4).
type Spawn struct {
	Center   spatial.Position
	Radius   int32

	// Selected is a visual-only highlight flag, same contract as
	// Creature.Selected.
	Selected bool
}

// Clone returns an independent copy of the spawn.
func (s *Spawn) Clone() *Spawn {
	cp := *s
	return &cp
}

// Contains reports whether pos lies within the spawn's radius on the same
// floor as the spawn's center. Distance is Chebyshev (square radius),
// matching the tile-grid "radius in tiles" semantics used by the editor's
// brush and save-time enumeration.
func (s *Spawn) Contains(pos spatial.Position) bool {
	if pos.Z != s.Center.Z {
		return false
	}
	dx := pos.X - s.Center.X
	dy := pos.Y - s.Center.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= s.Radius && dy <= s.Radius
}
