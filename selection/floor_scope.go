package selection

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// FloorScope controls how many floors a selection operation spans relative
// to the editor's current floor.
type FloorScope uint8

const (
	CurrentFloor FloorScope = iota
	AllFloors
	VisibleFloors
)

// visibleFloorSpan is how many floors below the current one stay rendered
// while underground (current floor below ground level): current+2,
// clamped to the lowest floor.
const visibleFloorSpan = 2

// GetFloorRange resolves scope against currentFloor into a (startZ, endZ)
// pair describing the floors a draw/select pass should touch, in the
// engine's own draw order (not necessarily startZ <= endZ — callers that
// need an iteration range normalize by swapping). CurrentFloor always
// yields (z, z). AllFloors always starts from the lowest floor down to
// the current one. VisibleFloors mirrors the renderer's ghosting rule: at
// or above ground level, from ground down to the current floor; below
// ground, from two floors deeper (clamped) up to the current floor.
func GetFloorRange(scope FloorScope, currentFloor int16) (startZ, endZ int16) {
	switch scope {
	case AllFloors:
		return spatial.FloorMax, currentFloor
	case VisibleFloors:
		if currentFloor <= spatial.FloorGround {
			return spatial.FloorGround, currentFloor
		}
		end := currentFloor + visibleFloorSpan
		if end > spatial.FloorMax {
			end = spatial.FloorMax
		}
		return end, currentFloor
	default:
		return currentFloor, currentFloor
	}
}

// SelectTileAcrossFloors selects the full entity stack at pos.X/pos.Y on
// every floor scope covers (relative to pos.Z as the current floor),
// emitting a single notification.
func (s *Service) SelectTileAcrossFloors(m *worldmap.ChunkedMap, pos spatial.Position, scope FloorScope) {
	startZ, endZ := GetFloorRange(scope, pos.Z)
	s.mapForSync = mapBorrow{m}
	var added []Entry
	lo, hi := startZ, endZ
	if lo > hi {
		lo, hi = hi, lo
	}
	for z := lo; z <= hi; z++ {
		p := spatial.Position{X: pos.X, Y: pos.Y, Z: z}
		for _, e := range entriesForTile(m, p, FilterAll()) {
			if s.bucket.Add(e) {
				added = append(added, e)
				s.syncVisualState(e, true)
			}
		}
	}
	s.notifyChanged(added, nil)
}
