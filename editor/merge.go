package editor

import (
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// MergeMode selects how MergeMap combines an incoming map into the
// session's map at a given offset.
type MergeMode uint8

const (
	// MergeOverwrite replaces every destination tile that the incoming
	// map touches with a clone of the incoming tile, discarding whatever
	// was there.
	MergeOverwrite MergeMode = iota
	// MergeCombine adds every incoming tile's items onto the destination
	// tile, growing its stack rather than replacing it; a destination
	// ground, creature or spawn already present blocks the incoming one
	// from landing, exactly like MoveSelection's collision rule.
	MergeCombine
)

// MergeMap copies every tile of other into the session's map, offset by
// (dx, dy, dz), under mode, as a single ActionOther history operation.
// other is read-only; its tiles are cloned, never aliased, into the
// destination. Tiles whose destination floor falls outside
// [FloorMin, FloorMax] are skipped.
func (s *Session) MergeMap(other *worldmap.ChunkedMap, dx, dy, dz int32, mode MergeMode) int {
	var touched []spatial.Position
	other.ForEachTile(func(t *tile.Tile) {
		if z := int32(t.Position.Z) + dz; z < int32(spatial.FloorMin) || z > int32(spatial.FloorMax) {
			return
		}
		touched = append(touched, spatial.New(t.Position.X+dx, t.Position.Y+dy, t.Position.Z+int16(dz)))
	})
	if len(touched) == 0 {
		return 0
	}

	s.History.BeginOperation("Merge", history.ActionOther, nil)
	for _, pos := range touched {
		s.History.RecordTileBefore(s.Map.GetTile(pos), pos)
	}

	merged := 0
	other.ForEachTile(func(src *tile.Tile) {
		if z := int32(src.Position.Z) + dz; z < int32(spatial.FloorMin) || z > int32(spatial.FloorMax) {
			return
		}
		dest := spatial.New(src.Position.X+dx, src.Position.Y+dy, src.Position.Z+int16(dz))
		switch mode {
		case MergeOverwrite:
			s.Map.SetTile(dest, src.Clone())
		case MergeCombine:
			combineTile(s.Map.GetOrCreateTile(dest), src, s.Map, dest, s.Classifier)
		}
		merged++
	})

	s.History.EndOperation(s.Map, nil)
	if merged > 0 {
		s.MarkDirty()
	}
	return merged
}

// combineTile folds src's content onto dest in place, cloning every
// entity so dest never aliases other's storage.
func combineTile(dest *tile.Tile, src *tile.Tile, m *worldmap.ChunkedMap, destPos spatial.Position, classifier tile.ItemClassifier) {
	dest.Flags |= src.Flags
	if src.HouseID != 0 {
		dest.HouseID = src.HouseID
	}
	if src.Ground != nil && dest.Ground == nil {
		dest.SetGround(src.Ground.Clone())
	}
	for _, it := range src.Items {
		dest.AddItem(it.Clone(), classifier)
	}
	if src.Creature != nil && dest.Creature == nil {
		c := src.Creature.Clone()
		c.Position = destPos
		dest.SetCreature(c)
	}
	if src.Spawn != nil && dest.Spawn == nil {
		sp := src.Spawn.Clone()
		sp.Center = destPos
		dest.SetSpawn(sp)
		m.NotifySpawnChange(destPos, true)
	}
}
