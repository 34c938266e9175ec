package editor

import (
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// extractedEntity is one entity lifted out of its source tile during
// phase one of a move, waiting to be written into its destination tile
// in phase two.
type extractedEntity struct {
	destPos  spatial.Position
	kind     tile.EntityKind
	item     *tile.Item
	creature *tile.Creature
	spawn    *tile.Spawn
}

// MoveSelection translates every currently selected entity by (dx, dy,
// dz), wrapped in a single undoable ActionMove operation.
//
// Extraction happens in full, across every selected tile, before any
// insertion begins — a two-phase extract/insert rather than a per-tile
// remove-then-place. A one-phase move would corrupt an overlapping
// source/destination footprint (e.g. nudging a multi-tile selection by a
// single step): the first tile's insert would land on a second tile that
// hasn't been read as a source yet, and that second tile's "before" state
// would already include the first tile's moved-in content.
//
// A creature or spawn whose destination tile already holds one of the
// same kind is silently dropped rather than overwritten, matching the
// original editor's move behavior; items and the ground slot always
// land, growing the destination's stack if one is already there.
func (s *Session) MoveSelection(dx, dy, dz int32) int {
	entries := s.Selection.Bucket().GetAllEntries()
	if len(entries) == 0 {
		return 0
	}
	before := s.Selection.CreateSnapshot()
	s.History.BeginOperation("Move", history.ActionMove, &before)

	byPos := make(map[spatial.Position][]selection.Entry)
	for _, e := range entries {
		byPos[e.Position] = append(byPos[e.Position], e)
	}
	for pos := range byPos {
		s.History.RecordTileBefore(s.Map.GetTile(pos), pos)
	}

	extracted := extractEntities(s.Map, byPos, dx, dy, dz)

	for _, ex := range extracted {
		if _, already := byPos[ex.destPos]; already {
			continue
		}
		s.History.RecordTileBefore(s.Map.GetTile(ex.destPos), ex.destPos)
		byPos[ex.destPos] = nil // mark recorded, without claiming a selection entry there
	}

	moved := insertEntities(s.Map, extracted, s.Classifier)
	s.rebuildSelectionAfterMove(extracted)

	after := s.Selection.CreateSnapshot()
	s.History.EndOperation(s.Map, &after)
	if moved > 0 {
		s.MarkDirty()
	}
	return moved
}

// extractEntities removes every selected entity from its source tile and
// returns it tagged with its destination position. Items are removed by
// handle lookup (a linear scan per removal), which is safe regardless of
// removal order within a tile — unlike an index-based removal loop, it
// never needs a descending-index pass to avoid invalidating indices out
// from under a later iteration.
func extractEntities(m *worldmap.ChunkedMap, byPos map[spatial.Position][]selection.Entry, dx, dy, dz int32) []extractedEntity {
	var out []extractedEntity
	for pos, ids := range byPos {
		t := m.GetTile(pos)
		if t == nil {
			continue
		}
		dest := spatial.New(pos.X+dx, pos.Y+dy, pos.Z+int16(dz))
		for _, id := range ids {
			switch id.Kind {
			case tile.EntityGround:
				if g := t.RemoveGround(); g != nil {
					out = append(out, extractedEntity{destPos: dest, kind: tile.EntityGround, item: g})
				}
			case tile.EntityItem:
				if it := extractItemByHandle(t, id.LocalID); it != nil {
					out = append(out, extractedEntity{destPos: dest, kind: tile.EntityItem, item: it})
				}
			case tile.EntityCreature:
				if c := t.RemoveCreature(); c != nil {
					out = append(out, extractedEntity{destPos: dest, kind: tile.EntityCreature, creature: c})
				}
			case tile.EntitySpawn:
				if sp := t.RemoveSpawn(); sp != nil {
					m.NotifySpawnChange(pos, false)
					out = append(out, extractedEntity{destPos: dest, kind: tile.EntitySpawn, spawn: sp})
				}
			}
		}
		if t.IsEmpty() {
			m.RemoveTile(pos)
		}
	}
	return out
}

func extractItemByHandle(t *tile.Tile, handle uint64) *tile.Item {
	for i, it := range t.Items {
		if it.Handle() == handle {
			return t.RemoveItemAt(i)
		}
	}
	return nil
}

// insertEntities writes every extracted entity into its destination
// tile, creating the tile if needed, and returns the count actually
// placed (a dropped creature/spawn collision doesn't count).
func insertEntities(m *worldmap.ChunkedMap, extracted []extractedEntity, classifier tile.ItemClassifier) int {
	placed := 0
	for _, ex := range extracted {
		t := m.GetOrCreateTile(ex.destPos)
		switch ex.kind {
		case tile.EntityGround:
			if t.Ground != nil {
				t.AddItem(ex.item, classifier)
			} else {
				t.SetGround(ex.item)
			}
			placed++
		case tile.EntityItem:
			t.AddItem(ex.item, classifier)
			placed++
		case tile.EntityCreature:
			if t.Creature != nil {
				continue
			}
			ex.creature.Position = ex.destPos
			t.SetCreature(ex.creature)
			placed++
		case tile.EntitySpawn:
			if t.Spawn != nil {
				continue
			}
			ex.spawn.Center = ex.destPos
			t.SetSpawn(ex.spawn)
			m.NotifySpawnChange(ex.destPos, true)
			placed++
		}
	}
	return placed
}

// rebuildSelectionAfterMove replaces the selection with the moved
// entities' new identities: items keep their handle (so the same Item
// pointer's new position is selected), ground/creature/spawn select by
// kind at the destination tile.
func (s *Session) rebuildSelectionAfterMove(extracted []extractedEntity) {
	s.Selection.Clear()
	for _, ex := range extracted {
		switch ex.kind {
		case tile.EntityGround:
			s.Selection.AddEntity(s.Map, tile.GroundID(ex.destPos))
		case tile.EntityItem:
			s.Selection.AddEntity(s.Map, tile.ItemID(ex.destPos, ex.item.Handle()))
		case tile.EntityCreature:
			s.Selection.AddEntity(s.Map, tile.CreatureID(ex.destPos))
		case tile.EntitySpawn:
			s.Selection.AddEntity(s.Map, tile.SpawnID(ex.destPos))
		}
	}
}
