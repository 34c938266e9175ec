package editor

import (
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// DeleteSelection removes every currently selected entity from the map,
// clearing the selection first so the operation's ending selection
// memento is simply empty, then records and ends an ActionDelete
// operation. Returns the count of entities removed.
func (s *Session) DeleteSelection() int {
	entries := s.Selection.Bucket().GetAllEntries()
	if len(entries) == 0 {
		return 0
	}
	before := s.Selection.CreateSnapshot()
	s.History.BeginOperation("Delete Selection", history.ActionDelete, &before)

	byPos := make(map[spatial.Position][]selection.Entry)
	for _, e := range entries {
		byPos[e.Position] = append(byPos[e.Position], e)
	}
	for pos := range byPos {
		s.History.RecordTileBefore(s.Map.GetTile(pos), pos)
	}

	s.Selection.Clear()

	removed := 0
	for pos, ids := range byPos {
		t := s.Map.GetTile(pos)
		if t == nil {
			continue
		}
		removed += removeEntities(s.Map, t, pos, ids)
		if t.IsEmpty() {
			s.Map.RemoveTile(pos)
		}
	}

	after := s.Selection.CreateSnapshot()
	s.History.EndOperation(s.Map, &after)
	if removed > 0 {
		s.MarkDirty()
	}
	return removed
}

func removeEntities(m *worldmap.ChunkedMap, t *tile.Tile, pos spatial.Position, ids []selection.Entry) int {
	removed := 0
	for _, id := range ids {
		switch id.Kind {
		case tile.EntityGround:
			if t.RemoveGround() != nil {
				removed++
			}
		case tile.EntityItem:
			if extractItemByHandle(t, id.LocalID) != nil {
				removed++
			}
		case tile.EntityCreature:
			if t.RemoveCreature() != nil {
				removed++
			}
		case tile.EntitySpawn:
			if t.Spawn != nil {
				t.RemoveSpawn()
				m.NotifySpawnChange(pos, false)
				removed++
			}
		}
	}
	return removed
}
