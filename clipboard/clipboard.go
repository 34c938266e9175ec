// Package clipboard holds the copy buffer data type and the service that
// populates it from (and removes from) a map selection (§3 CopyBuffer,
// §4.9 ClipboardService).
package clipboard

import (
	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Entry is one (relative_position, owned Tile) pair in a CopyBuffer.
type Entry struct {
	RelPos spatial.Position
	Tile   *tile.Tile
}

// Buffer is an ordered collection of copied tiles, relative to the
// (min_x, min_y, min_z) origin of the source selection at copy time.
type Buffer struct {
	Entries []Entry
}

// Count returns the number of tiles in the buffer.
func (b *Buffer) Count() int { return len(b.Entries) }

// Service copies and cuts selections into a Buffer it owns.
type Service struct {
	buf Buffer
}

// NewService returns a clipboard service with an empty buffer.
func NewService() *Service { return &Service{} }

// Buffer exposes the current copy buffer for paste/preview consumption.
func (s *Service) Buffer() *Buffer { return &s.buf }

// Copy populates the buffer from sel's current selection against m, and
// returns the number of tiles copied. An empty selection copies nothing.
//
// The copy is decided per selected position. Where the selected entries
// cover every entity on the source tile, the buffer receives a deep clone
// of that tile. Otherwise a fresh tile carrying the source's Flags and
// HouseID receives exactly the selected entities: a Ground entry fills the
// ground slot, stacked items go through the sorting add, and the creature
// and spawn are set directly.
func (s *Service) Copy(m *worldmap.ChunkedMap, sel *selection.Service, classifier tile.ItemClassifier) int {
	entries := sel.Bucket().GetAllEntries()
	if len(entries) == 0 {
		return 0
	}
	origin := sel.Bucket().GetMinBound()
	byPos := groupByPosition(entries)

	s.buf = Buffer{}
	for pos, ids := range byPos {
		src := m.GetTile(pos)
		if src == nil {
			continue
		}
		cloned := copyTileEntities(src, ids, classifier)
		if cloned == nil {
			continue
		}
		rel := spatial.New(pos.X-origin.X, pos.Y-origin.Y, pos.Z-origin.Z)
		s.buf.Entries = append(s.buf.Entries, Entry{RelPos: rel, Tile: cloned})
	}
	return len(s.buf.Entries)
}

// Cut copies, then removes exactly what was copied from m, clears sel,
// and returns the count copied.
func (s *Service) Cut(m *worldmap.ChunkedMap, sel *selection.Service, classifier tile.ItemClassifier) int {
	n := s.Copy(m, sel, classifier)
	if n == 0 {
		return 0
	}
	entries := sel.Bucket().GetAllEntries()
	byPos := groupByPosition(entries)
	for pos, ids := range byPos {
		removeTileEntities(m, pos, ids)
	}
	sel.Clear()
	return n
}

func groupByPosition(entries []selection.Entry) map[spatial.Position][]selection.Entry {
	out := make(map[spatial.Position][]selection.Entry)
	for _, e := range entries {
		out[e.Position] = append(out[e.Position], e)
	}
	return out
}

// copyTileEntities builds the tile to store in the buffer for one source
// position, given the subset of entity ids selected there.
func copyTileEntities(src *tile.Tile, ids []selection.Entry, classifier tile.ItemClassifier) *tile.Tile {
	if allOfTile(src, ids) {
		return src.Clone()
	}
	out := tile.NewTile(src.Position)
	out.Flags = src.Flags
	out.HouseID = src.HouseID
	for _, id := range ids {
		switch id.Kind {
		case tile.EntityGround:
			if src.Ground != nil {
				out.SetGround(src.Ground.Clone())
			}
		case tile.EntityItem:
			if it := findItemByHandle(src, id.LocalID); it != nil {
				out.AddItem(it.Clone(), classifier)
			}
		case tile.EntityCreature:
			if src.Creature != nil {
				out.SetCreature(src.Creature.Clone())
			}
		case tile.EntitySpawn:
			if src.Spawn != nil {
				out.SetSpawn(src.Spawn.Clone())
			}
		}
	}
	return out
}

// allOfTile reports whether ids cover every entity actually present on
// src, meaning a tile-granular deep clone is equivalent to (and simpler
// than) an entity-granular rebuild.
func allOfTile(src *tile.Tile, ids []selection.Entry) bool {
	want := 0
	if src.Ground != nil {
		want++
	}
	want += len(src.Items)
	if src.Creature != nil {
		want++
	}
	if src.Spawn != nil {
		want++
	}
	return len(ids) == want && want > 0
}

func findItemByHandle(t *tile.Tile, handle uint64) *tile.Item {
	for _, it := range t.Items {
		if it.Handle() == handle {
			return it
		}
	}
	return nil
}

// removeTileEntities removes exactly the selected entities at pos from m,
// mirroring copyTileEntities's branch so Cut removes precisely what Copy
// captured.
func removeTileEntities(m *worldmap.ChunkedMap, pos spatial.Position, ids []selection.Entry) {
	t := m.GetTile(pos)
	if t == nil {
		return
	}
	if allOfTile(t, ids) {
		m.RemoveTile(pos)
		return
	}
	for _, id := range ids {
		switch id.Kind {
		case tile.EntityGround:
			t.RemoveGround()
		case tile.EntityItem:
			removeItemByHandle(t, id.LocalID)
		case tile.EntityCreature:
			t.RemoveCreature()
		case tile.EntitySpawn:
			if t.Spawn != nil {
				t.RemoveSpawn()
				m.NotifySpawnChange(pos, false)
			}
		}
	}
	if t.IsEmpty() {
		m.RemoveTile(pos)
	}
}

func removeItemByHandle(t *tile.Tile, handle uint64) {
	for i, it := range t.Items {
		if it.Handle() == handle {
			t.RemoveItemAt(i)
			return
		}
	}
}
