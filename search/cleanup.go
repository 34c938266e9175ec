package search

import (
	"github.com/kolvynathar/tilemapcore/itemdb"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// CleanupProgress reports a cleanup pass's running totals. Callers
// wanting a responsive UI during a long pass poll this from the
// onProgress callback each pass accepts;
// the pass itself never yields.
type CleanupProgress struct {
	ItemsRemoved   int
	TilesProcessed int
	TotalTiles     int
}

// MapCleanupService performs direct, NOT undoable bulk mutations over a
// map. Every pass iterates a tile's items backwards when removing, so a
// removal never invalidates the index of an item still to be visited
// (§4.10).
type MapCleanupService struct {
	Table *itemdb.Table
}

// NewMapCleanupService returns a cleanup service bound to table.
func NewMapCleanupService(table *itemdb.Table) *MapCleanupService {
	return &MapCleanupService{Table: table}
}

// CleanInvalidItems drops every ground/stacked item whose server_id has
// no descriptor in the bound table. Direct mutation, not undoable.
func (c *MapCleanupService) CleanInvalidItems(m *worldmap.ChunkedMap, onProgress func(CleanupProgress)) CleanupProgress {
	total := countTiles(m)
	var p CleanupProgress
	p.TotalTiles = total
	m.ForEachTileMutable(func(t *tile.Tile) {
		p.TilesProcessed++
		if t.Ground != nil {
			if _, ok := c.Table.Lookup(t.Ground.ServerID); !ok {
				t.RemoveGround()
				p.ItemsRemoved++
			}
		}
		for i := len(t.Items) - 1; i >= 0; i-- {
			if _, ok := c.Table.Lookup(t.Items[i].ServerID); !ok {
				t.RemoveItemAt(i)
				p.ItemsRemoved++
			}
		}
		if onProgress != nil {
			onProgress(p)
		}
	})
	return p
}

// CleanHouseItems drops every stacked item on a house tile (HouseID != 0)
// whose descriptor marks it moveable. Direct mutation, not undoable.
func (c *MapCleanupService) CleanHouseItems(m *worldmap.ChunkedMap, onProgress func(CleanupProgress)) CleanupProgress {
	total := countTiles(m)
	var p CleanupProgress
	p.TotalTiles = total
	m.ForEachTileMutable(func(t *tile.Tile) {
		p.TilesProcessed++
		if t.HouseID != 0 {
			for i := len(t.Items) - 1; i >= 0; i-- {
				desc, ok := c.Table.Lookup(t.Items[i].ServerID)
				if ok && desc.Moveable {
					t.RemoveItemAt(i)
					p.ItemsRemoved++
				}
			}
		}
		if onProgress != nil {
			onProgress(p)
		}
	})
	return p
}

// RemoveItemsByID drops every ground/stacked item matching serverID
// anywhere on the map. Direct mutation, not undoable.
func (c *MapCleanupService) RemoveItemsByID(m *worldmap.ChunkedMap, serverID uint16, onProgress func(CleanupProgress)) CleanupProgress {
	total := countTiles(m)
	var p CleanupProgress
	p.TotalTiles = total
	m.ForEachTileMutable(func(t *tile.Tile) {
		p.TilesProcessed++
		if t.Ground != nil && t.Ground.ServerID == serverID {
			t.RemoveGround()
			p.ItemsRemoved++
		}
		for i := len(t.Items) - 1; i >= 0; i-- {
			if t.Items[i].ServerID == serverID {
				t.RemoveItemAt(i)
				p.ItemsRemoved++
			}
		}
		if onProgress != nil {
			onProgress(p)
		}
	})
	return p
}

func countTiles(m *worldmap.ChunkedMap) int {
	n := 0
	m.ForEachTile(func(*tile.Tile) { n++ })
	return n
}
