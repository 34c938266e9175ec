package worldmap

import (
	"sort"

	"github.com/brentp/intintmap"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

// Town is a named respawn point recorded in the map's town table.
type Town struct {
	ID     uint32
	Name   string
	Temple spatial.Position
}

// Waypoint is a named navigation marker.
type Waypoint struct {
	Name     string
	Position spatial.Position
}

// Version describes the container's on-disk format version and the item
// description-file version it was authored against.
type Version struct {
	OTBMVersion uint32
	ItemsMajor  uint32
	ItemsMinor  uint32
}

// ChangeObserver is the interface external caches (the minimap texture
// cache, chiefly) implement to learn about map mutations.
type ChangeObserver interface {
	OnTileDirty(pos spatial.Position)
	OnSpawnChange(pos spatial.Position, added bool)
}

// ChunkedMap is a sparse mapping from (chunk_x, chunk_y, z) to chunks, plus
// map-wide metadata. Positions outside (Width, Height) are permitted; they
// simply create chunks outside the declared area, since untouched chunks
// cost nothing (§4.1).
type ChunkedMap struct {
	Width, Height int
	Description   string
	SpawnFile     string
	HouseFile     string
	Towns         []Town
	Waypoints     []Waypoint
	Version       Version

	chunks []*Chunk
	index  *intintmap.Map // packed (cx,cy,z) -> index into chunks

	observers []ChangeObserver
}

// New creates an empty chunked map.
func New() *ChunkedMap {
	return &ChunkedMap{index: intintmap.New(64, 0.75)}
}

func chunkKey(cx, cy int32, z int16) int64 {
	return int64(spatial.Position{X: cx, Y: cy, Z: z}.Pack())
}

func (m *ChunkedMap) getChunk(cx, cy int32, z int16) *Chunk {
	idx, ok := m.index.Get(chunkKey(cx, cy, z))
	if !ok {
		return nil
	}
	return m.chunks[idx]
}

func (m *ChunkedMap) getOrCreateChunk(cx, cy int32, z int16) *Chunk {
	if c := m.getChunk(cx, cy, z); c != nil {
		return c
	}
	c := newChunk(cx, cy, z, m)
	idx := int64(len(m.chunks))
	m.chunks = append(m.chunks, c)
	m.index.Put(chunkKey(cx, cy, z), idx)
	return c
}

// GetTile returns the tile at pos, or nil if none is stored there.
func (m *ChunkedMap) GetTile(pos spatial.Position) *tile.Tile {
	cx, cy := chunkCoords(pos.X, pos.Y)
	c := m.getChunk(cx, cy, pos.Z)
	if c == nil {
		return nil
	}
	return c.tiles[localIndex(pos.X, pos.Y)]
}

// GetOrCreateTile returns the tile at pos, creating an empty one (and its
// chunk, if needed) when absent.
func (m *ChunkedMap) GetOrCreateTile(pos spatial.Position) *tile.Tile {
	cx, cy := chunkCoords(pos.X, pos.Y)
	c := m.getOrCreateChunk(cx, cy, pos.Z)
	li := localIndex(pos.X, pos.Y)
	t := c.tiles[li]
	if t == nil {
		t = tile.NewTile(pos)
		t.SetParentChunk(c)
		c.tiles[li] = t
		c.dirty = true
	}
	return t
}

// SetTile replaces any tile stored at pos with t, adopting t into the
// owning chunk and firing a tile-dirty notification.
func (m *ChunkedMap) SetTile(pos spatial.Position, t *tile.Tile) {
	cx, cy := chunkCoords(pos.X, pos.Y)
	c := m.getOrCreateChunk(cx, cy, pos.Z)
	t.Position = pos
	t.SetParentChunk(c)
	c.tiles[localIndex(pos.X, pos.Y)] = t
	c.dirty = true
	m.notifyTileDirty(pos)
}

// RemoveTile drops the tile stored at pos, if any. The owning chunk is kept
// (possibly empty) rather than evicted; this is transparent to callers.
func (m *ChunkedMap) RemoveTile(pos spatial.Position) {
	cx, cy := chunkCoords(pos.X, pos.Y)
	c := m.getChunk(cx, cy, pos.Z)
	if c == nil {
		return
	}
	li := localIndex(pos.X, pos.Y)
	if _, ok := c.tiles[li]; !ok {
		return
	}
	delete(c.tiles, li)
	c.dirty = true
	m.notifyTileDirty(pos)
}

// ForEachTile visits every stored tile in a deterministic order: chunks
// sorted by (z, chunk_y, chunk_x), tiles within a chunk in row-major order.
func (m *ChunkedMap) ForEachTile(fn func(*tile.Tile)) {
	for _, c := range m.sortedChunks() {
		forEachInChunk(c, fn)
	}
}

// ForEachTileMutable is identical to ForEachTile: tiles are always handled
// by pointer in this engine, so there is no separate read-only iteration
// form to distinguish it from.
func (m *ChunkedMap) ForEachTileMutable(fn func(*tile.Tile)) { m.ForEachTile(fn) }

// ForEachTileOnFloor visits every stored tile on floor z, in the same
// deterministic order as ForEachTile.
func (m *ChunkedMap) ForEachTileOnFloor(z int16, fn func(*tile.Tile)) {
	for _, c := range m.sortedChunks() {
		if c.Z != z {
			continue
		}
		forEachInChunk(c, fn)
	}
}

// ForEachTileOnFloorMutable is identical to ForEachTileOnFloor; see
// ForEachTileMutable.
func (m *ChunkedMap) ForEachTileOnFloorMutable(z int16, fn func(*tile.Tile)) {
	m.ForEachTileOnFloor(z, fn)
}

func (m *ChunkedMap) sortedChunks() []*Chunk {
	out := make([]*Chunk, len(m.chunks))
	copy(out, m.chunks)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.CY != b.CY {
			return a.CY < b.CY
		}
		return a.CX < b.CX
	})
	return out
}

func forEachInChunk(c *Chunk, fn func(*tile.Tile)) {
	keys := make([]int, 0, len(c.tiles))
	for k := range c.tiles {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fn(c.tiles[k])
	}
}

// Subscribe registers an observer for tile-dirty and spawn-change
// notifications. Observers must be unregistered (or must outlive the map)
// per §5's shared-resource contract.
func (m *ChunkedMap) Subscribe(o ChangeObserver) {
	m.observers = append(m.observers, o)
}

// Unsubscribe removes a previously registered observer.
func (m *ChunkedMap) Unsubscribe(o ChangeObserver) {
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

func (m *ChunkedMap) notifyTileDirty(pos spatial.Position) {
	for _, o := range m.observers {
		o.OnTileDirty(pos)
	}
}

// NotifySpawnChange tells observers that a spawn was added or removed at
// pos. Callers that add/remove a Spawn on a tile are responsible for
// calling this explicitly (§4.9 step 2 of moveItems, for instance).
func (m *ChunkedMap) NotifySpawnChange(pos spatial.Position, added bool) {
	for _, o := range m.observers {
		o.OnSpawnChange(pos, added)
	}
}

// ChunkCount returns the number of allocated chunks, including empty ones.
func (m *ChunkedMap) ChunkCount() int { return len(m.chunks) }
