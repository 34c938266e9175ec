// Package worldmap holds the sparse chunked tile store: the mutable
// document a session edits, the codec reads into, and history restores
// tiles onto.
package worldmap

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

// chunkEdge is the power-of-two number of tiles along one side of a chunk.
const chunkEdge = 32

// Chunk is a fixed-size 2D block of tiles on one floor, storing tiles
// sparsely by local row-major index. It carries a dirty bit that its
// tiles propagate into via Tile.SetParentChunk, and a non-owning back
// pointer to the map that owns it so tile-level mutations can reach
// map-level change observers.
type Chunk struct {
	CX, CY int32
	Z      int16

	tiles map[int]*tile.Tile
	dirty bool
	owner *ChunkedMap
}

func newChunk(cx, cy int32, z int16, owner *ChunkedMap) *Chunk {
	return &Chunk{CX: cx, CY: cy, Z: z, tiles: make(map[int]*tile.Tile), owner: owner}
}

// MarkTileDirty implements the notifier interface Tile mutations call
// into. It flags the chunk dirty and forwards the position to any
// map-level observers (e.g. the minimap texture cache).
func (c *Chunk) MarkTileDirty(pos spatial.Position) {
	c.dirty = true
	if c.owner != nil {
		c.owner.notifyTileDirty(pos)
	}
}

// IsDirty reports whether any tile in the chunk has changed since the last
// ClearDirty.
func (c *Chunk) IsDirty() bool { return c.dirty }

// ClearDirty resets the chunk's dirty bit.
func (c *Chunk) ClearDirty() { c.dirty = false }

// TileCount returns the number of non-empty tile slots stored in the chunk.
func (c *Chunk) TileCount() int { return len(c.tiles) }

func localIndex(x, y int32) int {
	lx := int(floorMod(x, chunkEdge))
	ly := int(floorMod(y, chunkEdge))
	return ly*chunkEdge + lx
}

func floorMod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func chunkCoords(x, y int32) (cx, cy int32) {
	return floorDiv(x, chunkEdge), floorDiv(y, chunkEdge)
}
