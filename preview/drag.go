package preview

import (
	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// DragPreviewProvider ghosts a drag-move gesture: the entities captured
// from the selection at drag-start, offset by the cursor's displacement
// from the drag's origin tile (§4.8).
type DragPreviewProvider struct {
	origin   spatial.Position
	cursor   spatial.Position
	snapshot []dragEntity
	tiles    []TileData
	bounds   Bounds
	dirty    bool
}

type dragEntity struct {
	relPos spatial.Position
	item   PreviewItem
	isItem bool
	hasCreature bool
	creatureName string
	hasSpawn bool
	spawnRadius int32
}

// NewDragPreviewProvider snapshots every entity currently selected in sel
// (read from m) relative to origin, the tile under the cursor when the
// drag began. A selected Ground entry pulls only the tile's ground item;
// stacked items are not pulled through it. A specific Item/Creature/Spawn
// entry pulls only that one entity.
func NewDragPreviewProvider(m *worldmap.ChunkedMap, sel *selection.Service, origin spatial.Position) *DragPreviewProvider {
	p := &DragPreviewProvider{origin: origin, cursor: origin, dirty: true}
	entries := sel.Bucket().GetAllEntries()
	byPos := make(map[spatial.Position][]selection.Entry)
	for _, e := range entries {
		byPos[e.Position] = append(byPos[e.Position], e)
	}
	for pos, ids := range byPos {
		t := m.GetTile(pos)
		if t == nil {
			continue
		}
		rel := spatial.New(pos.X-origin.X, pos.Y-origin.Y, pos.Z-origin.Z)
		for _, id := range ids {
			switch id.Kind {
			case tile.EntityGround:
				if t.Ground != nil {
					p.snapshot = append(p.snapshot, dragEntity{relPos: rel, item: PreviewItem{ServerID: t.Ground.ServerID}, isItem: true})
				}
			case tile.EntityItem:
				for _, it := range t.Items {
					if it.Handle() == id.LocalID {
						p.snapshot = append(p.snapshot, dragEntity{relPos: rel, item: PreviewItem{ServerID: it.ServerID, Subtype: it.Data.Count}, isItem: true})
					}
				}
			case tile.EntityCreature:
				if t.Creature != nil {
					p.snapshot = append(p.snapshot, dragEntity{relPos: rel, hasCreature: true, creatureName: t.Creature.Name})
				}
			case tile.EntitySpawn:
				if t.Spawn != nil {
					p.snapshot = append(p.snapshot, dragEntity{relPos: rel, hasSpawn: true, spawnRadius: t.Spawn.Radius})
				}
			}
		}
	}
	p.Regenerate()
	return p
}

func (p *DragPreviewProvider) IsActive() bool { return len(p.snapshot) > 0 }

// AnchorPosition is the cursor's current tile; Tiles' RelPos values are
// relative to it, so the ghost tracks the drag displacement.
func (p *DragPreviewProvider) AnchorPosition() spatial.Position { return p.cursor }
func (p *DragPreviewProvider) Tiles() []TileData                { return p.tiles }
func (p *DragPreviewProvider) Bounds() Bounds                     { return p.bounds }
func (p *DragPreviewProvider) Style() Style                       { return StyleGhost }
func (p *DragPreviewProvider) NeedsRegeneration() bool            { return p.dirty }

func (p *DragPreviewProvider) UpdateCursorPosition(pos spatial.Position) {
	p.cursor = pos
	p.dirty = true
}

// Regenerate rebuilds Tiles from the fixed snapshot; the snapshot itself
// never changes mid-drag, only which cursor tile it's anchored at.
func (p *DragPreviewProvider) Regenerate() {
	byRel := make(map[spatial.Position]*TileData)
	var order []spatial.Position
	for _, e := range p.snapshot {
		td, ok := byRel[e.relPos]
		if !ok {
			td = &TileData{RelPos: e.relPos}
			byRel[e.relPos] = td
			order = append(order, e.relPos)
		}
		switch {
		case e.isItem:
			td.Items = append(td.Items, e.item)
		case e.hasCreature:
			td.HasCreature = true
			td.CreatureName = e.creatureName
		case e.hasSpawn:
			td.HasSpawn = true
			td.SpawnRadius = e.spawnRadius
		}
	}
	p.tiles = make([]TileData, 0, len(order))
	var min, max spatial.Position
	for i, rel := range order {
		p.tiles = append(p.tiles, *byRel[rel])
		if i == 0 {
			min, max = rel, rel
			continue
		}
		if rel.X < min.X {
			min.X = rel.X
		}
		if rel.Y < min.Y {
			min.Y = rel.Y
		}
		if rel.X > max.X {
			max.X = rel.X
		}
		if rel.Y > max.Y {
			max.Y = rel.Y
		}
	}
	p.bounds = Bounds{Min: min, Max: max}
	p.dirty = false
}

// Displacement returns the drag's current (dx, dy, dz) offset from its
// origin tile, the vector the editor applies when it commits the move.
func (p *DragPreviewProvider) Displacement() spatial.Position {
	return spatial.New(p.cursor.X-p.origin.X, p.cursor.Y-p.origin.Y, p.cursor.Z-p.origin.Z)
}
