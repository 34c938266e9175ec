package preview

import (
	"github.com/kolvynathar/tilemapcore/clipboard"
	"github.com/kolvynathar/tilemapcore/spatial"
)

// PastePreviewProvider ghosts a clipboard buffer anchored at the cursor,
// following it until the paste is confirmed or canceled (§4.8).
type PastePreviewProvider struct {
	buf    *clipboard.Buffer
	cursor spatial.Position
	tiles  []TileData
	bounds Bounds
	dirty  bool
}

// NewPastePreviewProvider builds a paste preview over buf. buf is held by
// pointer and its entries are read on each Regenerate; after the buffer
// changes, NeedsRegeneration reports true only once MarkDirty is called.
func NewPastePreviewProvider(buf *clipboard.Buffer) *PastePreviewProvider {
	p := &PastePreviewProvider{buf: buf, dirty: true}
	p.Regenerate()
	return p
}

func (p *PastePreviewProvider) IsActive() bool                   { return p.buf != nil && p.buf.Count() > 0 }
func (p *PastePreviewProvider) AnchorPosition() spatial.Position { return p.cursor }
func (p *PastePreviewProvider) Tiles() []TileData                { return p.tiles }
func (p *PastePreviewProvider) Bounds() Bounds                    { return p.bounds }
func (p *PastePreviewProvider) Style() Style                      { return StyleGhost }
func (p *PastePreviewProvider) NeedsRegeneration() bool           { return p.dirty }

func (p *PastePreviewProvider) UpdateCursorPosition(pos spatial.Position) {
	p.cursor = pos
}

// Regenerate rebuilds the ghost tiles from the clipboard buffer's current
// contents. Each entry's relative position becomes the ghost's RelPos;
// item/creature/spawn presence is summarized into PreviewItem/flags
// without cloning full Tile state.
func (p *PastePreviewProvider) Regenerate() {
	if p.buf == nil || p.buf.Count() == 0 {
		p.tiles = nil
		p.bounds = Bounds{}
		p.dirty = false
		return
	}
	tiles := make([]TileData, 0, len(p.buf.Entries))
	min, max := p.buf.Entries[0].RelPos, p.buf.Entries[0].RelPos
	for _, e := range p.buf.Entries {
		td := TileData{RelPos: e.RelPos}
		if e.Tile.Ground != nil {
			td.Items = append(td.Items, PreviewItem{ServerID: e.Tile.Ground.ServerID})
		}
		for _, it := range e.Tile.Items {
			td.Items = append(td.Items, PreviewItem{ServerID: it.ServerID, Subtype: it.Data.Count})
		}
		if e.Tile.Creature != nil {
			td.HasCreature = true
			td.CreatureName = e.Tile.Creature.Name
		}
		if e.Tile.Spawn != nil {
			td.HasSpawn = true
			td.SpawnRadius = e.Tile.Spawn.Radius
		}
		tiles = append(tiles, td)

		if e.RelPos.X < min.X {
			min.X = e.RelPos.X
		}
		if e.RelPos.Y < min.Y {
			min.Y = e.RelPos.Y
		}
		if e.RelPos.X > max.X {
			max.X = e.RelPos.X
		}
		if e.RelPos.Y > max.Y {
			max.Y = e.RelPos.Y
		}
	}
	p.tiles = tiles
	p.bounds = Bounds{Min: min, Max: max}
	p.dirty = false
}

// MarkDirty makes NeedsRegeneration report true, so the next cursor update
// through the preview Service rebuilds from the buffer, for callers that
// mutate the underlying buffer out from under this provider (e.g. a
// re-copy while a paste preview is live).
func (p *PastePreviewProvider) MarkDirty() { p.dirty = true }
