package preview

import (
	"github.com/kolvynathar/tilemapcore/brush"
	"github.com/kolvynathar/tilemapcore/spatial"
)

// shapeCache is embedded in every settings-driven provider: it detects a
// brush-settings change by comparing the cached offset fingerprint rather
// than deep-comparing the offset slice itself (§4.7). Providers are held
// by pointer everywhere they're constructed, but shapeCache itself is
// embedded by value and copied freely before a provider settles into its
// final address (e.g. struct-literal construction), so it relies solely
// on the fingerprint comparison rather than a settings-registered
// callback closing over a since-copied receiver.
type shapeCache struct {
	settings    *brush.SettingsService
	fingerprint uint64
	cursor      spatial.Position
}

func newShapeCache(settings *brush.SettingsService) shapeCache {
	return shapeCache{settings: settings, fingerprint: ^uint64(0)}
}

func (c *shapeCache) needsRegeneration() bool {
	return c.settings != nil && c.settings.Fingerprint() != c.fingerprint
}

func (c *shapeCache) markFresh() {
	if c.settings != nil {
		c.fingerprint = c.settings.Fingerprint()
	}
}

// RawBrushProvider previews a raw-item brush's current footprint.
type RawBrushProvider struct {
	shapeCache
	ServerID uint16
	tiles    []TileData
	bounds   Bounds
}

// NewRawBrushProvider builds a preview provider for a raw-item brush.
func NewRawBrushProvider(serverID uint16, settings *brush.SettingsService) *RawBrushProvider {
	p := &RawBrushProvider{shapeCache: newShapeCache(settings), ServerID: serverID}
	p.Regenerate()
	return p
}

func (p *RawBrushProvider) IsActive() bool                      { return true }
func (p *RawBrushProvider) AnchorPosition() spatial.Position    { return p.cursor }
func (p *RawBrushProvider) Tiles() []TileData                   { return p.tiles }
func (p *RawBrushProvider) Bounds() Bounds                       { return p.bounds }
func (p *RawBrushProvider) UpdateCursorPosition(pos spatial.Position) { p.cursor = pos }
func (p *RawBrushProvider) Style() Style                         { return StyleGhost }
func (p *RawBrushProvider) NeedsRegeneration() bool              { return p.needsRegeneration() }

func (p *RawBrushProvider) Regenerate() {
	offsets := p.settings.GetBrushOffsets()
	p.tiles = make([]TileData, len(offsets))
	p.bounds = boundsFromOffsets(offsets)
	for i, o := range offsets {
		p.tiles[i] = TileData{
			RelPos: spatial.Position{X: o.DX, Y: o.DY},
			Items:  []PreviewItem{{ServerID: p.ServerID}},
		}
	}
	p.markFresh()
}

// CreatureProvider previews a creature brush's single placement tile.
type CreatureProvider struct {
	shapeCache
	Name   string
	tiles  []TileData
}

// NewCreatureProvider builds a preview provider for a creature brush.
func NewCreatureProvider(name string, settings *brush.SettingsService) *CreatureProvider {
	p := &CreatureProvider{shapeCache: newShapeCache(settings), Name: name}
	p.Regenerate()
	return p
}

func (p *CreatureProvider) IsActive() bool                      { return true }
func (p *CreatureProvider) AnchorPosition() spatial.Position    { return p.cursor }
func (p *CreatureProvider) Tiles() []TileData                   { return p.tiles }
func (p *CreatureProvider) Bounds() Bounds                       { return Bounds{} }
func (p *CreatureProvider) UpdateCursorPosition(pos spatial.Position) { p.cursor = pos }
func (p *CreatureProvider) Style() Style                         { return StyleGhost }
func (p *CreatureProvider) NeedsRegeneration() bool              { return p.needsRegeneration() }

func (p *CreatureProvider) Regenerate() {
	p.tiles = []TileData{{CreatureName: p.Name, HasCreature: true}}
	p.markFresh()
}

// ZoneProvider previews a flag/eraser/house/waypoint brush as a tinted
// footprint, with a preset ARGB color per brush kind.
type ZoneProvider struct {
	shapeCache
	ARGB  uint32
	tiles []TileData
	bounds Bounds
}

// Preset tints, matching §4.7's BrushPreviewFactory dispatch table.
const (
	TintFlag      uint32 = 0xFFFFFF00 // yellow
	TintEraser    uint32 = 0xFFFF0000 // red
	TintHouse     uint32 = 0xFF0000FF // blue
	TintWaypoint  uint32 = 0xFF00FF00 // green
)

// NewZoneProvider builds a tinted-zone preview provider for the given
// ARGB color.
func NewZoneProvider(argb uint32, settings *brush.SettingsService) *ZoneProvider {
	p := &ZoneProvider{shapeCache: newShapeCache(settings), ARGB: argb}
	p.Regenerate()
	return p
}

func (p *ZoneProvider) IsActive() bool                      { return true }
func (p *ZoneProvider) AnchorPosition() spatial.Position    { return p.cursor }
func (p *ZoneProvider) Tiles() []TileData                   { return p.tiles }
func (p *ZoneProvider) Bounds() Bounds                       { return p.bounds }
func (p *ZoneProvider) UpdateCursorPosition(pos spatial.Position) { p.cursor = pos }
func (p *ZoneProvider) Style() Style                         { return StyleTinted }
func (p *ZoneProvider) NeedsRegeneration() bool              { return p.needsRegeneration() }

func (p *ZoneProvider) Regenerate() {
	offsets := p.settings.GetBrushOffsets()
	p.tiles = make([]TileData, len(offsets))
	p.bounds = boundsFromOffsets(offsets)
	for i, o := range offsets {
		p.tiles[i] = TileData{RelPos: spatial.Position{X: o.DX, Y: o.DY}, ZoneARGB: p.ARGB}
	}
	p.markFresh()
}

func boundsFromOffsets(offsets []brush.Offset) Bounds {
	if len(offsets) == 0 {
		return Bounds{}
	}
	min, max := offsets[0], offsets[0]
	for _, o := range offsets[1:] {
		if o.DX < min.DX {
			min.DX = o.DX
		}
		if o.DY < min.DY {
			min.DY = o.DY
		}
		if o.DX > max.DX {
			max.DX = o.DX
		}
		if o.DY > max.DY {
			max.DY = o.DY
		}
	}
	return Bounds{Min: spatial.Position{X: min.DX, Y: min.DY}, Max: spatial.Position{X: max.DX, Y: max.DY}}
}

// SpawnProvider previews a spawn brush: a radius outline plus a center
// indicator tile.
type SpawnProvider struct {
	shapeCache
	Radius int32
	tiles  []TileData
}

// NewSpawnProvider builds a preview provider for a spawn brush.
func NewSpawnProvider(radius int32, settings *brush.SettingsService) *SpawnProvider {
	p := &SpawnProvider{shapeCache: newShapeCache(settings), Radius: radius}
	p.Regenerate()
	return p
}

func (p *SpawnProvider) IsActive() bool                      { return true }
func (p *SpawnProvider) AnchorPosition() spatial.Position    { return p.cursor }
func (p *SpawnProvider) Tiles() []TileData                   { return p.tiles }
func (p *SpawnProvider) Bounds() Bounds {
	r := p.Radius
	return Bounds{Min: spatial.Position{X: -r, Y: -r}, Max: spatial.Position{X: r, Y: r}}
}
func (p *SpawnProvider) UpdateCursorPosition(pos spatial.Position) { p.cursor = pos }
func (p *SpawnProvider) Style() Style                              { return StyleOutline }
func (p *SpawnProvider) NeedsRegeneration() bool                   { return p.needsRegeneration() }

func (p *SpawnProvider) Regenerate() {
	r := p.Radius
	if r <= 0 {
		r = 3
	}
	p.tiles = []TileData{{HasSpawn: true, SpawnRadius: r}}
	p.markFresh()
}
