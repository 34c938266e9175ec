// Package preview implements the ghost-rendering pipeline's data side: a
// single-slot provider holder and the concrete providers that feed it for
// brush, paste, and drag-move gestures (§4.8).
package preview

import (
	"github.com/kolvynathar/tilemapcore/spatial"
)

// Style is how the render layer should tint a previewed tile.
type Style uint8

const (
	StyleGhost Style = iota
	StyleOutline
	StyleTinted
)

// PreviewItem is one item's preview-relevant shape: enough to draw it
// without touching the full Item aggregate.
type PreviewItem struct {
	ServerID  uint16
	Subtype   uint8
	Elevation int8 // elevation offset, in the renderer's own units
}

// TileData is one relative-position tile's full preview payload.
type TileData struct {
	RelPos       spatial.Position
	Items        []PreviewItem
	CreatureName string
	HasCreature  bool
	HasSpawn     bool
	SpawnRadius  int32
	ZoneARGB     uint32 // 0 = no zone tint
}

// Bounds is the preview's extent, relative to its anchor.
type Bounds struct {
	Min, Max spatial.Position
}

// Provider is the single active source of ghost-tile data. Only one
// provider is installed in a Service at a time; Tiles/Bounds report
// positions relative to AnchorPosition.
type Provider interface {
	IsActive() bool
	AnchorPosition() spatial.Position
	Tiles() []TileData
	Bounds() Bounds
	UpdateCursorPosition(pos spatial.Position)
	Style() Style
	NeedsRegeneration() bool
	Regenerate()
}

// Service is a per-session single-slot holder for the active Provider.
// Only one preview is active at a time — brush, paste, or drag — so
// installing a new one always replaces whatever was there.
type Service struct {
	active Provider
}

// NewService returns an empty preview service.
func NewService() *Service { return &Service{} }

// Install swaps in p as the active provider.
func (s *Service) Install(p Provider) { s.active = p }

// Clear removes the active provider, if any.
func (s *Service) Clear() { s.active = nil }

// Active returns the currently installed provider, or nil.
func (s *Service) Active() Provider { return s.active }

// IsActive reports whether a provider is installed and reports itself
// active.
func (s *Service) IsActive() bool { return s.active != nil && s.active.IsActive() }

// UpdateCursor forwards the cursor position to the active provider, and
// lazily regenerates it if it reports stale.
func (s *Service) UpdateCursor(pos spatial.Position) {
	if s.active == nil {
		return
	}
	s.active.UpdateCursorPosition(pos)
	if s.active.NeedsRegeneration() {
		s.active.Regenerate()
	}
}

// Tiles returns the active provider's tiles, or nil if none is active.
func (s *Service) Tiles() []TileData {
	if s.active == nil {
		return nil
	}
	return s.active.Tiles()
}
