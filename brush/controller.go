package brush

import (
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// ActivatedFunc is invoked whenever SetBrush installs a new brush; the
// editor uses this to clear the current selection on brush activation.
type ActivatedFunc func(b Brush)

// PreviewInstaller is the narrow slice of preview.Service the controller
// needs: swapping in whatever provider the active brush's factory
// builds. Defined here (rather than importing package preview directly)
// to keep brush free of a dependency on the preview package; editor wires
// the concrete type in.
type PreviewInstaller interface {
	InstallBrushPreview(b Brush, settings *SettingsService)
	Clear()
}

// Controller drives brush application: single-tile clicks and
// coalesced drag strokes, both wrapped in history operations.
type Controller struct {
	current  Brush
	settings *SettingsService
	history  *history.HistoryManager
	preview  PreviewInstaller
	onActivated ActivatedFunc

	strokeActive bool
	painted      map[spatial.Position]struct{}
	lastStrokePos spatial.Position
	haveLastPos  bool
}

// NewController wires a controller to its settings and history borrows.
func NewController(settings *SettingsService, hm *history.HistoryManager) *Controller {
	return &Controller{settings: settings, history: hm, painted: make(map[spatial.Position]struct{})}
}

// SetPreviewInstaller installs the preview-service adapter (see
// PreviewInstaller) used by SetBrush/ClearBrush.
func (c *Controller) SetPreviewInstaller(p PreviewInstaller) { c.preview = p }

// OnActivated installs the callback fired whenever SetBrush switches the
// active brush.
func (c *Controller) OnActivated(fn ActivatedFunc) { c.onActivated = fn }

// SetBrush switches the active brush, installs its preview provider, and
// fires the activation callback.
func (c *Controller) SetBrush(b Brush) {
	c.current = b
	if c.preview != nil {
		c.preview.InstallBrushPreview(b, c.settings)
	}
	if c.onActivated != nil {
		c.onActivated(b)
	}
}

// ClearBrush deactivates the current brush.
func (c *Controller) ClearBrush() {
	c.current = nil
	if c.preview != nil {
		c.preview.Clear()
	}
}

// HasBrush reports whether a brush is currently active.
func (c *Controller) HasBrush() bool { return c.current != nil }

// GetCurrentBrush returns the active brush, or nil.
func (c *Controller) GetCurrentBrush() Brush { return c.current }

func (c *Controller) paintOne(m *worldmap.ChunkedMap, pos spatial.Position) {
	t := m.GetOrCreateTile(pos)
	c.history.RecordTileBefore(t, pos)
	c.current.Draw(m, t, Context{Settings: c.settings, IsDragging: c.strokeActive})
}

// ApplyBrush paints a single tile. Outside a stroke, this wraps the paint
// in its own begin/end history operation; during an active stroke it
// de-duplicates against the per-stroke painted set and paints directly.
func (c *Controller) ApplyBrush(m *worldmap.ChunkedMap, pos spatial.Position) {
	if c.current == nil {
		return
	}
	if c.strokeActive {
		if _, seen := c.painted[pos]; seen {
			return
		}
		c.painted[pos] = struct{}{}
		c.paintOne(m, pos)
		return
	}
	c.history.BeginOperation(c.current.Name(), history.ActionDraw, nil)
	c.paintOne(m, pos)
	c.history.EndOperation(m, nil)
}

// EraseBrush wraps the active brush's Undraw for one tile in its own
// history operation.
func (c *Controller) EraseBrush(m *worldmap.ChunkedMap, pos spatial.Position) {
	if c.current == nil {
		return
	}
	t := m.GetTile(pos)
	if t == nil {
		return
	}
	c.history.BeginOperation(c.current.Name(), history.ActionDraw, nil)
	c.history.RecordTileBefore(t, pos)
	c.current.Undraw(m, t)
	c.history.EndOperation(m, nil)
}

// BeginStroke opens a single history operation covering the whole drag
// gesture and resets per-stroke de-duplication state.
func (c *Controller) BeginStroke() {
	c.history.BeginOperation(c.current.Name(), history.ActionDraw, nil)
	c.strokeActive = true
	c.haveLastPos = false
	for k := range c.painted {
		delete(c.painted, k)
	}
}

// ContinueStroke paints every brush-shape position at pos; on the second
// and later calls within a stroke, it first walks a Bresenham line from
// the previous cursor tile to pos and expands every line tile through the
// brush shape too, so a fast mouse move doesn't leave gaps.
func (c *Controller) ContinueStroke(m *worldmap.ChunkedMap, pos spatial.Position) {
	if c.current == nil || !c.strokeActive {
		return
	}
	if !c.haveLastPos {
		c.paintExpanded(m, pos)
		c.lastStrokePos = pos
		c.haveLastPos = true
		return
	}
	for _, linePos := range BresenhamLine(c.lastStrokePos, pos) {
		c.paintExpanded(m, linePos)
	}
	c.lastStrokePos = pos
}

func (c *Controller) paintExpanded(m *worldmap.ChunkedMap, center spatial.Position) {
	for _, p := range c.settings.GetBrushPositions(center) {
		if _, seen := c.painted[p]; seen {
			continue
		}
		c.painted[p] = struct{}{}
		c.paintOne(m, p)
	}
}

// EndStroke closes the stroke's history operation: if anything was
// painted, the operation is ended and pushed; otherwise (no ContinueStroke
// call painted a position since BeginStroke) it's canceled so the empty
// stroke doesn't clutter undo.
func (c *Controller) EndStroke(m *worldmap.ChunkedMap) {
	c.strokeActive = false
	if len(c.painted) == 0 {
		c.history.CancelOperation()
		return
	}
	c.history.EndOperation(m, nil)
}

// BresenhamLine returns every integer (x,y) tile on the line from a to b,
// inclusive of both endpoints, with z fixed to a.Z. Standard 2D Bresenham
// (§4.7: "Line algorithm: 2D Bresenham on (x,y) with z fixed to the
// source position's floor").
func BresenhamLine(a, b spatial.Position) []spatial.Position {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := abs32(x1 - x0)
	dy := -abs32(y1 - y0)
	sx := int32(1)
	if x0 >= x1 {
		sx = -1
	}
	sy := int32(1)
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	var out []spatial.Position
	x, y := x0, y0
	for {
		out = append(out, spatial.Position{X: x, Y: y, Z: a.Z})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
