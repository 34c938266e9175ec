// Package brush implements the pluggable brush engine: brush variants, a
// shared settings service controlling brush shape/size, and a controller
// that drives single-application and drag-stroke painting through a
// history manager.
package brush

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/segmentio/fasthash/fnv1a"
)

// ShapeKind selects how SettingsService expands a brush footprint.
type ShapeKind uint8

const (
	ShapeSquare ShapeKind = iota
	ShapeCircle
	ShapeCustom
)

// SizeMode selects whether the brush uses the standard 1..10 size slider
// or an explicit custom width/height.
type SizeMode uint8

const (
	SizeStandard SizeMode = iota
	SizeCustomDimensions
)

// Offset is a (dx, dy) displacement from a brush's center tile.
type Offset struct {
	DX, DY int32
}

// CustomShape is a named, hand-painted brush footprint: a grid of
// booleans pre-resolved into center-relative offsets.
type CustomShape struct {
	Name    string
	Width   int
	Height  int
	Cells   [][]bool // [row][col], row-major, true = included
	offsets []Offset
}

func (s *CustomShape) resolveOffsets() []Offset {
	if s.offsets != nil {
		return s.offsets
	}
	centerX, centerY := s.Width/2, s.Height/2
	var out []Offset
	for row, cells := range s.Cells {
		for col, on := range cells {
			if !on {
				continue
			}
			out = append(out, Offset{DX: int32(col - centerX), DY: int32(row - centerY)})
		}
	}
	s.offsets = out
	return out
}

// SettingsService is the mutable brush configuration shared by the
// controller and every preview provider (§4.7). Every setter fires
// onChanged so preview providers can lazily mark themselves for
// regeneration instead of polling.
type SettingsService struct {
	Shape    ShapeKind
	SizeMode SizeMode
	Size     int // standard size, [1,10]
	CustomW  int
	CustomH  int

	shapes map[string]*CustomShape
	active string

	AutoSpawn         bool
	DefaultSpawnRadius int32 // [1,10]
	DefaultSpawnTime  int32 // seconds, [1,86400]

	onChanged func()
}

// NewSettingsService returns a settings service with sane defaults: a 1x1
// square brush, auto-spawn off, default spawn radius 3 and time 60s.
func NewSettingsService() *SettingsService {
	return &SettingsService{
		Shape:              ShapeSquare,
		Size:               1,
		shapes:             make(map[string]*CustomShape),
		DefaultSpawnRadius: 3,
		DefaultSpawnTime:   60,
	}
}

// OnChanged installs the single callback fired after any field mutates
// through this service's setters.
func (s *SettingsService) OnChanged(fn func()) { s.onChanged = fn }

func (s *SettingsService) fire() {
	if s.onChanged != nil {
		s.onChanged()
	}
}

// SetShape switches the footprint kind.
func (s *SettingsService) SetShape(k ShapeKind) { s.Shape = k; s.fire() }

// SetSize sets the standard size, clamped to [1,10].
func (s *SettingsService) SetSize(n int) {
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	s.Size = n
	s.fire()
}

// SetCustomDimensions switches to explicit width/height sizing.
func (s *SettingsService) SetCustomDimensions(w, h int) {
	s.SizeMode = SizeCustomDimensions
	s.CustomW, s.CustomH = w, h
	s.fire()
}

// RegisterShape adds or replaces a named custom brush shape.
func (s *SettingsService) RegisterShape(shape *CustomShape) {
	s.shapes[shape.Name] = shape
	s.fire()
}

// SetActiveShape selects which registered CustomShape ShapeCustom uses.
func (s *SettingsService) SetActiveShape(name string) {
	s.active = name
	s.fire()
}

// SetAutoSpawn toggles automatic spawn creation under the creature brush.
func (s *SettingsService) SetAutoSpawn(on bool) { s.AutoSpawn = on; s.fire() }

// SetDefaultSpawnRadius sets the fallback spawn radius, clamped [1,10].
func (s *SettingsService) SetDefaultSpawnRadius(r int32) {
	if r < 1 {
		r = 1
	}
	if r > 10 {
		r = 10
	}
	s.DefaultSpawnRadius = r
	s.fire()
}

// SetDefaultSpawnTime sets the fallback spawn time, clamped [1,86400]s.
func (s *SettingsService) SetDefaultSpawnTime(t int32) {
	if t < 1 {
		t = 1
	}
	if t > 86400 {
		t = 86400
	}
	s.DefaultSpawnTime = t
	s.fire()
}

// GetBrushOffsets resolves the current shape/size into a list of
// center-relative offsets.
func (s *SettingsService) GetBrushOffsets() []Offset {
	switch s.Shape {
	case ShapeCircle:
		return s.circleOffsets()
	case ShapeCustom:
		if shape, ok := s.shapes[s.active]; ok {
			return shape.resolveOffsets()
		}
		return nil
	default:
		return s.squareOffsets()
	}
}

func (s *SettingsService) dims() (w, h int) {
	if s.SizeMode == SizeCustomDimensions {
		return s.CustomW, s.CustomH
	}
	return s.Size, s.Size
}

func (s *SettingsService) squareOffsets() []Offset {
	w, h := s.dims()
	if w <= 0 || h <= 0 {
		return nil
	}
	halfW, halfH := w/2, h/2
	out := make([]Offset, 0, w*h)
	for dy := -halfH; dy < h-halfH; dy++ {
		for dx := -halfW; dx < w-halfW; dx++ {
			out = append(out, Offset{DX: int32(dx), DY: int32(dy)})
		}
	}
	return out
}

func (s *SettingsService) circleOffsets() []Offset {
	w, _ := s.dims()
	r := w / 2
	if r <= 0 {
		return []Offset{{}}
	}
	r2 := r * r
	var out []Offset
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r2 {
				out = append(out, Offset{DX: int32(dx), DY: int32(dy)})
			}
		}
	}
	return out
}

// GetBrushPositions applies every current offset to center.
func (s *SettingsService) GetBrushPositions(center spatial.Position) []spatial.Position {
	offsets := s.GetBrushOffsets()
	out := make([]spatial.Position, len(offsets))
	for i, o := range offsets {
		out[i] = center.Add(o.DX, o.DY, 0)
	}
	return out
}

// Fingerprint is a cheap hash of every field that affects
// GetBrushOffsets's output, used by preview providers to detect a
// settings change without deep-comparing the resulting offset slice
// (§4.7 "detect settings change by comparing the cached offset list").
func (s *SettingsService) Fingerprint() uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(s.Shape))
	h = fnv1a.AddUint64(h, uint64(s.SizeMode))
	h = fnv1a.AddUint64(h, uint64(s.Size))
	h = fnv1a.AddUint64(h, uint64(s.CustomW))
	h = fnv1a.AddUint64(h, uint64(s.CustomH))
	h = fnv1a.AddString64(h, s.active)
	if shape, ok := s.shapes[s.active]; ok {
		for _, o := range shape.resolveOffsets() {
			h = fnv1a.AddUint64(h, uint64(uint32(o.DX))<<32|uint64(uint32(o.DY)))
		}
	}
	return h
}
