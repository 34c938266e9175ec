package preview

import (
	"github.com/kolvynathar/tilemapcore/brush"
)

// BrushPreviewFactory builds the Provider matching a brush's Kind,
// dispatching per §4.7/§4.8's table: Raw -> footprint ghost, Creature ->
// single-tile outfit marker, Spawn -> radius outline, Flag/Eraser/House ->
// tinted zone, Waypoint -> tinted zone (green, reusing the zone path since
// it has no tile footprint of its own), anything else -> no preview.
type BrushPreviewFactory struct{}

// NewBrushPreviewFactory returns a stateless brush preview factory.
func NewBrushPreviewFactory() *BrushPreviewFactory { return &BrushPreviewFactory{} }

// Build returns the Provider for b, or nil if b's kind has no preview.
func (f *BrushPreviewFactory) Build(b brush.Brush, settings *brush.SettingsService) Provider {
	if b == nil {
		return nil
	}
	switch b.TypeTag() {
	case brush.KindRaw:
		rb, ok := b.(*brush.RawBrush)
		if !ok {
			return nil
		}
		return NewRawBrushProvider(rb.ServerID, settings)
	case brush.KindCreature:
		cb, ok := b.(*brush.CreatureBrush)
		if !ok {
			return nil
		}
		return NewCreatureProvider(cb.CreatureName, settings)
	case brush.KindSpawn:
		sb, ok := b.(*brush.SpawnBrush)
		if !ok {
			return nil
		}
		radius := sb.Radius
		if radius <= 0 {
			radius = 3
		}
		return NewSpawnProvider(radius, settings)
	case brush.KindFlag:
		return NewZoneProvider(TintFlag, settings)
	case brush.KindEraser:
		return NewZoneProvider(TintEraser, settings)
	case brush.KindHouse:
		return NewZoneProvider(TintHouse, settings)
	case brush.KindWaypoint:
		return NewZoneProvider(TintWaypoint, settings)
	default:
		return nil
	}
}

// InstallBrushPreview implements brush.PreviewInstaller: it builds the
// provider for b via Build and installs it into svc, or clears svc if b
// has no preview.
func (svc *Service) InstallBrushPreview(b brush.Brush, settings *brush.SettingsService) {
	p := NewBrushPreviewFactory().Build(b, settings)
	if p == nil {
		svc.Clear()
		return
	}
	svc.Install(p)
}
