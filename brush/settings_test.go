package brush

import "testing"

func TestSquareOffsetsOddSize(t *testing.T) {
	s := NewSettingsService()
	s.SetSize(3)
	offsets := s.GetBrushOffsets()
	if len(offsets) != 9 {
		t.Fatalf("expected 3x3 = 9 offsets, got %d", len(offsets))
	}
	found := map[Offset]bool{}
	for _, o := range offsets {
		found[o] = true
	}
	if !found[(Offset{DX: -1, DY: -1})] || !found[(Offset{DX: 1, DY: 1})] || !found[(Offset{})] {
		t.Fatalf("missing expected corner/center offsets: %v", offsets)
	}
}

func TestCircleOffsetsWithinRadius(t *testing.T) {
	s := NewSettingsService()
	s.SetShape(ShapeCircle)
	s.SetSize(5) // radius 2
	offsets := s.GetBrushOffsets()
	for _, o := range offsets {
		if o.DX*o.DX+o.DY*o.DY > 4 {
			t.Fatalf("offset %v outside radius 2", o)
		}
	}
	if len(offsets) == 0 {
		t.Fatalf("expected nonempty circle")
	}
}

func TestSizeClampedToRange(t *testing.T) {
	s := NewSettingsService()
	s.SetSize(0)
	if s.Size != 1 {
		t.Fatalf("SetSize(0) should clamp to 1, got %d", s.Size)
	}
	s.SetSize(99)
	if s.Size != 10 {
		t.Fatalf("SetSize(99) should clamp to 10, got %d", s.Size)
	}
}

func TestFingerprintChangesWithShape(t *testing.T) {
	s := NewSettingsService()
	before := s.Fingerprint()
	s.SetShape(ShapeCircle)
	after := s.Fingerprint()
	if before == after {
		t.Fatalf("expected fingerprint to change after SetShape")
	}
}

func TestFingerprintStableAcrossNoOpReads(t *testing.T) {
	s := NewSettingsService()
	a := s.Fingerprint()
	_ = s.GetBrushOffsets()
	b := s.Fingerprint()
	if a != b {
		t.Fatalf("fingerprint should not change from a read-only call")
	}
}

func TestOnChangedFiresOnEverySetter(t *testing.T) {
	s := NewSettingsService()
	calls := 0
	s.OnChanged(func() { calls++ })
	s.SetSize(5)
	s.SetShape(ShapeCircle)
	s.SetAutoSpawn(true)
	if calls != 3 {
		t.Fatalf("expected 3 onChanged calls, got %d", calls)
	}
}

func TestCustomShapeOffsetsCenterRelative(t *testing.T) {
	s := NewSettingsService()
	s.RegisterShape(&CustomShape{
		Name:   "plus",
		Width:  3,
		Height: 3,
		Cells: [][]bool{
			{false, true, false},
			{true, true, true},
			{false, true, false},
		},
	})
	s.SetShape(ShapeCustom)
	s.SetActiveShape("plus")
	offsets := s.GetBrushOffsets()
	if len(offsets) != 5 {
		t.Fatalf("expected plus shape to have 5 cells, got %d", len(offsets))
	}
}
