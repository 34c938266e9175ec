package spatial

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []Position{
		{0, 0, 0},
		{1, 1, 7},
		{-1, -1, 15},
		{134217727, 134217727, 15},
		{-134217728, -134217728, 0},
		{-1000, 2000, 7},
	}
	for _, p := range cases {
		got := Unpack(p.Pack())
		if !got.Equal(p) {
			t.Errorf("Unpack(Pack(%v)) = %v, want %v", p, got, p)
		}
	}
}

func FuzzPackUnpack(f *testing.F) {
	f.Add(int32(0), int32(0), int16(7))
	f.Add(int32(-1), int32(1000), int16(15))
	f.Fuzz(func(t *testing.T, x, y int32, z int16) {
		// Restrict to the documented 28-bit signed range; Pack/Unpack makes
		// no promises outside it.
		const lo, hi = -(1 << 27), (1 << 27) - 1
		if x < lo || x > hi || y < lo || y > hi {
			t.Skip()
		}
		p := New(x, y, z)
		got := Unpack(p.Pack())
		if got.X != p.X || got.Y != p.Y || got.Z != p.Z {
			t.Fatalf("round-trip mismatch: got %v, want %v", got, p)
		}
	})
}

func TestOrdering(t *testing.T) {
	a := Position{0, 0, 1}
	b := Position{0, 0, 2}
	if !a.Less(b) {
		t.Fatalf("expected a < b by z")
	}
	a = Position{0, 5, 1}
	b = Position{0, 6, 1}
	if !a.Less(b) {
		t.Fatalf("expected a < b by y")
	}
	a = Position{5, 0, 1}
	b = Position{6, 0, 1}
	if !a.Less(b) {
		t.Fatalf("expected a < b by x")
	}
}
