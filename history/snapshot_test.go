package history

import (
	"strings"
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

func buildFullTile(pos spatial.Position) *tile.Tile {
	classifier := fakeClassifier{100: true}
	t := tile.NewTile(pos)
	t.Flags = tile.FlagProtectionZone | tile.FlagNoLogout
	t.HouseID = 42

	ground := tile.NewItem(100)
	ground.Data.ActionID = 7
	t.AddItem(ground, classifier)

	a := tile.NewItem(200)
	a.Data.Count = 5
	a.Data.Charges = 3
	a.Extension().Text = "a readable sign"
	t.AddItemDirect(a)

	b := tile.NewItem(201)
	b.Extension().HasTeleport = true
	b.Extension().TeleportX, b.Extension().TeleportY, b.Extension().TeleportZ = 10, 20, 7
	b.Container = append(b.Container, tile.NewItem(300))
	t.AddItemDirect(b)

	t.Spawn = &tile.Spawn{Center: pos, Radius: 4}
	t.Creature = &tile.Creature{
		Name:      "Rat",
		SpawnTime: 60,
		Direction: spatial.South,
		Outfit:    tile.Outfit{LookType: 21, Head: 1, Body: 2, Legs: 3, Feet: 4},
		Position:  pos,
	}
	return t
}

type fakeClassifier map[uint16]bool

func (f fakeClassifier) IsGround(id uint16) bool  { return f[id] }
func (f fakeClassifier) StackOrder(uint16) int     { return 0 }

func assertTilesEqual(t *testing.T, got, want *tile.Tile) {
	t.Helper()
	if got.Flags != want.Flags {
		t.Fatalf("flags: got %v want %v", got.Flags, want.Flags)
	}
	if got.HouseID != want.HouseID {
		t.Fatalf("house id: got %d want %d", got.HouseID, want.HouseID)
	}
	if (got.Ground == nil) != (want.Ground == nil) {
		t.Fatalf("ground presence mismatch")
	}
	if got.Ground != nil {
		if got.Ground.ServerID != want.Ground.ServerID || got.Ground.Data.ActionID != want.Ground.Data.ActionID {
			t.Fatalf("ground mismatch: got %+v want %+v", got.Ground, want.Ground)
		}
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("item count: got %d want %d", len(got.Items), len(want.Items))
	}
	for i := range want.Items {
		gi, wi := got.Items[i], want.Items[i]
		if gi.ServerID != wi.ServerID || gi.Data.Count != wi.Data.Count || gi.Data.Charges != wi.Data.Charges {
			t.Fatalf("item %d core fields mismatch: got %+v want %+v", i, gi, wi)
		}
		if wi.ExtensionOrNil() != nil {
			ge, we := gi.Extension(), wi.Extension()
			if ge.Text != we.Text || ge.HasTeleport != we.HasTeleport || ge.TeleportX != we.TeleportX {
				t.Fatalf("item %d extension mismatch: got %+v want %+v", i, ge, we)
			}
		}
		if len(gi.Container) != len(wi.Container) {
			t.Fatalf("item %d container count: got %d want %d", i, len(gi.Container), len(wi.Container))
		}
	}
	if (got.Spawn == nil) != (want.Spawn == nil) {
		t.Fatalf("spawn presence mismatch")
	}
	if got.Spawn != nil && got.Spawn.Radius != want.Spawn.Radius {
		t.Fatalf("spawn radius: got %d want %d", got.Spawn.Radius, want.Spawn.Radius)
	}
	if (got.Creature == nil) != (want.Creature == nil) {
		t.Fatalf("creature presence mismatch")
	}
	if got.Creature != nil {
		if got.Creature.Name != want.Creature.Name || got.Creature.SpawnTime != want.Creature.SpawnTime ||
			got.Creature.Direction != want.Creature.Direction || got.Creature.Outfit != want.Creature.Outfit {
			t.Fatalf("creature mismatch: got %+v want %+v", got.Creature, want.Creature)
		}
	}
}

// TestTileSnapshotRoundTrip is Testable Property 3: capture(T,P).restore()
// reproduces T, exercised with compression off: the capture is restored
// directly, without passing through compress(), although the full tile
// serializes to more than compressionThreshold bytes.
func TestTileSnapshotRoundTrip(t *testing.T) {
	pos := spatial.New(10, -5, 7)
	want := buildFullTile(pos)

	snap := Capture(want, pos)
	if len(snap.Data) < compressionThreshold {
		t.Fatalf("test fixture expected to clear the compression threshold, got %d bytes", len(snap.Data))
	}
	got, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.Position != pos {
		t.Fatalf("position: got %v want %v", got.Position, pos)
	}
	assertTilesEqual(t, got, want)
}

// TestTileSnapshotRoundTripCompressed is Testable Property 3 "with
// compression on": a tile large enough to clear compressionThreshold is
// compressed by compress() and must still restore identically through
// decompress().
func TestTileSnapshotRoundTripCompressed(t *testing.T) {
	pos := spatial.New(0, 0, 7)
	want := tile.NewTile(pos)
	big := tile.NewItem(500)
	big.Extension().Description = strings.Repeat("a long item description ", 20)
	want.AddItemDirect(big)

	snap := Capture(want, pos)
	if len(snap.Data) < compressionThreshold {
		t.Fatalf("test fixture expected to clear the compression threshold, got %d bytes", len(snap.Data))
	}

	stored := compress(snap)
	if !stored.compressed {
		t.Fatalf("expected a snapshot this large to compress")
	}
	restored, err := stored.decompress()
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(restored.Data) != string(snap.Data) {
		t.Fatalf("decompressed bytes differ from the original capture")
	}

	got, err := restored.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	assertTilesEqual(t, got, want)
}

// TestTileSnapshotRoundTripNilTile covers Capture(nil, pos): an empty
// buffer, and Restore of it yielding (nil, nil) so the caller removes the
// tile at Position.
func TestTileSnapshotRoundTripNilTile(t *testing.T) {
	pos := spatial.New(1, 2, 3)
	snap := Capture(nil, pos)
	if len(snap.Data) != 0 {
		t.Fatalf("expected an empty buffer for a nil tile, got %d bytes", len(snap.Data))
	}
	got, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil tile from an empty snapshot, got %+v", got)
	}
}
