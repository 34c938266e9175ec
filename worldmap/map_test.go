package worldmap

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

func TestGetOrCreateTileThenGetTile(t *testing.T) {
	m := New()
	pos := spatial.New(5, 5, 7)
	created := m.GetOrCreateTile(pos)
	if created == nil {
		t.Fatalf("expected non-nil tile")
	}
	got := m.GetTile(pos)
	if got != created {
		t.Fatalf("GetTile did not return the same tile instance")
	}
	if m.GetTile(spatial.New(6, 6, 7)) != nil {
		t.Fatalf("expected nil tile at untouched position")
	}
}

func TestRemoveTile(t *testing.T) {
	m := New()
	pos := spatial.New(1, 1, 7)
	m.GetOrCreateTile(pos)
	m.RemoveTile(pos)
	if m.GetTile(pos) != nil {
		t.Fatalf("expected tile to be removed")
	}
}

func TestChunkBoundaryCrossesNegativeCoordinates(t *testing.T) {
	m := New()
	a := spatial.New(-1, -1, 7)
	b := spatial.New(-32, -32, 7)
	m.GetOrCreateTile(a)
	m.GetOrCreateTile(b)
	if m.ChunkCount() != 1 {
		t.Fatalf("expected -1 and -32 to share a chunk, got %d chunks", m.ChunkCount())
	}
	c := spatial.New(-33, -1, 7)
	m.GetOrCreateTile(c)
	if m.ChunkCount() != 2 {
		t.Fatalf("expected -33 to fall into a new chunk, got %d chunks", m.ChunkCount())
	}
}

type recordingObserver struct {
	dirty []spatial.Position
	spawn []spatial.Position
}

func (r *recordingObserver) OnTileDirty(pos spatial.Position)          { r.dirty = append(r.dirty, pos) }
func (r *recordingObserver) OnSpawnChange(pos spatial.Position, _ bool) { r.spawn = append(r.spawn, pos) }

func TestTileMutationNotifiesObservers(t *testing.T) {
	m := New()
	obs := &recordingObserver{}
	m.Subscribe(obs)
	pos := spatial.New(2, 2, 7)
	tl := m.GetOrCreateTile(pos)
	tl.AddItemDirect(tile.NewItem(1))
	if len(obs.dirty) == 0 {
		t.Fatalf("expected at least one tile-dirty notification")
	}
}

func TestForEachTileDeterministicOrder(t *testing.T) {
	m := New()
	positions := []spatial.Position{
		spatial.New(40, 0, 7),
		spatial.New(0, 0, 7),
		spatial.New(0, 40, 7),
		spatial.New(0, 0, 6),
	}
	for _, p := range positions {
		m.GetOrCreateTile(p)
	}
	var seen []spatial.Position
	m.ForEachTile(func(tl *tile.Tile) {
		seen = append(seen, tl.Position)
	})
	if len(seen) != 4 {
		t.Fatalf("expected 4 tiles, got %d", len(seen))
	}
	if seen[0].Z != 6 {
		t.Fatalf("expected floor 6 tile to sort first, got z=%d", seen[0].Z)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	m := New()
	obs := &recordingObserver{}
	m.Subscribe(obs)
	m.Unsubscribe(obs)
	m.GetOrCreateTile(spatial.New(3, 3, 7))
	m.RemoveTile(spatial.New(3, 3, 7))
	if len(obs.dirty) != 0 {
		t.Fatalf("expected no notifications after unsubscribe, got %v", obs.dirty)
	}
}
