package clipboard

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

func buildTwoTileMap() (*worldmap.ChunkedMap, spatial.Position, spatial.Position) {
	m := worldmap.New()
	a, b := spatial.New(1, 1, 7), spatial.New(2, 1, 7)
	ta := m.GetOrCreateTile(a)
	ta.SetGround(tile.NewItem(100))
	ta.AddItemDirect(tile.NewItem(200))
	tb := m.GetOrCreateTile(b)
	tb.SetGround(tile.NewItem(101))
	return m, a, b
}

func TestCopyTileGranularWholeTileSelection(t *testing.T) {
	m, a, b := buildTwoTileMap()
	sel := selection.NewService()
	sel.SelectTile(m, a)
	sel.SelectTile(m, b)

	cb := NewService()
	n := cb.Copy(m, sel, nil)
	if n != 2 {
		t.Fatalf("expected 2 tiles copied, got %d", n)
	}
	if cb.Buffer().Count() != 2 {
		t.Fatalf("buffer count mismatch: %d", cb.Buffer().Count())
	}
	// Origin is the min bound, so the first selected tile is relative (0,0,0).
	foundOrigin := false
	for _, e := range cb.Buffer().Entries {
		if e.RelPos == (spatial.Position{}) {
			foundOrigin = true
		}
	}
	if !foundOrigin {
		t.Fatalf("expected one entry at the relative origin")
	}
}

func TestCopyEntityGranularPartialTileSelection(t *testing.T) {
	m, a, _ := buildTwoTileMap()
	ta := m.GetTile(a)
	sel := selection.NewService()
	// Select only the ground item at a, not its stacked item.
	sel.AddEntity(m, tile.GroundID(a))

	cb := NewService()
	n := cb.Copy(m, sel, nil)
	if n != 1 {
		t.Fatalf("expected 1 tile in buffer, got %d", n)
	}
	entry := cb.Buffer().Entries[0]
	if entry.Tile.Ground == nil || entry.Tile.Ground.ServerID != 100 {
		t.Fatalf("expected cloned ground item with server_id 100")
	}
	if len(entry.Tile.Items) != 0 {
		t.Fatalf("expected stacked item NOT copied, got %d", len(entry.Tile.Items))
	}
	// Source tile must be untouched by Copy.
	if ta.Ground == nil {
		t.Fatalf("source ground should survive a copy")
	}
}

func TestCutRemovesExactlyWhatWasCopied(t *testing.T) {
	m, a, _ := buildTwoTileMap()
	sel := selection.NewService()
	sel.AddEntity(m, tile.GroundID(a))

	cb := NewService()
	n := cb.Cut(m, sel, nil)
	if n != 1 {
		t.Fatalf("expected 1 entity cut, got %d", n)
	}
	ta := m.GetTile(a)
	if ta == nil {
		t.Fatalf("tile should still exist: it had a surviving stacked item")
	}
	if ta.Ground != nil {
		t.Fatalf("ground should have been removed by cut")
	}
	if len(ta.Items) != 1 {
		t.Fatalf("stacked item should survive the cut, got %d items", len(ta.Items))
	}
	if sel.Bucket().Len() != 0 {
		t.Fatalf("selection should be cleared after cut")
	}
}

func TestCopyEmptySelectionIsNoop(t *testing.T) {
	m, _, _ := buildTwoTileMap()
	sel := selection.NewService()
	cb := NewService()
	if n := cb.Copy(m, sel, nil); n != 0 {
		t.Fatalf("expected 0 from empty selection, got %d", n)
	}
}
