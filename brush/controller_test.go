package brush

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

func TestBresenhamLineCoversBothEndpoints(t *testing.T) {
	a := spatial.New(0, 0, 7)
	b := spatial.New(3, 2, 7)
	line := BresenhamLine(a, b)
	if line[0] != a || line[len(line)-1] != b {
		t.Fatalf("line should include both endpoints, got %v", line)
	}
	// Every step must move at most one tile in each axis (no gaps).
	for i := 1; i < len(line); i++ {
		dx := abs32(line[i].X - line[i-1].X)
		dy := abs32(line[i].Y - line[i-1].Y)
		if dx > 1 || dy > 1 {
			t.Fatalf("gap between %v and %v", line[i-1], line[i])
		}
	}
}

func TestBresenhamLineSinglePoint(t *testing.T) {
	a := spatial.New(5, 5, 7)
	line := BresenhamLine(a, a)
	if len(line) != 1 || line[0] != a {
		t.Fatalf("expected single-point line, got %v", line)
	}
}

func TestControllerStrokeDedupesRepeatedTile(t *testing.T) {
	m := worldmap.New()
	settings := NewSettingsService()
	hm := history.NewHistoryManager()
	c := NewController(settings, hm)
	c.SetBrush(&RawBrush{ServerID: 100})

	pos := spatial.New(1, 1, 7)
	c.BeginStroke()
	c.ContinueStroke(m, pos)
	c.ContinueStroke(m, pos) // same tile again, must not double-stack
	c.EndStroke(m)

	tl := m.GetTile(pos)
	if tl == nil {
		t.Fatalf("expected a tile at %v", pos)
	}
	count := len(tl.Items)
	if tl.Ground != nil {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one painted item from a deduped stroke, got %d", count)
	}
}

func TestControllerClickOutsideStrokeWrapsOwnOperation(t *testing.T) {
	m := worldmap.New()
	settings := NewSettingsService()
	hm := history.NewHistoryManager()
	c := NewController(settings, hm)
	c.SetBrush(&RawBrush{ServerID: 100})

	pos := spatial.New(2, 2, 7)
	c.ApplyBrush(m, pos)

	if hm.EntryCount() != 1 {
		t.Fatalf("expected exactly one history entry, got %d", hm.EntryCount())
	}
	if !hm.CanUndo() {
		t.Fatalf("expected the click to be undoable")
	}
}

func TestControllerEndStrokeCancelsWhenNothingPainted(t *testing.T) {
	m := worldmap.New()
	settings := NewSettingsService()
	hm := history.NewHistoryManager()
	c := NewController(settings, hm)
	c.SetBrush(&EraserBrush{Targets: EraseAll})

	c.BeginStroke()
	// No ContinueStroke calls at all: nothing painted.
	c.EndStroke(m)

	if hm.EntryCount() != 0 {
		t.Fatalf("expected no history entry from an empty stroke, got %d", hm.EntryCount())
	}
}

func TestEraserBrushDrawRespectsTargets(t *testing.T) {
	m := worldmap.New()
	pos := spatial.New(1, 1, 7)
	tl := m.GetOrCreateTile(pos)
	tl.SetGround(tile.NewItem(1))
	tl.AddItemDirect(tile.NewItem(2))
	tl.SetCreature(&tile.Creature{Name: "Rat"})

	b := &EraserBrush{Targets: EraseItems}
	b.Draw(m, tl, Context{})

	if len(tl.Items) != 0 {
		t.Fatalf("expected items cleared")
	}
	if tl.Ground == nil {
		t.Fatalf("ground should survive an items-only erase")
	}
	if tl.Creature == nil {
		t.Fatalf("creature should survive an items-only erase")
	}
}
