package history

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// TestHistoryManagerWithLimitsIsConfigurable threads a non-default
// capacity/budget through to the underlying buffer, per the maintainer
// request that NewHistoryBuffer/NewHistoryManager no longer be pinned to
// the package-level defaults.
func TestHistoryManagerWithLimitsIsConfigurable(t *testing.T) {
	hm := NewHistoryManagerWithLimits(2, 1<<30)
	m := worldmap.New()
	pos := spatial.New(0, 0, 7)

	for i := 0; i < 5; i++ {
		hm.BeginOperation("op", ActionDraw, nil)
		hm.RecordTileBefore(m.GetTile(pos), pos)
		m.GetOrCreateTile(pos).AddItemDirect(tile.NewItem(uint16(i)))
		hm.EndOperation(m, nil)
	}
	if got, want := hm.EntryCount(), 2; got != want {
		t.Fatalf("expected capacity=2 to bound entry count, got %d want %d", got, want)
	}
}

// TestUndoRedoIsIdempotent is Testable Property 4: undo yields the
// pre-state, redo yields the post-state, and undo-then-redo round-trips.
func TestUndoRedoIsIdempotent(t *testing.T) {
	hm := NewHistoryManager()
	m := worldmap.New()
	pos := spatial.New(5, 5, 7)

	hm.BeginOperation("Draw", ActionDraw, nil)
	hm.RecordTileBefore(m.GetTile(pos), pos)
	m.GetOrCreateTile(pos).AddItemDirect(tile.NewItem(100))
	if err := hm.EndOperation(m, nil); err != nil {
		t.Fatalf("end operation: %v", err)
	}

	if got := m.GetTile(pos); got == nil || len(got.Items) != 1 {
		t.Fatalf("expected one item after the draw, got %+v", got)
	}

	label, err := hm.Undo(m, nil)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if label != "Draw" {
		t.Fatalf("expected undo to report the operation label, got %q", label)
	}
	if got := m.GetTile(pos); got != nil {
		t.Fatalf("expected the tile to be gone after undo, got %+v", got)
	}

	label, err = hm.Redo(m, nil)
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	if label != "Draw" {
		t.Fatalf("expected redo to report the operation label, got %q", label)
	}
	if got := m.GetTile(pos); got == nil || len(got.Items) != 1 || got.Items[0].ServerID != 100 {
		t.Fatalf("expected the post-state restored after redo, got %+v", got)
	}
}

// TestEndOperationWithNoChangeIsDropped verifies an operation that
// records no tile deltas and no selection change is never pushed.
func TestEndOperationWithNoChangeIsDropped(t *testing.T) {
	hm := NewHistoryManager()
	m := worldmap.New()

	hm.BeginOperation("NoOp", ActionOther, nil)
	if err := hm.EndOperation(m, nil); err != nil {
		t.Fatalf("end operation: %v", err)
	}
	if hm.CanUndo() {
		t.Fatalf("expected nothing to undo for a no-op operation")
	}
}

// TestCancelOperationDiscardsPending verifies CancelOperation never
// pushes to the buffer.
func TestCancelOperationDiscardsPending(t *testing.T) {
	hm := NewHistoryManager()
	m := worldmap.New()
	pos := spatial.New(1, 1, 7)

	hm.BeginOperation("Cancelled", ActionDraw, nil)
	hm.RecordTileBefore(m.GetTile(pos), pos)
	m.GetOrCreateTile(pos).AddItemDirect(tile.NewItem(1))
	if err := hm.CancelOperation(); err != nil {
		t.Fatalf("cancel operation: %v", err)
	}
	if hm.CanUndo() {
		t.Fatalf("expected a cancelled operation to leave nothing to undo")
	}
}
