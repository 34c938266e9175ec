package editor

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

func newTestSession() *Session {
	return NewSession(worldmap.New(), nil)
}

func TestMoveSelectionTranslatesItemAndKeepsSelection(t *testing.T) {
	s := newTestSession()
	src := spatial.New(1, 1, 7)
	dst := spatial.New(3, 1, 7)

	tl := s.Map.GetOrCreateTile(src)
	it := tile.NewItem(500)
	tl.AddItemDirect(it)
	s.Selection.AddEntity(s.Map, tile.ItemID(src, it.Handle()))

	moved := s.MoveSelection(2, 0, 0)
	if moved != 1 {
		t.Fatalf("expected 1 entity moved, got %d", moved)
	}
	if s.Map.GetTile(src) != nil {
		t.Fatalf("source tile should be removed once emptied")
	}
	destTile := s.Map.GetTile(dst)
	if destTile == nil || len(destTile.Items) != 1 || destTile.Items[0].ServerID != 500 {
		t.Fatalf("expected item 500 at destination, got %+v", destTile)
	}
	if s.Selection.Bucket().Len() != 1 {
		t.Fatalf("expected selection rebuilt to 1 entry, got %d", s.Selection.Bucket().Len())
	}
	if !s.Dirty {
		t.Fatalf("expected session marked dirty after a move")
	}
}

func TestMoveSelectionOverlappingFootprintDoesNotDuplicate(t *testing.T) {
	s := newTestSession()
	a := spatial.New(0, 0, 7)
	b := spatial.New(1, 0, 7)

	ia := tile.NewItem(1)
	ib := tile.NewItem(2)
	s.Map.GetOrCreateTile(a).AddItemDirect(ia)
	s.Map.GetOrCreateTile(b).AddItemDirect(ib)
	s.Selection.AddEntity(s.Map, tile.ItemID(a, ia.Handle()))
	s.Selection.AddEntity(s.Map, tile.ItemID(b, ib.Handle()))

	// Shift both tiles right by one: a's destination is b's source.
	moved := s.MoveSelection(1, 0, 0)
	if moved != 2 {
		t.Fatalf("expected both entities moved, got %d", moved)
	}
	destA := s.Map.GetTile(b)
	destB := s.Map.GetTile(spatial.New(2, 0, 7))
	if destA == nil || len(destA.Items) != 1 {
		t.Fatalf("expected exactly 1 item landed at the overlapped tile, got %+v", destA)
	}
	if destB == nil || len(destB.Items) != 1 {
		t.Fatalf("expected exactly 1 item at the far destination, got %+v", destB)
	}
}

func TestMoveSelectionCreatureCollisionDropsSilently(t *testing.T) {
	s := newTestSession()
	src := spatial.New(0, 0, 7)
	dst := spatial.New(1, 0, 7)
	s.Map.GetOrCreateTile(src).SetCreature(&tile.Creature{Name: "Rat"})
	s.Map.GetOrCreateTile(dst).SetCreature(&tile.Creature{Name: "Cat"})
	s.Selection.AddEntity(s.Map, tile.CreatureID(src))

	moved := s.MoveSelection(1, 0, 0)
	if moved != 0 {
		t.Fatalf("expected the move to be dropped on collision, got %d", moved)
	}
	if s.Map.GetTile(dst).Creature.Name != "Cat" {
		t.Fatalf("destination creature should be untouched")
	}
}

func TestDeleteSelectionRemovesOnlySelectedEntities(t *testing.T) {
	s := newTestSession()
	pos := spatial.New(4, 4, 7)
	tl := s.Map.GetOrCreateTile(pos)
	keep := tile.NewItem(1)
	drop := tile.NewItem(2)
	tl.AddItemDirect(keep)
	tl.AddItemDirect(drop)
	s.Selection.AddEntity(s.Map, tile.ItemID(pos, drop.Handle()))

	removed := s.DeleteSelection()
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	remaining := s.Map.GetTile(pos)
	if remaining == nil || len(remaining.Items) != 1 || remaining.Items[0].Handle() != keep.Handle() {
		t.Fatalf("expected only the kept item to remain, got %+v", remaining)
	}
	if s.Selection.Bucket().Len() != 0 {
		t.Fatalf("expected selection to be empty after delete")
	}
}

func TestUndoRedoRoundtripsMove(t *testing.T) {
	s := newTestSession()
	src := spatial.New(0, 0, 7)
	dst := spatial.New(5, 0, 7)
	it := tile.NewItem(42)
	s.Map.GetOrCreateTile(src).AddItemDirect(it)
	s.Selection.AddEntity(s.Map, tile.ItemID(src, it.Handle()))

	s.MoveSelection(5, 0, 0)
	if s.Map.GetTile(src) != nil {
		t.Fatalf("expected source empty after move")
	}

	label, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if label != "Move" {
		t.Fatalf("expected undo label 'Move', got %q", label)
	}
	if s.Map.GetTile(dst) != nil {
		t.Fatalf("expected destination cleared after undo")
	}
	if tl := s.Map.GetTile(src); tl == nil || len(tl.Items) != 1 {
		t.Fatalf("expected source restored after undo")
	}

	label, err = s.Redo()
	if err != nil {
		t.Fatalf("Redo error: %v", err)
	}
	if label != "Move" {
		t.Fatalf("expected redo label 'Move', got %q", label)
	}
	if s.Map.GetTile(src) != nil {
		t.Fatalf("expected source empty again after redo")
	}
}

func TestMergeCombineGrowsDestinationStack(t *testing.T) {
	dest := newTestSession()
	other := worldmap.New()
	srcPos := spatial.New(0, 0, 7)
	other.GetOrCreateTile(srcPos).AddItemDirect(tile.NewItem(7))

	destPos := spatial.New(10, 10, 7)
	dest.Map.GetOrCreateTile(destPos).AddItemDirect(tile.NewItem(9))

	merged := dest.MergeMap(other, 10, 10, 0, MergeCombine)
	if merged != 1 {
		t.Fatalf("expected 1 tile merged, got %d", merged)
	}
	tl := dest.Map.GetTile(destPos)
	if len(tl.Items) != 2 {
		t.Fatalf("expected combined stack of 2 items, got %d", len(tl.Items))
	}
}

func TestMergeOverwriteReplacesDestination(t *testing.T) {
	dest := newTestSession()
	other := worldmap.New()
	srcPos := spatial.New(0, 0, 7)
	other.GetOrCreateTile(srcPos).AddItemDirect(tile.NewItem(7))

	destPos := spatial.New(0, 0, 7)
	dest.Map.GetOrCreateTile(destPos).AddItemDirect(tile.NewItem(9))

	dest.MergeMap(other, 0, 0, 0, MergeOverwrite)
	tl := dest.Map.GetTile(destPos)
	if len(tl.Items) != 1 || tl.Items[0].ServerID != 7 {
		t.Fatalf("expected destination replaced with incoming item, got %+v", tl)
	}
}

func TestPasteFlowReplaceMode(t *testing.T) {
	s := newTestSession()
	src := spatial.New(0, 0, 7)
	s.Map.GetOrCreateTile(src).AddItemDirect(tile.NewItem(11))
	s.Selection.SelectTile(s.Map, src)
	s.Clipboard.Copy(s.Map, s.Selection, nil)

	if !s.StartPaste() {
		t.Fatalf("expected StartPaste to succeed with a nonempty clipboard")
	}
	if !s.IsPasting() {
		t.Fatalf("expected IsPasting true")
	}

	anchor := spatial.New(20, 20, 7)
	written := s.ConfirmPaste(anchor, PasteReplace)
	if written != 1 {
		t.Fatalf("expected 1 tile written, got %d", written)
	}
	if s.IsPasting() {
		t.Fatalf("expected paste gesture to end after confirm")
	}
	tl := s.Map.GetTile(anchor)
	if tl == nil || len(tl.Items) != 1 || tl.Items[0].ServerID != 11 {
		t.Fatalf("expected pasted tile at anchor, got %+v", tl)
	}
}

func TestCancelPasteTouchesNothing(t *testing.T) {
	s := newTestSession()
	src := spatial.New(0, 0, 7)
	s.Map.GetOrCreateTile(src).AddItemDirect(tile.NewItem(11))
	s.Selection.SelectTile(s.Map, src)
	s.Clipboard.Copy(s.Map, s.Selection, nil)

	s.StartPaste()
	s.CancelPaste()
	if s.IsPasting() {
		t.Fatalf("expected paste gesture cleared")
	}
	anchor := spatial.New(20, 20, 7)
	if s.Map.GetTile(anchor) != nil {
		t.Fatalf("cancel should not write anything")
	}
}
