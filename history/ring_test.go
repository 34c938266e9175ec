package history

import "testing"

// costEntry returns a HistoryEntry whose Memsize is exactly cost bytes,
// bypassing the snapshot/compression path so ring bookkeeping can be
// tested in isolation.
func costEntry(label string, cost int) *HistoryEntry {
	delta := TileDelta{
		Before: storedSnapshot{payload: make([]byte, cost)},
	}
	return newHistoryEntry(label, ActionOther, []TileDelta{delta}, nil, nil)
}

// TestRingEntryCountIsCapBounded is Testable Property 5: after N pushes
// without any undo, entryCount == min(N, capacity) and canRedo is false.
func TestRingEntryCountIsCapBounded(t *testing.T) {
	b := NewHistoryBufferWithLimits(4, 1<<30)
	for i := 0; i < 10; i++ {
		b.Push(costEntry("op", 1))
	}
	if got, want := b.EntryCount(), 4; got != want {
		t.Fatalf("entry count: got %d want %d", got, want)
	}
	if b.CanRedo() {
		t.Fatalf("expected canRedo == false after pushes with no undo")
	}
	if !b.CanUndo() {
		t.Fatalf("expected canUndo == true")
	}
}

// TestRingUndoRedoCursorTransitions is Testable Property 5: canRedo
// becomes true after an undo and reverts to false once the next push
// truncates the redo tail.
func TestRingUndoRedoCursorTransitions(t *testing.T) {
	b := NewHistoryBufferWithLimits(10, 1<<30)
	b.Push(costEntry("a", 1))
	b.Push(costEntry("b", 1))
	b.Push(costEntry("c", 1))

	undone := b.MoveBack()
	if undone.Label != "c" {
		t.Fatalf("expected to undo the most recent push, got %q", undone.Label)
	}
	if !b.CanRedo() {
		t.Fatalf("expected canRedo == true after an undo")
	}

	b.Push(costEntry("d", 1))
	if b.CanRedo() {
		t.Fatalf("expected canRedo == false once a push truncates the redo tail")
	}
	if got, want := b.EntryCount(), 3; got != want {
		t.Fatalf("entry count after truncating push: got %d want %d", got, want)
	}
}

// TestRingMemoryCapEvictsOldest is Scenario S5: a buffer configured with
// capacity=10 and byte-budget=1024, pushed 20 operations each costing 200
// bytes, ends up budget-bound at 5 entries, under budget, with nothing to
// redo and everything undoable.
func TestRingMemoryCapEvictsOldest(t *testing.T) {
	b := NewHistoryBufferWithLimits(10, 1024)
	for i := 0; i < 20; i++ {
		b.Push(costEntry("op", 200))
	}
	if got, want := b.EntryCount(), 5; got != want {
		t.Fatalf("entry count: got %d want %d", got, want)
	}
	if b.Memsize() > 1024 {
		t.Fatalf("memory usage %d exceeds budget 1024", b.Memsize())
	}
	if b.CanRedo() {
		t.Fatalf("expected canRedo == false")
	}
	if !b.CanUndo() {
		t.Fatalf("expected canUndo == true")
	}
}

// TestRingClearResetsState verifies Clear drops every entry and both
// cursor-derived predicates.
func TestRingClearResetsState(t *testing.T) {
	b := NewHistoryBufferWithLimits(10, 1<<30)
	b.Push(costEntry("a", 1))
	b.Clear()
	if b.EntryCount() != 0 || b.Memsize() != 0 || b.CanUndo() || b.CanRedo() {
		t.Fatalf("expected a fully reset buffer after Clear")
	}
}
