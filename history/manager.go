package history

import (
	"fmt"
	"log/slog"

	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// ErrNoOperationInProgress is returned by RecordTileBefore/EndOperation/
// CancelOperation when called without a matching BeginOperation.
var ErrNoOperationInProgress = fmt.Errorf("history: no operation in progress")

// ErrOperationInProgress is returned by BeginOperation when one was already
// open; that earlier operation has been canceled and the new one is open.
var ErrOperationInProgress = fmt.Errorf("history: operation already in progress")

// pendingTile tracks one tile's before-image plus whether it has been
// captured, so RecordTileBefore is idempotent per position within one
// operation (the first call wins; later calls for the same position are
// no-ops, since the "before" state must reflect the start of the whole
// operation, not an intermediate one).
type pendingTile struct {
	before   TileSnapshot
	captured bool
}

// HistoryManager groups a sequence of tile mutations into one undoable
// operation and drives a HistoryBuffer to move across them. It holds no
// reference to the map across calls other than during an open operation;
// each public method takes the map explicitly, matching the rest of this
// engine's non-owning-borrow convention.
type HistoryManager struct {
	buffer *HistoryBuffer

	inProgress bool
	label      string
	kind       ActionKind
	beforeSel  *selection.Snapshot
	order      []spatial.Position
	pending    map[spatial.Position]*pendingTile
}

// NewHistoryManager returns a manager backed by a fresh HistoryBuffer
// using the default capacity and memory budget.
func NewHistoryManager() *HistoryManager {
	return NewHistoryManagerWithLimits(DefaultCapacity, DefaultMemoryBudget)
}

// NewHistoryManagerWithLimits returns a manager backed by a fresh
// HistoryBuffer configured with an explicit capacity and byte budget
// (§4.6), letting callers reproduce scenarios like S5 that require a
// buffer smaller than the defaults.
func NewHistoryManagerWithLimits(capacity, budget int) *HistoryManager {
	return &HistoryManager{buffer: NewHistoryBufferWithLimits(capacity, budget), pending: make(map[spatial.Position]*pendingTile)}
}

// BeginOperation opens a new undoable operation labeled for display
// (e.g. "Brush", "Paste", "Delete Selection"), tagged with kind for the
// undo menu, and optionally capturing a before-selection memento. Only
// one operation may be open at a time; calling this while one is already
// active is a LogicMisuse (§7): it is logged at Warn and recovered by
// canceling the previous operation, after which the new operation is
// opened and ErrOperationInProgress is returned.
func (h *HistoryManager) BeginOperation(label string, kind ActionKind, beforeSel *selection.Snapshot) error {
	var misuse error
	if h.inProgress {
		slog.Warn("history: begin while an operation is active; canceling it",
			slog.String("op", h.label), slog.String("next", label))
		h.closeOperation()
		misuse = ErrOperationInProgress
	}
	h.inProgress = true
	h.label = label
	h.kind = kind
	h.beforeSel = beforeSel
	h.order = h.order[:0]
	for k := range h.pending {
		delete(h.pending, k)
	}
	return misuse
}

// RecordTileBefore captures t's state at pos as the operation's
// before-image for that position, if one hasn't already been captured
// this operation. t may be nil (meaning no tile exists yet at pos).
func (h *HistoryManager) RecordTileBefore(t *tile.Tile, pos spatial.Position) error {
	if !h.inProgress {
		return ErrNoOperationInProgress
	}
	if p, ok := h.pending[pos]; ok && p.captured {
		return nil
	}
	p := &pendingTile{before: Capture(t, pos), captured: true}
	h.pending[pos] = p
	h.order = append(h.order, pos)
	return nil
}

// EndOperation captures the after-image of every recorded position by
// reading m, pushes the resulting HistoryEntry onto the buffer, and
// closes the operation. An operation with no recorded positions AND no
// selection-snapshot change is dropped rather than pushed, so no-op brush
// strokes don't clutter undo. afterSel is the operation's ending
// selection memento (may be nil if selection wasn't touched).
func (h *HistoryManager) EndOperation(m *worldmap.ChunkedMap, afterSel *selection.Snapshot) error {
	if !h.inProgress {
		return ErrNoOperationInProgress
	}
	deltas := make([]TileDelta, 0, len(h.order))
	for _, pos := range h.order {
		p := h.pending[pos]
		after := Capture(m.GetTile(pos), pos)
		deltas = append(deltas, newTileDelta(p.before, after))
	}
	label, kind, beforeSel := h.label, h.kind, h.beforeSel
	h.closeOperation()
	if len(deltas) == 0 && beforeSel == nil && afterSel == nil {
		return nil
	}
	h.buffer.Push(newHistoryEntry(label, kind, deltas, beforeSel, afterSel))
	return nil
}

// CancelOperation discards the in-progress operation without pushing
// anything to the buffer.
func (h *HistoryManager) CancelOperation() error {
	if !h.inProgress {
		return ErrNoOperationInProgress
	}
	h.closeOperation()
	return nil
}

func (h *HistoryManager) closeOperation() {
	h.inProgress = false
	h.label = ""
	h.kind = ActionOther
	h.beforeSel = nil
	h.order = h.order[:0]
	for k := range h.pending {
		delete(h.pending, k)
	}
}

// Undo applies the most recent operation's before-images to m, and — if
// the operation recorded one — restores sel to its before-state. Returns
// the undone operation's label, or "" if there was nothing to undo.
// sel may be nil if the caller doesn't track selection.
func (h *HistoryManager) Undo(m *worldmap.ChunkedMap, sel *selection.Service) (string, error) {
	if !h.buffer.CanUndo() {
		return "", nil
	}
	entry := h.buffer.MoveBack()
	for _, d := range entry.Deltas {
		snap, err := d.Before.decompress()
		if err != nil {
			return "", err
		}
		if err := applySnapshot(m, snap); err != nil {
			return "", err
		}
	}
	if sel != nil && entry.BeforeSelection != nil {
		sel.RestoreSnapshot(*entry.BeforeSelection)
	}
	return entry.Label, nil
}

// Redo reapplies the most recently undone operation's after-images to m,
// and restores sel to its after-state if one was recorded. Returns the
// redone operation's label, or "" if there was nothing to redo.
func (h *HistoryManager) Redo(m *worldmap.ChunkedMap, sel *selection.Service) (string, error) {
	if !h.buffer.CanRedo() {
		return "", nil
	}
	entry := h.buffer.MoveForward()
	for _, d := range entry.Deltas {
		snap, err := d.After.decompress()
		if err != nil {
			return "", err
		}
		if err := applySnapshot(m, snap); err != nil {
			return "", err
		}
	}
	if sel != nil && entry.AfterSelection != nil {
		sel.RestoreSnapshot(*entry.AfterSelection)
	}
	return entry.Label, nil
}

// applySnapshot restores snap into m, removing the tile entirely when
// snap represents "no tile was here".
func applySnapshot(m *worldmap.ChunkedMap, snap TileSnapshot) error {
	t, err := snap.Restore()
	if err != nil {
		return fmt.Errorf("history: restore at %v: %w", snap.Position, err)
	}
	if t == nil {
		m.RemoveTile(snap.Position)
		return nil
	}
	m.SetTile(snap.Position, t)
	return nil
}

// CanUndo reports whether Undo would do anything right now.
func (h *HistoryManager) CanUndo() bool { return h.buffer.CanUndo() }

// CanRedo reports whether Redo would do anything right now.
func (h *HistoryManager) CanRedo() bool { return h.buffer.CanRedo() }

// Memsize returns the underlying buffer's current memory footprint.
func (h *HistoryManager) Memsize() int { return h.buffer.Memsize() }

// EntryCount returns the number of entries the underlying buffer retains,
// undoable and redoable alike.
func (h *HistoryManager) EntryCount() int { return h.buffer.EntryCount() }
