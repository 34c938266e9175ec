package editor

import (
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/preview"
	"github.com/kolvynathar/tilemapcore/spatial"
)

// PasteMode mirrors MergeMode for the paste flow: a destination tile
// already present either gets replaced outright or has the pasted
// tile's content folded onto it.
type PasteMode = MergeMode

const (
	PasteReplace = MergeOverwrite
	PasteMerge   = MergeCombine
)

// pasteState tracks an in-progress paste gesture between StartPaste and
// whichever of ConfirmPaste/CancelPaste ends it.
type pasteState struct {
	provider *preview.PastePreviewProvider
}

// StartPaste installs a live ghost of the clipboard buffer tracking the
// cursor. It does nothing (and IsPasting reports false) if the clipboard
// is empty.
func (s *Session) StartPaste() bool {
	if s.Clipboard.Buffer().Count() == 0 {
		return false
	}
	p := preview.NewPastePreviewProvider(s.Clipboard.Buffer())
	s.pasting = &pasteState{provider: p}
	s.Preview.Install(p)
	return true
}

// IsPasting reports whether a paste gesture is currently active.
func (s *Session) IsPasting() bool { return s.pasting != nil }

// UpdatePasteCursor moves the live paste ghost's anchor.
func (s *Session) UpdatePasteCursor(pos spatial.Position) {
	if s.pasting == nil {
		return
	}
	s.Preview.UpdateCursor(pos)
}

// CancelPaste discards the in-progress paste without touching the map.
func (s *Session) CancelPaste() {
	if s.pasting == nil {
		return
	}
	s.Preview.Clear()
	s.pasting = nil
}

// ConfirmPaste commits the clipboard buffer at anchor under mode, as a
// single ActionPaste history operation, then ends the paste gesture.
// Returns the number of tiles written.
func (s *Session) ConfirmPaste(anchor spatial.Position, mode PasteMode) int {
	if s.pasting == nil {
		return 0
	}
	defer func() {
		s.Preview.Clear()
		s.pasting = nil
	}()

	buf := s.Clipboard.Buffer()
	if buf.Count() == 0 {
		return 0
	}

	before := s.Selection.CreateSnapshot()
	s.History.BeginOperation("Paste", history.ActionPaste, &before)
	for _, e := range buf.Entries {
		dest := spatial.New(anchor.X+e.RelPos.X, anchor.Y+e.RelPos.Y, anchor.Z+e.RelPos.Z)
		s.History.RecordTileBefore(s.Map.GetTile(dest), dest)
	}

	s.Selection.Clear()
	written := 0
	for _, e := range buf.Entries {
		dest := spatial.New(anchor.X+e.RelPos.X, anchor.Y+e.RelPos.Y, anchor.Z+e.RelPos.Z)
		switch mode {
		case PasteReplace:
			s.Map.SetTile(dest, e.Tile.Clone())
		case PasteMerge:
			combineTile(s.Map.GetOrCreateTile(dest), e.Tile, s.Map, dest, s.Classifier)
		}
		written++
	}

	after := s.Selection.CreateSnapshot()
	s.History.EndOperation(s.Map, &after)
	if written > 0 {
		s.MarkDirty()
	}
	return written
}
