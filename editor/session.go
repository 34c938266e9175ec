// Package editor bundles a map, its selection, history, preview and
// clipboard services into one editable document, and implements the
// compound operations that span them: move, merge, paste, and delete
// (§4.9).
package editor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/kolvynathar/tilemapcore/brush"
	"github.com/kolvynathar/tilemapcore/clipboard"
	"github.com/kolvynathar/tilemapcore/codec/otbm"
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/preview"
	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Session is one open map document: the map itself plus the services that
// let a UI layer manipulate it, and the bookkeeping (path, dirty flag, a
// stable id for cross-process references such as autosave journals)
// around it.
type Session struct {
	ID         uuid.UUID
	Path       string
	Dirty      bool
	OpenedAt   time.Time

	Map        *worldmap.ChunkedMap
	Selection  *selection.Service
	History    *history.HistoryManager
	Preview    *preview.Service
	Clipboard  *clipboard.Service
	Brush      *brush.Controller
	Classifier tile.ItemClassifier

	pasting *pasteState
}

// NewSession wires a fresh, empty document around m. classifier may be
// nil, matching the rest of this engine's "nil classifier degrades to
// unconditional append" convention.
func NewSession(m *worldmap.ChunkedMap, classifier tile.ItemClassifier) *Session {
	if m == nil {
		m = worldmap.New()
	}
	s := &Session{
		ID:         uuid.New(),
		OpenedAt:   currentTime(),
		Map:        m,
		Selection:  selection.NewService(),
		History:    history.NewHistoryManager(),
		Preview:    preview.NewService(),
		Clipboard:  clipboard.NewService(),
		Classifier: classifier,
	}
	settings := brush.NewSettingsService()
	s.Brush = brush.NewController(settings, s.History)
	s.Brush.SetPreviewInstaller(s.Preview)
	s.Brush.OnActivated(func(brush.Brush) { s.Selection.Clear() })
	return s
}

// currentTime is the session's one allowed wall-clock read, isolated so
// nothing downstream needs its own.
func currentTime() time.Time { return time.Now() }

// Load reads an OTBM map from path into a brand-new session.
func Load(path string, classifier tile.ItemClassifier) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("editor: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := otbm.Load(f, classifier)
	if err != nil {
		return nil, fmt.Errorf("editor: load %s: %w", path, err)
	}
	s := NewSession(m, classifier)
	s.Path = path
	return s, nil
}

// Save writes the session's map back to its current Path in OTBM form
// and clears the dirty flag.
func (s *Session) Save() error {
	if s.Path == "" {
		return fmt.Errorf("editor: session has no path, use SaveAs")
	}
	return s.SaveAs(s.Path)
}

// SaveAs writes the session's map to path, updates Path, and clears the
// dirty flag.
func (s *Session) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("editor: create %s: %w", path, err)
	}
	defer f.Close()
	if err := otbm.Save(f, s.Map); err != nil {
		return fmt.Errorf("editor: save %s: %w", path, err)
	}
	s.Path = path
	s.Dirty = false
	return nil
}

// MarkDirty flags the session as having unsaved changes. Every compound
// operation in this package calls it after a successful mutation.
func (s *Session) MarkDirty() { s.Dirty = true }

// AutosaveWriter streams a zstd-compressed OTBM snapshot of the session's
// map to w, for a background autosave journal that shouldn't block on a
// full uncompressed write. Uses the default encoder level: autosaves run
// on a timer, not on the UI thread, so favoring ratio over raw throughput
// is the right tradeoff here.
func (s *Session) AutosaveWriter(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("editor: autosave encoder: %w", err)
	}
	if err := otbm.Save(enc, s.Map); err != nil {
		enc.Close()
		return fmt.Errorf("editor: autosave write: %w", err)
	}
	return enc.Close()
}

// RestoreAutosave reads a zstd-compressed OTBM snapshot written by
// AutosaveWriter back into a new session.
func RestoreAutosave(r io.Reader, classifier tile.ItemClassifier) (*Session, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("editor: autosave decoder: %w", err)
	}
	defer dec.Close()
	m, err := otbm.Load(dec, classifier)
	if err != nil {
		return nil, fmt.Errorf("editor: autosave load: %w", err)
	}
	return NewSession(m, classifier), nil
}

// Undo reverts the most recent undoable operation, restoring the
// selection memento it recorded (if any).
func (s *Session) Undo() (string, error) {
	label, err := s.History.Undo(s.Map, s.Selection)
	if err != nil {
		return "", err
	}
	if label != "" {
		s.MarkDirty()
	}
	return label, nil
}

// Redo reapplies the most recently undone operation.
func (s *Session) Redo() (string, error) {
	label, err := s.History.Redo(s.Map, s.Selection)
	if err != nil {
		return "", err
	}
	if label != "" {
		s.MarkDirty()
	}
	return label, nil
}
