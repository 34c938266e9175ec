package history

import (
	"fmt"

	"github.com/kolvynathar/tilemapcore/selection"
	"github.com/pierrec/lz4/v4"
)

// compressionThreshold is the minimum snapshot size, in bytes, worth
// paying LZ4's framing overhead for. Small tiles (the common case — a
// handful of items) compress poorly relative to their own header cost,
// so they are kept raw.
const compressionThreshold = 64

// HistoryEntry is one undoable operation's recorded tile deltas: the
// before/after snapshot pairs for every tile the operation touched, each
// independently compressed once it clears compressionThreshold, plus an
// optional before/after selection memento (§4.6's "HistoryEntry").
type HistoryEntry struct {
	Label            string
	Kind             ActionKind
	Deltas           []TileDelta
	BeforeSelection  *selection.Snapshot
	AfterSelection   *selection.Snapshot
	memsize          int
}

// TileDelta is the before/after pair for a single tile position within
// one HistoryEntry.
type TileDelta struct {
	Before storedSnapshot
	After  storedSnapshot
}

// storedSnapshot holds a TileSnapshot's bytes in whichever form —
// raw or LZ4-compressed — is smaller, tagged so decompress knows which.
type storedSnapshot struct {
	position   TileSnapshot // only Position is populated; the bytes live in payload
	compressed bool
	rawLen     int // original, uncompressed length; needed to size the LZ4 decode buffer
	payload    []byte
}

// compress packs snap into a storedSnapshot, LZ4-compressing the payload
// when doing so both clears the size threshold and actually shrinks it —
// the idempotency guard: never store a "compressed" payload larger than
// the input, since pathological/incompressible data can grow under LZ4's
// block framing.
func compress(snap TileSnapshot) storedSnapshot {
	if len(snap.Data) < compressionThreshold {
		return storedSnapshot{position: TileSnapshot{Position: snap.Position}, rawLen: len(snap.Data), payload: snap.Data}
	}
	bound := lz4.CompressBlockBound(len(snap.Data))
	dst := make([]byte, bound)
	var c lz4.Compressor
	n, err := c.CompressBlock(snap.Data, dst)
	if err != nil || n == 0 || n >= len(snap.Data) {
		return storedSnapshot{position: TileSnapshot{Position: snap.Position}, rawLen: len(snap.Data), payload: snap.Data}
	}
	return storedSnapshot{
		position:   TileSnapshot{Position: snap.Position},
		compressed: true,
		rawLen:     len(snap.Data),
		payload:    dst[:n],
	}
}

// decompress is compress's inverse, returning the original TileSnapshot.
func (s storedSnapshot) decompress() (TileSnapshot, error) {
	if !s.compressed {
		return TileSnapshot{Position: s.position.Position, Data: s.payload}, nil
	}
	dst := make([]byte, s.rawLen)
	n, err := lz4.UncompressBlock(s.payload, dst)
	if err != nil {
		return TileSnapshot{}, fmt.Errorf("history: lz4 decompress: %w", err)
	}
	if n != s.rawLen {
		return TileSnapshot{}, fmt.Errorf("history: lz4 decompress: got %d bytes, want %d", n, s.rawLen)
	}
	return TileSnapshot{Position: s.position.Position, Data: dst}, nil
}

// size returns the bytes this snapshot actually occupies in memory, used
// by HistoryBuffer's memory-budget accounting.
func (s storedSnapshot) size() int { return len(s.payload) }

// newTileDelta compresses before/after into a TileDelta.
func newTileDelta(before, after TileSnapshot) TileDelta {
	return TileDelta{Before: compress(before), After: compress(after)}
}

func (d TileDelta) size() int { return d.Before.size() + d.After.size() }

// newHistoryEntry builds a HistoryEntry from a label and its recorded
// deltas, computing and caching the entry's total memory footprint.
func newHistoryEntry(label string, kind ActionKind, deltas []TileDelta, before, after *selection.Snapshot) *HistoryEntry {
	total := 0
	for _, d := range deltas {
		total += d.size()
	}
	return &HistoryEntry{Label: label, Kind: kind, Deltas: deltas, BeforeSelection: before, AfterSelection: after, memsize: total}
}

func (e *HistoryEntry) Memsize() int { return e.memsize }
