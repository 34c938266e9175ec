// Package selection holds the entity-selection subsystem: a pure-data
// bucket of selected entities, a filter algebra describing which entity
// kinds an operation should touch, and the service layer that mutates the
// bucket in response to higher-level editor intents.
package selection

import (
	"math"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

// Entry identifies one selected entity. It is exactly a tile.EntityID; the
// selection subsystem adds no fields of its own.
type Entry = tile.EntityID

// Bucket is a pure data container: no I/O, no map access. It indexes
// entries two ways — by hash, for O(1) membership checks, and by
// position, for the common "what's selected here" query.
type Bucket struct {
	primary   map[uint64]Entry
	positions map[spatial.Position]map[uint64]struct{}
}

// NewBucket creates an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{
		primary:   make(map[uint64]Entry),
		positions: make(map[spatial.Position]map[uint64]struct{}),
	}
}

// Add inserts entry, returning false if it was already present.
func (b *Bucket) Add(entry Entry) bool {
	h := entry.Hash()
	if _, exists := b.primary[h]; exists {
		return false
	}
	b.primary[h] = entry
	set, ok := b.positions[entry.Position]
	if !ok {
		set = make(map[uint64]struct{})
		b.positions[entry.Position] = set
	}
	set[h] = struct{}{}
	return true
}

// Remove deletes the entry matching id, returning false if it was absent.
func (b *Bucket) Remove(id Entry) bool {
	h := id.Hash()
	if _, exists := b.primary[h]; !exists {
		return false
	}
	delete(b.primary, h)
	if set, ok := b.positions[id.Position]; ok {
		delete(set, h)
		if len(set) == 0 {
			delete(b.positions, id.Position)
		}
	}
	return true
}

// RemoveAllAt removes every entry at pos, returning the removed entries.
func (b *Bucket) RemoveAllAt(pos spatial.Position) []Entry {
	set, ok := b.positions[pos]
	if !ok {
		return nil
	}
	removed := make([]Entry, 0, len(set))
	for h := range set {
		removed = append(removed, b.primary[h])
		delete(b.primary, h)
	}
	delete(b.positions, pos)
	return removed
}

// Clear empties the bucket.
func (b *Bucket) Clear() {
	b.primary = make(map[uint64]Entry)
	b.positions = make(map[spatial.Position]map[uint64]struct{})
}

// Contains reports whether id is currently selected.
func (b *Bucket) Contains(id Entry) bool {
	_, ok := b.primary[id.Hash()]
	return ok
}

// HasEntriesAt reports whether any entity at pos is selected.
func (b *Bucket) HasEntriesAt(pos spatial.Position) bool {
	set, ok := b.positions[pos]
	return ok && len(set) > 0
}

// GetEntriesAt returns every selected entity at pos.
func (b *Bucket) GetEntriesAt(pos spatial.Position) []Entry {
	set, ok := b.positions[pos]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(set))
	for h := range set {
		out = append(out, b.primary[h])
	}
	return out
}

// GetAllEntries returns every selected entity, in no particular order.
func (b *Bucket) GetAllEntries() []Entry {
	out := make([]Entry, 0, len(b.primary))
	for _, e := range b.primary {
		out = append(out, e)
	}
	return out
}

// GetPositions returns every distinct position with at least one selected
// entity.
func (b *Bucket) GetPositions() []spatial.Position {
	out := make([]spatial.Position, 0, len(b.positions))
	for p := range b.positions {
		out = append(out, p)
	}
	return out
}

// GetEntriesOnFloor returns every selected entity on floor z.
func (b *Bucket) GetEntriesOnFloor(z int16) []Entry {
	var out []Entry
	for pos, set := range b.positions {
		if pos.Z != z {
			continue
		}
		for h := range set {
			out = append(out, b.primary[h])
		}
	}
	return out
}

// GetPositionsOnFloor returns every distinct selected position on floor z.
func (b *Bucket) GetPositionsOnFloor(z int16) []spatial.Position {
	var out []spatial.Position
	for pos := range b.positions {
		if pos.Z == z {
			out = append(out, pos)
		}
	}
	return out
}

// GetMinBound and GetMaxBound linear-scan the selected positions; an empty
// bucket reports (0,0,0) for both, per spec.
func (b *Bucket) GetMinBound() spatial.Position { return b.bound(true) }
func (b *Bucket) GetMaxBound() spatial.Position { return b.bound(false) }

func (b *Bucket) bound(min bool) spatial.Position {
	if len(b.positions) == 0 {
		return spatial.Position{}
	}
	var x, y int32
	var z int16
	if min {
		x, y, z = math.MaxInt32, math.MaxInt32, math.MaxInt16
	} else {
		x, y, z = math.MinInt32, math.MinInt32, math.MinInt16
	}
	for pos := range b.positions {
		if min {
			if pos.X < x {
				x = pos.X
			}
			if pos.Y < y {
				y = pos.Y
			}
			if pos.Z < z {
				z = pos.Z
			}
		} else {
			if pos.X > x {
				x = pos.X
			}
			if pos.Y > y {
				y = pos.Y
			}
			if pos.Z > z {
				z = pos.Z
			}
		}
	}
	return spatial.Position{X: x, Y: y, Z: z}
}

// Len reports the number of selected entities.
func (b *Bucket) Len() int { return len(b.primary) }
