package selection

import "github.com/kolvynathar/tilemapcore/tile"

// KindMask is a bitset over tile.EntityKind.
type KindMask uint8

const (
	maskGround KindMask = 1 << tile.EntityGround
	maskItem   KindMask = 1 << tile.EntityItem
	maskCreature KindMask = 1 << tile.EntityCreature
	maskSpawn  KindMask = 1 << tile.EntitySpawn
	maskAll    KindMask = maskGround | maskItem | maskCreature | maskSpawn
)

// Filter decides which entities a selection operation should touch. A
// Filter either matches by kind mask, or — when built via
// FilterSingleEntity — matches exactly one entity id and nothing else.
type Filter struct {
	mask     KindMask
	specific *Entry
}

// FilterAll matches every entity kind.
func FilterAll() Filter { return Filter{mask: maskAll} }

// FilterNone matches nothing.
func FilterNone() Filter { return Filter{} }

// FilterItemsOnly matches stacked items, excluding ground.
func FilterItemsOnly() Filter { return Filter{mask: maskItem} }

// FilterItemsAndGround matches stacked items and the ground slot.
func FilterItemsAndGround() Filter { return Filter{mask: maskItem | maskGround} }

// FilterSingleEntity matches exactly one entity id, ignoring its kind mask.
func FilterSingleEntity(id Entry) Filter {
	e := id
	return Filter{specific: &e}
}

// Matches reports whether entry passes the filter.
func (f Filter) Matches(entry Entry) bool {
	if f.specific != nil {
		return entry == *f.specific
	}
	return f.mask&(1<<entry.Kind) != 0
}

// IsSpecific reports whether the filter targets exactly one entity.
func (f Filter) IsSpecific() bool { return f.specific != nil }
