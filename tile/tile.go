package tile

import "github.com/kolvynathar/tilemapcore/spatial"

// Flag is a bitset of tile-wide boolean properties.
type Flag uint32

const (
	FlagNone           Flag = 0
	FlagProtectionZone Flag = 1 << 0
	FlagNoPvp          Flag = 1 << 1
	FlagNoLogout       Flag = 1 << 2
	FlagPvpZone        Flag = 1 << 3
	FlagRefresh        Flag = 1 << 4
)

// Has reports whether f contains all bits of flag.
func (f Flag) Has(flag Flag) bool { return f&flag == flag }

// dirtyNotifier is the tile's non-owning back-pointer to its parent chunk.
// It is an interface (rather than a *worldmap.Chunk) so this package never
// imports worldmap, breaking the natural Tile->Chunk->Tile cycle the way
// §9's design notes recommend: a non-owning borrow with explicit
// invalidation, exposed through a narrow method set instead of a raw type.
type dirtyNotifier interface {
	MarkTileDirty(pos spatial.Position)
}

// ItemClassifier supplies the descriptor-table knowledge an order-sensitive
// tile mutation needs: whether an item belongs on the ground, and where it
// sorts within the stacked-items vector. A nil classifier is valid and
// makes AddItem degrade to an unconditional append, matching AddItemDirect,
// since there is nothing to classify against (§4.3.2: "items without
// descriptors still load").
type ItemClassifier interface {
	IsGround(serverID uint16) bool
	StackOrder(serverID uint16) int
}

// Tile is the sparse per-position content: at most one ground item, an
// ordered stack of items, a flag bitset, house association, and at most
// one spawn and one creature. Tiles are move-only: always handled by
// pointer, never copied by value.
type Tile struct {
	Position spatial.Position
	Ground   *Item
	Items    []*Item
	Flags    Flag
	HouseID  uint32
	Spawn    *Spawn
	Creature *Creature

	parent dirtyNotifier
}

// NewTile creates an empty tile at pos.
func NewTile(pos spatial.Position) *Tile {
	return &Tile{Position: pos}
}

// SetParentChunk installs the tile's dirty-notification back-pointer.
// Called once by the owning chunk when the tile is inserted.
func (t *Tile) SetParentChunk(n dirtyNotifier) { t.parent = n }

func (t *Tile) markDirty() {
	if t.parent != nil {
		t.parent.MarkTileDirty(t.Position)
	}
}

// IsEmpty reports whether the tile has no ground, items, creature or spawn.
func (t *Tile) IsEmpty() bool {
	return t.Ground == nil && len(t.Items) == 0 && t.Creature == nil && t.Spawn == nil
}

// AddItem inserts item, auto-promoting it to the ground slot when none is
// set and classifier identifies it as a ground-kind item; otherwise it is
// inserted into the stacked-items vector in ascending StackOrder, appended
// after any equal-order items already present. With a nil classifier this
// behaves exactly like AddItemDirect.
func (t *Tile) AddItem(item *Item, classifier ItemClassifier) {
	if classifier != nil {
		if t.Ground == nil && classifier.IsGround(item.ServerID) {
			t.Ground = item
			t.markDirty()
			return
		}
		order := classifier.StackOrder(item.ServerID)
		idx := len(t.Items)
		for i, existing := range t.Items {
			if classifier.StackOrder(existing.ServerID) > order {
				idx = i
				break
			}
		}
		t.Items = append(t.Items, nil)
		copy(t.Items[idx+1:], t.Items[idx:])
		t.Items[idx] = item
		t.markDirty()
		return
	}
	t.AddItemDirect(item)
}

// AddItemDirect appends item to the stacked-items vector without any
// promotion or sorting. Used by the codec and by history restore to
// preserve exact on-disk / pre-undo order.
func (t *Tile) AddItemDirect(item *Item) {
	t.Items = append(t.Items, item)
	t.markDirty()
}

// RemoveItemAt removes and returns the item at index i.
func (t *Tile) RemoveItemAt(i int) *Item {
	if i < 0 || i >= len(t.Items) {
		return nil
	}
	item := t.Items[i]
	t.Items = append(t.Items[:i:i], t.Items[i+1:]...)
	t.markDirty()
	return item
}

// RemoveItemsIf removes every stacked item for which predicate returns
// true, preserving the relative order of the survivors, and returns the
// count removed.
func (t *Tile) RemoveItemsIf(predicate func(*Item) bool) int {
	removed := 0
	kept := t.Items[:0]
	for _, it := range t.Items {
		if predicate(it) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	t.Items = kept
	if removed > 0 {
		t.markDirty()
	}
	return removed
}

// SetGround replaces the ground item, returning whatever was there before.
func (t *Tile) SetGround(item *Item) *Item {
	prev := t.Ground
	t.Ground = item
	t.markDirty()
	return prev
}

// RemoveGround clears and returns the ground item.
func (t *Tile) RemoveGround() *Item {
	prev := t.Ground
	t.Ground = nil
	t.markDirty()
	return prev
}

// SetCreature installs a creature, returning whatever was there before.
func (t *Tile) SetCreature(c *Creature) *Creature {
	prev := t.Creature
	t.Creature = c
	t.markDirty()
	return prev
}

// RemoveCreature clears and returns the tile's creature.
func (t *Tile) RemoveCreature() *Creature {
	prev := t.Creature
	t.Creature = nil
	t.markDirty()
	return prev
}

// SetSpawn installs a spawn, returning whatever was there before.
func (t *Tile) SetSpawn(s *Spawn) *Spawn {
	prev := t.Spawn
	t.Spawn = s
	t.markDirty()
	return prev
}

// RemoveSpawn clears and returns the tile's spawn.
func (t *Tile) RemoveSpawn() *Spawn {
	prev := t.Spawn
	t.Spawn = nil
	t.markDirty()
	return prev
}

// Clone deep-copies the tile: ground, every stacked item (recursively,
// including container children), the creature and the spawn. The clone's
// parent back-pointer is left nil; the caller re-parents it on insertion.
func (t *Tile) Clone() *Tile {
	c := &Tile{
		Position: t.Position,
		Flags:    t.Flags,
		HouseID:  t.HouseID,
	}
	if t.Ground != nil {
		c.Ground = t.Ground.Clone()
	}
	if len(t.Items) > 0 {
		c.Items = make([]*Item, len(t.Items))
		for i, it := range t.Items {
			c.Items[i] = it.Clone()
		}
	}
	if t.Creature != nil {
		c.Creature = t.Creature.Clone()
	}
	if t.Spawn != nil {
		c.Spawn = t.Spawn.Clone()
	}
	return c
}
