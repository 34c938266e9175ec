// Package tile holds the per-tile domain aggregates: items, creatures,
// spawns and the tile itself.
package tile

import "sync/atomic"

var nextItemHandle uint64

// nextHandle hands out a process-unique, monotonically increasing id used
// as the stable local_id portion of an EntityId for stacked items. It is
// never reused and never zero, so zero is free to mean "no handle" / "the
// ground slot" everywhere else in the engine.
func nextHandle() uint64 {
	return atomic.AddUint64(&nextItemHandle, 1)
}

// ItemData carries the small, almost-always-present per-item fields that
// are stored inline rather than in the lazily-allocated extension record.
type ItemData struct {
	ActionID uint16
	UniqueID uint16
	Count    uint8
	Charges  uint8
	Tier     uint8
	Duration uint16
	Flags    ItemFlags
}

// ItemFlags is a small bitset of rarely-used boolean item properties that
// don't warrant their own struct field.
type ItemFlags uint8

const (
	ItemFlagNone ItemFlags = 0
)

// AttributeValue is one value of the OTBM v4 generic attribute map. Exactly
// one field is meaningful, selected by Kind.
type AttributeValue struct {
	Kind AttributeKind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

// AttributeKind tags which field of AttributeValue holds the value.
type AttributeKind uint8

const (
	AttrString AttributeKind = iota
	AttrInt
	AttrFloat
	AttrBool
)

// ItemExtension holds the rarely-set item fields. It is allocated on first
// write so the common case (a plain item with none of these) pays nothing.
type ItemExtension struct {
	Text              string
	Description       string
	HasTeleport       bool
	TeleportX         int32
	TeleportY         int32
	TeleportZ         int16
	DepotID           uint16
	HasDepot          bool
	DoorID            uint8
	HasDoor           bool
	Attributes        map[string]AttributeValue
}

// Item is a single item instance: ground item, stacked item, or a container
// child. Items may nest via Container.
type Item struct {
	handle   uint64
	ServerID uint16
	ClientID uint16
	HasClientID bool
	Data     ItemData
	ext      *ItemExtension
	Container []*Item
}

// NewItem creates an item with a fresh, process-unique handle.
func NewItem(serverID uint16) *Item {
	return &Item{handle: nextHandle(), ServerID: serverID}
}

// Handle returns the item's stable identity, used as the local_id of an
// EntityId when the item is a stacked (non-ground) entity.
func (it *Item) Handle() uint64 { return it.handle }

// Extension lazily allocates and returns the extension record.
func (it *Item) Extension() *ItemExtension {
	if it.ext == nil {
		it.ext = &ItemExtension{}
	}
	return it.ext
}

// ExtensionOrNil returns the extension record without allocating one.
func (it *Item) ExtensionOrNil() *ItemExtension { return it.ext }

// IsComplex reports whether the item needs anything beyond its core ids:
// a non-zero action/unique id, a stack count over one, an allocated
// extension record, or a non-empty container.
func (it *Item) IsComplex() bool {
	if it.Data.ActionID != 0 || it.Data.UniqueID != 0 || it.Data.Count > 1 {
		return true
	}
	if it.ext != nil {
		return true
	}
	return len(it.Container) > 0
}

// Clone performs a deep copy: the extension record and every container
// child are copied, and the clone gets its own fresh handle so it can be
// placed independently without colliding with the original's identity.
func (it *Item) Clone() *Item {
	c := &Item{
		handle:      nextHandle(),
		ServerID:    it.ServerID,
		ClientID:    it.ClientID,
		HasClientID: it.HasClientID,
		Data:        it.Data,
	}
	if it.ext != nil {
		ext := *it.ext
		if it.ext.Attributes != nil {
			ext.Attributes = make(map[string]AttributeValue, len(it.ext.Attributes))
			for k, v := range it.ext.Attributes {
				ext.Attributes[k] = v
			}
		}
		c.ext = &ext
	}
	if len(it.Container) > 0 {
		c.Container = make([]*Item, len(it.Container))
		for i, child := range it.Container {
			c.Container[i] = child.Clone()
		}
	}
	return c
}
