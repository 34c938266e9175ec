// Package itemdb models the client descriptor table: a read-only
// server_id -> ItemType lookup that the rendering layer, search, and
// cleanup services consult. The table's on-disk format (the client's own
// OTB/dat/spr files) is an external collaborator per spec — this package
// only defines the in-memory shape and the queries built on top of it.
package itemdb

// Group classifies an item's broad on-disk category, mirroring the OTB
// item-group byte.
type Group uint8

const (
	GroupNone Group = iota
	GroupGround
	GroupContainer
	GroupWeapon
	GroupAmmunition
	GroupArmor
	GroupCharges
	GroupTeleport
	GroupMagicField
	GroupWriteable
	GroupKey
	GroupSplash
	GroupFluid
	GroupDoor
	GroupDeprecated
	GroupPodium
	GroupBed
)

// WeaponType narrows GroupWeapon/GroupAmmunition further.
type WeaponType uint8

const (
	WeaponNone WeaponType = iota
	WeaponSword
	WeaponClub
	WeaponAxe
	WeaponShield
	WeaponDistance
	WeaponWand
	WeaponAmmo
)

// SlotPosition is the equip slot bitset an ItemType may occupy.
type SlotPosition uint16

const (
	SlotNone SlotPosition = 0
	SlotHead SlotPosition = 1 << iota
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotRightHand
	SlotLeftHand
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
)

// ItemType is the descriptor-table entry for one server_id. Only the
// fields search/cleanup/brush actually consult are populated by this
// engine; everything else is carried for the rendering layer's benefit.
type ItemType struct {
	ServerID  uint16
	ClientID  uint16
	Name      string
	Group     Group
	Weapon    WeaponType
	Slot      SlotPosition

	Stackable   bool
	Moveable    bool
	Pickupable  bool
	Hangable    bool
	HookEast    bool
	HookSouth   bool
	Unpassable  bool
	BlocksMissiles bool
	Readable    bool
	HasLight    bool
	Decays      bool
	HasElevation bool
	FloorChange bool

	Volume     uint16
	MaxTextLen uint16
	RotateTo   uint16
	LightLevel uint8
	DecayTo    uint16
	Charges    uint16
	Speed      int16
}

// IsGroundType reports whether this descriptor marks a ground-kind item,
// the one piece of classifier knowledge codec/history/tile care about.
func (it *ItemType) IsGroundType() bool { return it.Group == GroupGround }

// IsDepot, IsContainer, IsDoor, IsMagicField, IsTeleport, IsBed, IsKey,
// IsPodium, IsWeapon, IsAmmo, IsArmor mirror the predicate family spec §6
// calls for on the descriptor table, used by search's database filter.
func (it *ItemType) IsDepot() bool       { return it.Group == GroupContainer && it.Slot == SlotBackpack && it.Name == "depot" }
func (it *ItemType) IsContainer() bool   { return it.Group == GroupContainer }
func (it *ItemType) IsDoor() bool        { return it.Group == GroupDoor }
func (it *ItemType) IsMagicField() bool  { return it.Group == GroupMagicField }
func (it *ItemType) IsTeleport() bool    { return it.Group == GroupTeleport }
func (it *ItemType) IsBed() bool         { return it.Group == GroupBed }
func (it *ItemType) IsKey() bool         { return it.Group == GroupKey }
func (it *ItemType) IsPodium() bool      { return it.Group == GroupPodium }
func (it *ItemType) IsWeapon() bool {
	return it.Group == GroupWeapon && it.Weapon != WeaponNone && it.Weapon != WeaponAmmo
}
func (it *ItemType) IsAmmo() bool   { return it.Weapon == WeaponAmmo }
func (it *ItemType) IsArmor() bool  { return it.Group == GroupArmor }

// Table is the full server_id -> ItemType registry for one client
// version. It is built once (by a caller-supplied OTB/dat loader, out of
// scope here) and consulted read-only thereafter.
type Table struct {
	byServerID map[uint16]*ItemType
	byClientID map[uint16]*ItemType
	ordered    []*ItemType
}

// New builds a Table from a flat list of descriptors. Later entries with
// a duplicate ServerID overwrite earlier ones.
func New(items []ItemType) *Table {
	t := &Table{
		byServerID: make(map[uint16]*ItemType, len(items)),
		byClientID: make(map[uint16]*ItemType, len(items)),
		ordered:    make([]*ItemType, 0, len(items)),
	}
	for i := range items {
		it := &items[i]
		t.byServerID[it.ServerID] = it
		if it.ClientID != 0 {
			t.byClientID[it.ClientID] = it
		}
		t.ordered = append(t.ordered, it)
	}
	return t
}

// Lookup returns the descriptor for serverID, if known. A nil table (no
// descriptor data loaded) always reports not-found.
func (t *Table) Lookup(serverID uint16) (*ItemType, bool) {
	if t == nil {
		return nil, false
	}
	it, ok := t.byServerID[serverID]
	return it, ok
}

// LookupByClientID returns the descriptor whose ClientID matches, if any.
func (t *Table) LookupByClientID(clientID uint16) (*ItemType, bool) {
	if t == nil {
		return nil, false
	}
	it, ok := t.byClientID[clientID]
	return it, ok
}

// IsGround implements tile.ItemClassifier: ground-ness is resolved via the
// descriptor table when one is available.
func (t *Table) IsGround(serverID uint16) bool {
	it, ok := t.Lookup(serverID)
	return ok && it.IsGroundType()
}

// StackOrder implements tile.ItemClassifier. Ground-kind items sort
// first, then items in ascending Group, then by ServerID for a stable
// tiebreak; unknown ids sort last so they never displace known stack
// furniture.
func (t *Table) StackOrder(serverID uint16) int {
	it, ok := t.Lookup(serverID)
	if !ok {
		return 1 << 25
	}
	if it.IsGroundType() {
		return int(serverID)
	}
	return (int(it.Group)+1)<<16 | int(serverID)
}

// Len returns the number of registered descriptors.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ordered)
}

// ForEach visits every descriptor in registration order, stopping early
// if fn returns false. A nil table visits nothing.
func (t *Table) ForEach(fn func(*ItemType) bool) {
	if t == nil {
		return
	}
	for _, it := range t.ordered {
		if !fn(it) {
			return
		}
	}
}
