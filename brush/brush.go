package brush

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Kind tags a brush's concrete variant, used to look up its preview
// provider and to dispatch generic removal helpers. A tagged sum type
// (rather than open subclassing) per §9's design note on the
// heterogeneous brush hierarchy.
type Kind uint8

const (
	KindRaw Kind = iota
	KindCreature
	KindSpawn
	KindEraser
	KindFlag
	KindHouse
	KindWaypoint
)

// Context is threaded into every Draw call: a per-stroke variation
// counter, whether the stroke is mid-drag, and a borrow of the shared
// settings service.
type Context struct {
	Variation  int
	IsDragging bool
	Settings   *SettingsService
}

// Brush is the contract every brush variant implements.
type Brush interface {
	Name() string
	LookID() uint16
	Draggable() bool
	TypeTag() Kind
	Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context)
	Undraw(m *worldmap.ChunkedMap, t *tile.Tile)
	OwnsItem(it *tile.Item) bool
}

// RawBrush stamps a specific server_id item, auto-promoted to ground if
// the classifier says so.
type RawBrush struct {
	ServerID   uint16
	Classifier tile.ItemClassifier
	BrushName  string
	Look       uint16
}

func (b *RawBrush) Name() string   { return b.BrushName }
func (b *RawBrush) LookID() uint16 { return b.Look }
func (b *RawBrush) Draggable() bool { return true }
func (b *RawBrush) TypeTag() Kind   { return KindRaw }

func (b *RawBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) {
	it := tile.NewItem(b.ServerID)
	t.AddItem(it, b.Classifier)
}

func (b *RawBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile) {
	t.RemoveItemsIf(b.OwnsItem)
	if t.Ground != nil && b.OwnsItem(t.Ground) {
		t.RemoveGround()
	}
}

func (b *RawBrush) OwnsItem(it *tile.Item) bool { return it != nil && it.ServerID == b.ServerID }

// CreatureBrush places a named creature with a fixed outfit, optionally
// backing it with an auto-created spawn.
type CreatureBrush struct {
	CreatureName string
	Outfit       tile.Outfit
	BrushName    string
	Look         uint16
}

func (b *CreatureBrush) Name() string    { return b.BrushName }
func (b *CreatureBrush) LookID() uint16  { return b.Look }
func (b *CreatureBrush) Draggable() bool { return false }
func (b *CreatureBrush) TypeTag() Kind   { return KindCreature }

func (b *CreatureBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) {
	t.SetCreature(&tile.Creature{Name: b.CreatureName, Outfit: b.Outfit, Position: t.Position, SpawnTime: uint16(ctx.Settings.DefaultSpawnTime)})
	if ctx.Settings != nil && ctx.Settings.AutoSpawn && !anySpawnCovers(m, t.Position) {
		t.SetSpawn(&tile.Spawn{Center: t.Position, Radius: ctx.Settings.DefaultSpawnRadius})
		m.NotifySpawnChange(t.Position, true)
	}
}

func (b *CreatureBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile) {
	t.RemoveCreature()
}

func (b *CreatureBrush) OwnsItem(it *tile.Item) bool { return false }

// anySpawnCovers scans floor z for any existing spawn whose radius
// already reaches pos, the check CreatureBrush needs before
// auto-creating a new one.
func anySpawnCovers(m *worldmap.ChunkedMap, pos spatial.Position) bool {
	covers := false
	m.ForEachTileOnFloor(pos.Z, func(t *tile.Tile) {
		if covers || t.Spawn == nil {
			return
		}
		if t.Spawn.Contains(pos) {
			covers = true
		}
	})
	return covers
}

// SpawnBrush creates a spawn at the painted tile, refusing to overwrite
// one that's already there (§9 Open Question: current policy is silent
// skip, not overwrite).
type SpawnBrush struct {
	Radius    int32
	BrushName string
	Look      uint16
}

func (b *SpawnBrush) Name() string    { return b.BrushName }
func (b *SpawnBrush) LookID() uint16  { return b.Look }
func (b *SpawnBrush) Draggable() bool { return false }
func (b *SpawnBrush) TypeTag() Kind   { return KindSpawn }

func (b *SpawnBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) {
	if t.Spawn != nil {
		return
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 3
	}
	t.SetSpawn(&tile.Spawn{Center: t.Position, Radius: radius})
	m.NotifySpawnChange(t.Position, true)
}

func (b *SpawnBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile) {
	if t.Spawn != nil {
		t.RemoveSpawn()
		m.NotifySpawnChange(t.Position, false)
	}
}

func (b *SpawnBrush) OwnsItem(it *tile.Item) bool { return false }

// EraserTargets is the configurable subset of tile content the eraser
// brush clears, matching the original editor's per-kind bitset rather
// than a single bool (SPEC_FULL §3's supplemented EraserBrush.Targets).
type EraserTargets uint8

const (
	EraseGround EraserTargets = 1 << iota
	EraseItems
	EraseCreature
	EraseSpawn
	EraseAll = EraseGround | EraseItems | EraseCreature | EraseSpawn
)

// EraserBrush clears the configured subset of a tile's content. Undraw is
// a no-op: history handles reversal (§4.7).
type EraserBrush struct {
	Targets EraserTargets
}

func (b *EraserBrush) Name() string    { return "Eraser" }
func (b *EraserBrush) LookID() uint16  { return 0 }
func (b *EraserBrush) Draggable() bool { return true }
func (b *EraserBrush) TypeTag() Kind   { return KindEraser }

func (b *EraserBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) {
	if b.Targets&EraseGround != 0 {
		t.RemoveGround()
	}
	if b.Targets&EraseItems != 0 {
		t.Items = nil
	}
	if b.Targets&EraseCreature != 0 {
		t.RemoveCreature()
	}
	if b.Targets&EraseSpawn != 0 && t.Spawn != nil {
		t.RemoveSpawn()
		m.NotifySpawnChange(t.Position, false)
	}
}

func (b *EraserBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile) {}

func (b *EraserBrush) OwnsItem(it *tile.Item) bool { return false }

// FlagBrush sets or clears a single tile flag.
type FlagBrush struct {
	Flag      tile.Flag
	BrushName string
	Look      uint16
}

func (b *FlagBrush) Name() string    { return b.BrushName }
func (b *FlagBrush) LookID() uint16  { return b.Look }
func (b *FlagBrush) Draggable() bool { return true }
func (b *FlagBrush) TypeTag() Kind   { return KindFlag }

func (b *FlagBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context)   { t.Flags |= b.Flag }
func (b *FlagBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile)              { t.Flags &^= b.Flag }
func (b *FlagBrush) OwnsItem(it *tile.Item) bool                              { return false }

// HouseBrush assigns (or, with HouseID 0, clears) a tile's house_id.
type HouseBrush struct {
	HouseID uint32
}

func (b *HouseBrush) Name() string    { return "House" }
func (b *HouseBrush) LookID() uint16  { return 0 }
func (b *HouseBrush) Draggable() bool { return true }
func (b *HouseBrush) TypeTag() Kind   { return KindHouse }

func (b *HouseBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) { t.HouseID = b.HouseID }
func (b *HouseBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile)            { t.HouseID = 0 }
func (b *HouseBrush) OwnsItem(it *tile.Item) bool                            { return false }

// WaypointBrush is reserved for a named navigation marker (§4.7: "stub").
// It carries a name but performs no tile mutation — waypoints live on
// ChunkedMap.Waypoints, not on individual tiles, and the editor's
// waypoint-placement flow (out of scope here) is responsible for
// appending to that list.
type WaypointBrush struct {
	WaypointName string
}

func (b *WaypointBrush) Name() string    { return "Waypoint" }
func (b *WaypointBrush) LookID() uint16  { return 0 }
func (b *WaypointBrush) Draggable() bool { return false }
func (b *WaypointBrush) TypeTag() Kind   { return KindWaypoint }
func (b *WaypointBrush) Draw(m *worldmap.ChunkedMap, t *tile.Tile, ctx Context) {}
func (b *WaypointBrush) Undraw(m *worldmap.ChunkedMap, t *tile.Tile)            {}
func (b *WaypointBrush) OwnsItem(it *tile.Item) bool                           { return false }
