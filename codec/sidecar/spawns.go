// Package sidecar round-trips the two small XML schemas that can live
// alongside the binary map container: spawn definitions and house
// metadata. Both fail soft per spec §4.4: a malformed file yields a
// Result with Success=false rather than aborting the caller's load.
package sidecar

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Result reports the outcome of a sidecar load: whether it succeeded, an
// error (when it didn't), and how many entities of each kind were applied.
type Result struct {
	Success bool
	Err     error
	Counts  map[string]int
}

// spawnsFile is the <spawns> root element.
type spawnsFile struct {
	XMLName xml.Name    `xml:"spawns"`
	Spawns  []xmlSpawn  `xml:"spawn"`
}

type xmlSpawn struct {
	CenterX  int32      `xml:"centerx,attr"`
	CenterY  int32      `xml:"centery,attr"`
	CenterZ  int16      `xml:"centerz,attr"`
	Radius   int32      `xml:"radius,attr"`
	Monsters []xmlMonster `xml:"monster"`
}

type xmlMonster struct {
	Name      string  `xml:"name,attr"`
	X         int32   `xml:"x,attr"`
	Y         int32   `xml:"y,attr"`
	SpawnTime uint16  `xml:"spawntime,attr"`
	Direction *uint8  `xml:"direction,attr"`
}

// direction resolves the schema default (south) when the attribute was
// omitted from the source file.
func (m xmlMonster) direction() spatial.Direction {
	if m.Direction == nil {
		return spatial.South
	}
	return spatial.Direction(*m.Direction)
}

// LoadSpawns parses a spawns XML sidecar and applies it to m: a Spawn is
// attached to each center tile (skipped if one already exists there —
// duplicate-spawn entries are a documented SilentSkip, §7) and a Creature
// is placed at each monster's absolute (center + offset) position.
// direction defaults to South (2) when omitted, matching the schema.
func LoadSpawns(r io.Reader, m *worldmap.ChunkedMap) Result {
	var doc spawnsFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Result{Err: fmt.Errorf("sidecar: decode spawns xml: %w", err)}
	}
	counts := map[string]int{"spawns": 0, "monsters": 0, "skipped_duplicate_spawn": 0}
	for _, sp := range doc.Spawns {
		center := spatial.New(sp.CenterX, sp.CenterY, sp.CenterZ)
		ct := m.GetOrCreateTile(center)
		if ct.Spawn != nil {
			counts["skipped_duplicate_spawn"]++
			continue
		}
		ct.SetSpawn(&tile.Spawn{Center: center, Radius: sp.Radius})
		m.NotifySpawnChange(center, true)
		counts["spawns"]++
		for _, mon := range sp.Monsters {
			pos := spatial.New(sp.CenterX+mon.X, sp.CenterY+mon.Y, sp.CenterZ)
			mt := m.GetOrCreateTile(pos)
			mt.SetCreature(&tile.Creature{
				Name:      mon.Name,
				SpawnTime: mon.SpawnTime,
				Direction: mon.direction(),
				Position:  pos,
			})
			counts["monsters"]++
		}
	}
	return Result{Success: true, Counts: counts}
}

// SaveSpawns serializes every spawn on m (scanning creatures within each
// spawn's radius on its floor, the same rule the main codec's writer
// uses: a creature covered by several spawns is listed only under the
// first one in ForEachTile order) into the spawns XML schema.
func SaveSpawns(w io.Writer, m *worldmap.ChunkedMap) error {
	doc := spawnsFile{}
	claimed := make(map[spatial.Position]bool)
	m.ForEachTile(func(t *tile.Tile) {
		if t.Spawn == nil {
			return
		}
		xs := xmlSpawn{
			CenterX: t.Spawn.Center.X,
			CenterY: t.Spawn.Center.Y,
			CenterZ: t.Spawn.Center.Z,
			Radius:  t.Spawn.Radius,
		}
		m.ForEachTileOnFloor(t.Spawn.Center.Z, func(ct *tile.Tile) {
			if ct.Creature == nil || claimed[ct.Position] || !t.Spawn.Contains(ct.Position) {
				return
			}
			claimed[ct.Position] = true
			dir := uint8(ct.Creature.Direction)
			xs.Monsters = append(xs.Monsters, xmlMonster{
				Name:      ct.Creature.Name,
				X:         ct.Position.X - t.Spawn.Center.X,
				Y:         ct.Position.Y - t.Spawn.Center.Y,
				SpawnTime: ct.Creature.SpawnTime,
				Direction: &dir,
			})
		})
		doc.Spawns = append(doc.Spawns, xs)
	})
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("sidecar: encode spawns xml: %w", err)
	}
	return nil
}
