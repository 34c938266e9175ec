package otbm

import (
	"fmt"
	"io"
	"sort"

	"github.com/kolvynathar/tilemapcore/codec/node"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

const tileAreaEdge = 256

func floorDivArea(v int32) int32 {
	q := v / tileAreaEdge
	if v%tileAreaEdge != 0 && v < 0 {
		q--
	}
	return q * tileAreaEdge
}

type areaKey struct {
	baseX, baseY int32
	z            int16
}

// Save encodes m as a full map container, writing the inverse of Load:
// tiles bucketed into 256x256 tile areas in ascending (z, base_y, base_x)
// order, spawns resolved against first-claiming-spawn-wins creature
// ownership, and towns/waypoints in their stored order.
func Save(w io.Writer, m *worldmap.ChunkedMap) error {
	nw, err := node.Create(w, Identifier)
	if err != nil {
		return err
	}

	nw.BeginNode(typeRootHeader)
	nw.WriteU32(m.Version.OTBMVersion)
	nw.WriteU16(uint16(m.Width))
	nw.WriteU16(uint16(m.Height))
	nw.WriteU32(m.Version.ItemsMajor)
	nw.WriteU32(m.Version.ItemsMinor)

	nw.BeginNode(typeMapData)
	if m.Description != "" {
		nw.WriteU8(attrDescription)
		nw.WriteString(m.Description)
	}
	if m.SpawnFile != "" {
		nw.WriteU8(attrExtSpawnFile)
		nw.WriteString(m.SpawnFile)
	}
	if m.HouseFile != "" {
		nw.WriteU8(attrExtHouseFile)
		nw.WriteString(m.HouseFile)
	}

	writeTileAreas(nw, m)
	writeTowns(nw, m)
	writeSpawns(nw, m)
	writeWaypoints(nw, m)

	nw.EndNode() // MapData
	nw.EndNode() // RootHeader

	if err := nw.Close(); err != nil {
		return fmt.Errorf("otbm: write: %w", err)
	}
	return nil
}

func writeTileAreas(nw *node.Writer, m *worldmap.ChunkedMap) {
	areas := make(map[areaKey][]*tile.Tile)
	m.ForEachTile(func(t *tile.Tile) {
		key := areaKey{baseX: floorDivArea(t.Position.X), baseY: floorDivArea(t.Position.Y), z: t.Position.Z}
		areas[key] = append(areas[key], t)
	})
	keys := make([]areaKey, 0, len(areas))
	for k := range areas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.z != b.z {
			return a.z < b.z
		}
		if a.baseY != b.baseY {
			return a.baseY < b.baseY
		}
		return a.baseX < b.baseX
	})
	for _, key := range keys {
		nw.BeginNode(typeTileArea)
		nw.WriteU16(uint16(key.baseX))
		nw.WriteU16(uint16(key.baseY))
		nw.WriteU8(uint8(key.z))
		tiles := areas[key]
		sort.Slice(tiles, func(i, j int) bool {
			if tiles[i].Position.Y != tiles[j].Position.Y {
				return tiles[i].Position.Y < tiles[j].Position.Y
			}
			return tiles[i].Position.X < tiles[j].Position.X
		})
		for _, t := range tiles {
			writeTile(nw, t, key.baseX, key.baseY, key.z)
		}
		nw.EndNode()
	}
}

func writeTile(nw *node.Writer, t *tile.Tile, baseX, baseY int32, baseZ int16) {
	nodeType := typeTile
	if t.HouseID != 0 {
		nodeType = typeHouseTile
	}
	nw.BeginNode(byte(nodeType))
	nw.WriteU8(uint8(t.Position.X - baseX))
	nw.WriteU8(uint8(t.Position.Y - baseY))
	if nodeType == typeHouseTile {
		nw.WriteU32(t.HouseID)
	}
	if t.Flags != tile.FlagNone {
		nw.WriteU8(attrTileFlags)
		nw.WriteU32(uint32(t.Flags))
	}
	if t.Ground != nil {
		writeItem(nw, t.Ground)
	}
	for _, it := range t.Items {
		writeItem(nw, it)
	}
	nw.EndNode()
}

func writeTowns(nw *node.Writer, m *worldmap.ChunkedMap) {
	if len(m.Towns) == 0 {
		return
	}
	nw.BeginNode(typeTowns)
	for _, town := range m.Towns {
		nw.BeginNode(typeTown)
		nw.WriteU32(town.ID)
		nw.WriteString(town.Name)
		nw.WriteU16(uint16(town.Temple.X))
		nw.WriteU16(uint16(town.Temple.Y))
		nw.WriteU8(uint8(town.Temple.Z))
		nw.EndNode()
	}
	nw.EndNode()
}

func writeWaypoints(nw *node.Writer, m *worldmap.ChunkedMap) {
	if len(m.Waypoints) == 0 {
		return
	}
	nw.BeginNode(typeWaypoints)
	for _, wp := range m.Waypoints {
		nw.BeginNode(typeWaypoint)
		nw.WriteString(wp.Name)
		nw.WriteU16(uint16(wp.Position.X))
		nw.WriteU16(uint16(wp.Position.Y))
		nw.WriteU8(uint8(wp.Position.Z))
		nw.EndNode()
	}
	nw.EndNode()
}

type spawnEntry struct {
	pos   spatial.Position
	spawn *tile.Spawn
}

func writeSpawns(nw *node.Writer, m *worldmap.ChunkedMap) {
	var spawns []spawnEntry
	var creatures []spatial.Position
	m.ForEachTile(func(t *tile.Tile) {
		if t.Spawn != nil {
			spawns = append(spawns, spawnEntry{pos: t.Position, spawn: t.Spawn})
		}
		if t.Creature != nil {
			creatures = append(creatures, t.Position)
		}
	})
	if len(spawns) == 0 {
		return
	}
	claimed := make(map[spatial.Position]bool, len(creatures))
	owned := make([][]spatial.Position, len(spawns))
	for i, s := range spawns {
		for _, cpos := range creatures {
			if claimed[cpos] {
				continue
			}
			if s.spawn.Contains(cpos) {
				owned[i] = append(owned[i], cpos)
				claimed[cpos] = true
			}
		}
	}

	nw.BeginNode(typeSpawns)
	for i, s := range spawns {
		nw.BeginNode(typeSpawnArea)
		nw.WriteU16(uint16(s.pos.X))
		nw.WriteU16(uint16(s.pos.Y))
		nw.WriteU8(uint8(s.pos.Z))
		nw.WriteU16(uint16(s.spawn.Radius))
		for _, cpos := range owned[i] {
			creatureTile := m.GetTile(cpos)
			if creatureTile == nil || creatureTile.Creature == nil {
				continue
			}
			c := creatureTile.Creature
			nw.BeginNode(typeMonster)
			nw.WriteU16(uint16(cpos.X - s.pos.X))
			nw.WriteU16(uint16(cpos.Y - s.pos.Y))
			nw.WriteString(c.Name)
			nw.WriteU16(c.SpawnTime)
			nw.EndNode()
		}
		nw.EndNode()
	}
	nw.EndNode()
}
