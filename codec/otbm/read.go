package otbm

import (
	"fmt"
	"io"

	"github.com/kolvynathar/tilemapcore/codec/node"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Load decodes a full map container from r. classifier may be nil; it is
// not consulted while parsing, so every tile's items load in on-disk
// order under the codec's own first-item-is-ground rule either way.
func Load(r io.Reader, classifier tile.ItemClassifier) (*worldmap.ChunkedMap, error) {
	rd, err := node.Open(r, Identifier)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	root, err := rd.Root()
	if err != nil {
		return nil, fmt.Errorf("otbm: read root: %w", err)
	}
	if root.Type != typeRootHeader {
		return nil, fmt.Errorf("otbm: root node type %d: %w", root.Type, ErrUnknownNodeType)
	}
	hdr, err := readRootHeader(root)
	if err != nil {
		return nil, err
	}
	if hdr.Version > MaxSupportedVersion {
		return nil, fmt.Errorf("otbm: version %d exceeds max %d: %w", hdr.Version, MaxSupportedVersion, ErrUnsupportedVersion)
	}

	m := worldmap.New()
	m.Width = int(hdr.Width)
	m.Height = int(hdr.Height)
	m.Version = worldmap.Version{OTBMVersion: hdr.Version, ItemsMajor: hdr.ItemsMajor, ItemsMinor: hdr.ItemsMinor}

	children := root.Children()
	if len(children) == 0 {
		return nil, fmt.Errorf("otbm: root has no MapData child: %w", ErrMalformed)
	}
	mapData := children[0]
	if mapData.Type != typeMapData {
		return nil, fmt.Errorf("otbm: expected MapData, got type %d: %w", mapData.Type, ErrUnknownNodeType)
	}
	if err := readMapDataAttrs(mapData, m); err != nil {
		return nil, err
	}

	for _, child := range mapData.Children() {
		switch child.Type {
		case typeTileArea:
			if err := readTileArea(child, m, classifier); err != nil {
				return nil, err
			}
		case typeTowns:
			if err := readTowns(child, m); err != nil {
				return nil, err
			}
		case typeSpawns:
			if err := readSpawns(child, m); err != nil {
				return nil, err
			}
		case typeWaypoints:
			if err := readWaypoints(child, m); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("otbm: unexpected MapData child type %d: %w", child.Type, ErrUnknownNodeType)
		}
	}
	return m, nil
}

// LoadHeader reads only the root header and the Description/ExtSpawnFile/
// ExtHouseFile attributes of MapData, stopping before any tile data. Used
// for map-summary listings that must not pay the cost of a full parse.
func LoadHeader(r io.Reader) (Header, error) {
	rd, err := node.Open(r, Identifier)
	if err != nil {
		return Header{}, err
	}
	defer rd.Close()

	root, err := rd.Root()
	if err != nil {
		return Header{}, fmt.Errorf("otbm: read root: %w", err)
	}
	hdr, err := readRootHeader(root)
	if err != nil {
		return Header{}, err
	}
	children := root.Children()
	if len(children) > 0 && children[0].Type == typeMapData {
		_ = readHeaderAttrsOnly(children[0], &hdr)
	}
	return hdr, nil
}

func readRootHeader(root *node.Node) (Header, error) {
	var hdr Header
	var err error
	if hdr.Version, err = root.ReadU32(); err != nil {
		return hdr, fmt.Errorf("otbm: otbm_version: %w", err)
	}
	if hdr.Width, err = root.ReadU16(); err != nil {
		return hdr, fmt.Errorf("otbm: width: %w", err)
	}
	if hdr.Height, err = root.ReadU16(); err != nil {
		return hdr, fmt.Errorf("otbm: height: %w", err)
	}
	if hdr.ItemsMajor, err = root.ReadU32(); err != nil {
		return hdr, fmt.Errorf("otbm: items_major: %w", err)
	}
	if hdr.ItemsMinor, err = root.ReadU32(); err != nil {
		return hdr, fmt.Errorf("otbm: items_minor: %w", err)
	}
	return hdr, nil
}

func readHeaderAttrsOnly(mapData *node.Node, hdr *Header) error {
	for {
		tag, err := mapData.PeekU8()
		if err != nil {
			return nil
		}
		switch tag {
		case attrDescription:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return err
			}
			hdr.Description = s
		case attrExtSpawnFile:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return err
			}
			hdr.ExtSpawnFile = s
		case attrExtHouseFile:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return err
			}
			hdr.ExtHouseFile = s
		default:
			return nil
		}
	}
}

func readMapDataAttrs(mapData *node.Node, m *worldmap.ChunkedMap) error {
	for {
		tag, err := mapData.PeekU8()
		if err != nil {
			break
		}
		switch tag {
		case attrDescription:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return fmt.Errorf("otbm: description: %w", err)
			}
			m.Description = s
		case attrExtSpawnFile:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return fmt.Errorf("otbm: ext spawn file: %w", err)
			}
			m.SpawnFile = s
		case attrExtHouseFile:
			mapData.ReadU8()
			s, err := mapData.ReadString()
			if err != nil {
				return fmt.Errorf("otbm: ext house file: %w", err)
			}
			m.HouseFile = s
		default:
			return nil
		}
	}
	return nil
}

func readTileArea(areaNode *node.Node, m *worldmap.ChunkedMap, classifier tile.ItemClassifier) error {
	baseX, err := areaNode.ReadU16()
	if err != nil {
		return fmt.Errorf("otbm: tile area base_x: %w", err)
	}
	baseY, err := areaNode.ReadU16()
	if err != nil {
		return fmt.Errorf("otbm: tile area base_y: %w", err)
	}
	baseZ, err := areaNode.ReadU8()
	if err != nil {
		return fmt.Errorf("otbm: tile area base_z: %w", err)
	}
	for _, child := range areaNode.Children() {
		if child.Type != typeTile && child.Type != typeHouseTile {
			return fmt.Errorf("otbm: tile area child type %d: %w", child.Type, ErrUnknownNodeType)
		}
		if err := readTile(child, int32(baseX), int32(baseY), int16(baseZ), m, classifier); err != nil {
			return err
		}
	}
	return nil
}

func readTile(tileNode *node.Node, baseX, baseY int32, baseZ int16, m *worldmap.ChunkedMap, classifier tile.ItemClassifier) error {
	xOff, err := tileNode.ReadU8()
	if err != nil {
		return fmt.Errorf("otbm: tile x_offset: %w", err)
	}
	yOff, err := tileNode.ReadU8()
	if err != nil {
		return fmt.Errorf("otbm: tile y_offset: %w", err)
	}
	var houseID uint32
	if tileNode.Type == typeHouseTile {
		houseID, err = tileNode.ReadU32()
		if err != nil {
			return fmt.Errorf("otbm: house_id: %w", err)
		}
	}
	pos := spatial.New(baseX+int32(xOff), baseY+int32(yOff), baseZ)
	t := m.GetOrCreateTile(pos)
	t.HouseID = houseID

	groundSet := t.Ground != nil
	for {
		tag, err := tileNode.PeekU8()
		if err != nil {
			break
		}
		if tag != attrTileFlags {
			break
		}
		tileNode.ReadU8()
		flags, err := tileNode.ReadU32()
		if err != nil {
			return fmt.Errorf("otbm: tile flags: %w", err)
		}
		t.Flags = tile.Flag(flags)
	}

	for _, child := range tileNode.Children() {
		if child.Type != typeItem {
			return fmt.Errorf("otbm: tile child type %d: %w", child.Type, ErrUnknownNodeType)
		}
		it, err := readItem(child)
		if err != nil {
			return err
		}
		if !groundSet {
			t.Ground = it
			groundSet = true
		} else {
			t.AddItemDirect(it)
		}
	}
	return nil
}

func readTowns(townsNode *node.Node, m *worldmap.ChunkedMap) error {
	for _, child := range townsNode.Children() {
		if child.Type != typeTown {
			return fmt.Errorf("otbm: towns child type %d: %w", child.Type, ErrUnknownNodeType)
		}
		id, err := child.ReadU32()
		if err != nil {
			return fmt.Errorf("otbm: town id: %w", err)
		}
		name, err := child.ReadString()
		if err != nil {
			return fmt.Errorf("otbm: town name: %w", err)
		}
		x, err := child.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: town x: %w", err)
		}
		y, err := child.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: town y: %w", err)
		}
		z, err := child.ReadU8()
		if err != nil {
			return fmt.Errorf("otbm: town z: %w", err)
		}
		m.Towns = append(m.Towns, worldmap.Town{
			ID:     id,
			Name:   name,
			Temple: spatial.New(int32(x), int32(y), int16(z)),
		})
	}
	return nil
}

func readSpawns(spawnsNode *node.Node, m *worldmap.ChunkedMap) error {
	for _, area := range spawnsNode.Children() {
		if area.Type != typeSpawnArea {
			return fmt.Errorf("otbm: spawns child type %d: %w", area.Type, ErrUnknownNodeType)
		}
		x, err := area.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: spawn x: %w", err)
		}
		y, err := area.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: spawn y: %w", err)
		}
		z, err := area.ReadU8()
		if err != nil {
			return fmt.Errorf("otbm: spawn z: %w", err)
		}
		radius, err := area.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: spawn radius: %w", err)
		}
		center := spatial.New(int32(x), int32(y), int16(z))
		centerTile := m.GetOrCreateTile(center)
		if centerTile.Spawn == nil {
			centerTile.Spawn = &tile.Spawn{Center: center, Radius: int32(radius)}
			m.NotifySpawnChange(center, true)
		}
		for _, mon := range area.Children() {
			if mon.Type != typeMonster {
				return fmt.Errorf("otbm: spawn area child type %d: %w", mon.Type, ErrUnknownNodeType)
			}
			dx, err := mon.ReadU16()
			if err != nil {
				return fmt.Errorf("otbm: monster dx: %w", err)
			}
			dy, err := mon.ReadU16()
			if err != nil {
				return fmt.Errorf("otbm: monster dy: %w", err)
			}
			name, err := mon.ReadString()
			if err != nil {
				return fmt.Errorf("otbm: monster name: %w", err)
			}
			spawnTime, err := mon.ReadU16()
			if err != nil {
				return fmt.Errorf("otbm: monster spawn_time: %w", err)
			}
			creaturePos := spatial.New(int32(x)+int32(dx), int32(y)+int32(dy), int16(z))
			creatureTile := m.GetOrCreateTile(creaturePos)
			creatureTile.Creature = &tile.Creature{
				Name:      name,
				SpawnTime: spawnTime,
				Position:  creaturePos,
			}
		}
	}
	return nil
}

func readWaypoints(waypointsNode *node.Node, m *worldmap.ChunkedMap) error {
	for _, child := range waypointsNode.Children() {
		if child.Type != typeWaypoint {
			return fmt.Errorf("otbm: waypoints child type %d: %w", child.Type, ErrUnknownNodeType)
		}
		name, err := child.ReadString()
		if err != nil {
			return fmt.Errorf("otbm: waypoint name: %w", err)
		}
		x, err := child.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: waypoint x: %w", err)
		}
		y, err := child.ReadU16()
		if err != nil {
			return fmt.Errorf("otbm: waypoint y: %w", err)
		}
		z, err := child.ReadU8()
		if err != nil {
			return fmt.Errorf("otbm: waypoint z: %w", err)
		}
		m.Waypoints = append(m.Waypoints, worldmap.Waypoint{
			Name:     name,
			Position: spatial.New(int32(x), int32(y), int16(z)),
		})
	}
	return nil
}
