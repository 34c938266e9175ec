package otbm

import (
	"bytes"
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

func buildSampleMap() *worldmap.ChunkedMap {
	m := worldmap.New()
	m.Width, m.Height = 100, 100
	m.Version = worldmap.Version{OTBMVersion: 4, ItemsMajor: 3, ItemsMinor: 60}
	m.Description = "test map"
	m.SpawnFile = "test-spawn.xml"

	groundPos := spatial.New(10, 10, 7)
	groundTile := m.GetOrCreateTile(groundPos)
	groundTile.Ground = tile.NewItem(100)
	stacked := tile.NewItem(200)
	stacked.Data.Count = 5
	stacked.Extension().Text = "a note"
	stacked.Extension().Attributes = map[string]tile.AttributeValue{
		"custom": {Kind: tile.AttrInt, Int: 42},
	}
	groundTile.AddItemDirect(stacked)
	groundTile.Flags = tile.FlagProtectionZone

	spawnPos := spatial.New(20, 20, 7)
	spawnTile := m.GetOrCreateTile(spawnPos)
	spawnTile.Spawn = &tile.Spawn{Center: spawnPos, Radius: 3}

	creaturePos := spatial.New(21, 20, 7)
	creatureTile := m.GetOrCreateTile(creaturePos)
	creatureTile.Creature = &tile.Creature{Name: "Rat", SpawnTime: 60, Position: creaturePos}

	m.Towns = append(m.Towns, worldmap.Town{ID: 1, Name: "Thais", Temple: spatial.New(5, 5, 7)})
	m.Waypoints = append(m.Waypoints, worldmap.Waypoint{Name: "wp1", Position: spatial.New(1, 1, 7)})
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := buildSampleMap()
	var buf bytes.Buffer
	if err := Save(&buf, src); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Description != "test map" || loaded.SpawnFile != "test-spawn.xml" {
		t.Fatalf("metadata mismatch: %+v", loaded)
	}
	if len(loaded.Towns) != 1 || loaded.Towns[0].Name != "Thais" {
		t.Fatalf("town mismatch: %+v", loaded.Towns)
	}
	if len(loaded.Waypoints) != 1 || loaded.Waypoints[0].Name != "wp1" {
		t.Fatalf("waypoint mismatch: %+v", loaded.Waypoints)
	}

	groundPos := spatial.New(10, 10, 7)
	gt := loaded.GetTile(groundPos)
	if gt == nil || gt.Ground == nil || gt.Ground.ServerID != 100 {
		t.Fatalf("expected ground item 100 at %v, got %+v", groundPos, gt)
	}
	if !gt.Flags.Has(tile.FlagProtectionZone) {
		t.Fatalf("expected protection zone flag to survive round-trip")
	}
	if len(gt.Items) != 1 || gt.Items[0].ServerID != 200 || gt.Items[0].Data.Count != 5 {
		t.Fatalf("stacked item mismatch: %+v", gt.Items)
	}
	if gt.Items[0].ExtensionOrNil() == nil || gt.Items[0].Extension().Text != "a note" {
		t.Fatalf("expected item text to survive round-trip")
	}
	av, ok := gt.Items[0].Extension().Attributes["custom"]
	if !ok || av.Kind != tile.AttrInt || av.Int != 42 {
		t.Fatalf("expected custom attribute to survive round-trip, got %+v", av)
	}

	spawnPos := spatial.New(20, 20, 7)
	st := loaded.GetTile(spawnPos)
	if st == nil || st.Spawn == nil || st.Spawn.Radius != 3 {
		t.Fatalf("expected spawn at %v, got %+v", spawnPos, st)
	}

	creaturePos := spatial.New(21, 20, 7)
	ct := loaded.GetTile(creaturePos)
	if ct == nil || ct.Creature == nil || ct.Creature.Name != "Rat" {
		t.Fatalf("expected creature Rat at %v, got %+v", creaturePos, ct)
	}
}

func TestLoadHeaderFastPath(t *testing.T) {
	src := buildSampleMap()
	var buf bytes.Buffer
	if err := Save(&buf, src); err != nil {
		t.Fatalf("Save: %v", err)
	}
	hdr, err := LoadHeader(&buf)
	if err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}
	if hdr.Description != "test map" || hdr.Width != 100 || hdr.Height != 100 {
		t.Fatalf("unexpected header: %+v", hdr)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	src := buildSampleMap()
	src.Version.OTBMVersion = 99
	var buf bytes.Buffer
	if err := Save(&buf, src); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(&buf, nil); err == nil {
		t.Fatalf("expected unsupported version error")
	}
}
