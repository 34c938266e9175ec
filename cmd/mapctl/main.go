// Command mapctl is a scriptable driver over an editor session: load a
// map, run a brush stroke or a cleanup pass against it, and save it back.
// It exists to exercise the codec, session, and history engine together
// from outside a GUI, not as a full editor frontend.
package main

import (
	"fmt"
	"os"

	"github.com/kolvynathar/tilemapcore/editor"
	"github.com/kolvynathar/tilemapcore/history"
	"github.com/kolvynathar/tilemapcore/search"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "stamp":
		runStamp(os.Args[2:])
	case "clean":
		runClean(os.Args[2:])
	case "info":
		runInfo(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: mapctl <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  stamp <input.otbm> <output.otbm> <server_id> <x> <y> <z>")
	fmt.Println("      Place one item via a raw brush, under history, then save.")
	fmt.Println("  clean <input.otbm> <output.otbm>")
	fmt.Println("      Drop items with no descriptor, then save.")
	fmt.Println("  info <input.otbm>")
	fmt.Println("      Print chunk and tile counts.")
}

func runStamp(args []string) {
	if len(args) < 6 {
		usage()
		os.Exit(1)
	}
	inputFile, outputFile := args[0], args[1]
	serverID := parseUint16(args[2])
	x, y, z := parseInt32(args[3]), parseInt32(args[4]), parseInt16(args[5])

	s, err := editor.Load(inputFile, nil)
	if err != nil {
		fail(err)
	}

	pos := spatial.New(x, y, z)
	fmt.Printf("Placing item %d at (%d,%d,%d)...\n", serverID, x, y, z)

	s.History.BeginOperation("Stamp", history.ActionDraw, nil)
	t := s.Map.GetOrCreateTile(pos)
	s.History.RecordTileBefore(t, pos)
	t.AddItem(tile.NewItem(serverID), s.Classifier)
	s.History.EndOperation(s.Map, nil)
	s.MarkDirty()

	if err := s.SaveAs(outputFile); err != nil {
		fail(err)
	}
	fmt.Printf("Saved %s\n", outputFile)
}

func runClean(args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	inputFile, outputFile := args[0], args[1]

	s, err := editor.Load(inputFile, nil)
	if err != nil {
		fail(err)
	}

	fmt.Println("Warning: no descriptor table loaded, every item counts as invalid")
	cleaner := search.NewMapCleanupService(nil)
	progress := cleaner.CleanInvalidItems(s.Map, func(p search.CleanupProgress) {
		if p.TotalTiles == 0 {
			return
		}
		if p.TilesProcessed%1000 == 0 {
			fmt.Printf("  Progress: %d/%d tiles, %d items removed\n", p.TilesProcessed, p.TotalTiles, p.ItemsRemoved)
		}
	})
	fmt.Printf("Removed %d invalid items across %d tiles\n", progress.ItemsRemoved, progress.TotalTiles)

	s.MarkDirty()
	if err := s.SaveAs(outputFile); err != nil {
		fail(err)
	}
	fmt.Printf("Saved %s\n", outputFile)
}

func runInfo(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	s, err := editor.Load(args[0], nil)
	if err != nil {
		fail(err)
	}
	tiles := 0
	s.Map.ForEachTile(func(*tile.Tile) { tiles++ })
	fmt.Printf("chunks: %d\n", s.Map.ChunkCount())
	fmt.Printf("tiles:  %d\n", tiles)
	fmt.Printf("towns:  %d\n", len(s.Map.Towns))
	fmt.Printf("waypoints: %d\n", len(s.Map.Waypoints))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "mapctl:", err)
	os.Exit(1)
}

func parseUint16(s string) uint16 {
	var v uint16
	fmt.Sscanf(s, "%d", &v)
	return v
}

func parseInt32(s string) int32 {
	var v int32
	fmt.Sscanf(s, "%d", &v)
	return v
}

func parseInt16(s string) int16 {
	var v int16
	fmt.Sscanf(s, "%d", &v)
	return v
}
