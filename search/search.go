// Package search implements the two read-only lookups the editor exposes:
// scanning the live map for items/creatures matching a query, and
// filtering the descriptor table itself (§4.10).
package search

import (
	"strconv"
	"strings"

	"github.com/kolvynathar/tilemapcore/itemdb"
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Mode selects how MapSearchService.Search matches its query.
type Mode uint8

const (
	// ModeServerID matches query parsed as a numeric server_id.
	ModeServerID Mode = iota
	// ModeClientID matches query parsed as a numeric client_id; requires
	// a descriptor table.
	ModeClientID
	// ModeName matches query as a case-insensitive substring of the
	// descriptor's name; requires a descriptor table.
	ModeName
)

// Result is one matched entity, tagged with enough context to select or
// report it.
type Result struct {
	Position     spatial.Position
	Kind         tile.EntityKind
	ServerID     uint16
	Handle       uint64 // zero for Ground/Creature/Spawn
	Name         string
	IsInContainer bool
}

// MapSearchService scans a live map for items and creatures matching a
// query, optionally resolving names through a descriptor table.
type MapSearchService struct {
	Table *itemdb.Table // optional; nil means no item matches under ModeClientID/ModeName
}

// NewMapSearchService returns a search service bound to table (nil is
// valid: without one, items match only under ModeServerID, while creatures
// still match by name under ModeName).
func NewMapSearchService(table *itemdb.Table) *MapSearchService {
	return &MapSearchService{Table: table}
}

// Search iterates every tile and matches ground/stacked items (if
// includeItems) and creatures (if includeCreatures) against query under
// mode, descending into container children recursively. Stops once limit
// results have been collected (limit <= 0 means unlimited).
func (s *MapSearchService) Search(m *worldmap.ChunkedMap, query string, mode Mode, includeItems, includeCreatures bool, limit int) []Result {
	var out []Result
	numeric, isNumeric := parseUint16(query)
	nameQuery := strings.ToLower(query)

	full := func(t *tile.Tile) {
		if limit > 0 && len(out) >= limit {
			return
		}
		if includeItems {
			if t.Ground != nil {
				s.matchItem(t.Ground, t.Position, false, mode, numeric, isNumeric, nameQuery, limit, &out)
			}
			for _, it := range t.Items {
				s.matchItem(it, t.Position, false, mode, numeric, isNumeric, nameQuery, limit, &out)
			}
		}
		if includeCreatures && t.Creature != nil && matchesCreature(t.Creature.Name, mode, nameQuery) {
			out = append(out, Result{Position: t.Position, Kind: tile.EntityCreature, Name: t.Creature.Name})
		}
	}

	m.ForEachTile(func(t *tile.Tile) {
		if limit > 0 && len(out) >= limit {
			return
		}
		full(t)
	})
	return out
}

func (s *MapSearchService) matchItem(it *tile.Item, pos spatial.Position, inContainer bool, mode Mode, numeric uint16, isNumeric bool, nameQuery string, limit int, out *[]Result) {
	if limit > 0 && len(*out) >= limit {
		return
	}
	if s.itemMatches(it, mode, numeric, isNumeric, nameQuery) {
		name := ""
		if desc, ok := lookupSafe(s.Table, it.ServerID); ok {
			name = desc.Name
		}
		*out = append(*out, Result{
			Position:      pos,
			Kind:          tile.EntityItem,
			ServerID:      it.ServerID,
			Handle:        it.Handle(),
			Name:          name,
			IsInContainer: inContainer,
		})
	}
	for _, child := range it.Container {
		s.matchItem(child, pos, true, mode, numeric, isNumeric, nameQuery, limit, out)
	}
}

func (s *MapSearchService) itemMatches(it *tile.Item, mode Mode, numeric uint16, isNumeric bool, nameQuery string) bool {
	switch mode {
	case ModeServerID:
		return isNumeric && it.ServerID == numeric
	case ModeClientID:
		if s.Table == nil || !isNumeric {
			return false
		}
		desc, ok := s.Table.LookupByClientID(numeric)
		return ok && desc.ServerID == it.ServerID
	case ModeName:
		if s.Table == nil {
			return false
		}
		desc, ok := s.Table.Lookup(it.ServerID)
		return ok && strings.Contains(strings.ToLower(desc.Name), nameQuery)
	default:
		return false
	}
}

func matchesCreature(name string, mode Mode, nameQuery string) bool {
	return mode == ModeName && strings.Contains(strings.ToLower(name), nameQuery)
}

func parseUint16(s string) (uint16, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// lookupSafe tolerates a nil table, returning not-found.
func lookupSafe(t *itemdb.Table, serverID uint16) (*itemdb.ItemType, bool) {
	if t == nil {
		return nil, false
	}
	return t.Lookup(serverID)
}
