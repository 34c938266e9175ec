package search

import (
	"strings"

	"github.com/kolvynathar/tilemapcore/itemdb"
)

// TypeFilter is an OR-filter over the descriptor-table type predicates:
// an entry matches if it satisfies ANY bit set here (a zero filter
// matches everything).
type TypeFilter uint16

const (
	TypeDepot TypeFilter = 1 << iota
	TypeContainer
	TypeDoor
	TypeMagicField
	TypeTeleport
	TypeBed
	TypeKey
	TypePodium
	TypeWeapon
	TypeAmmo
	TypeArmor
)

func (f TypeFilter) matches(it *itemdb.ItemType) bool {
	if f == 0 {
		return true
	}
	return (f&TypeDepot != 0 && it.IsDepot()) ||
		(f&TypeContainer != 0 && it.IsContainer()) ||
		(f&TypeDoor != 0 && it.IsDoor()) ||
		(f&TypeMagicField != 0 && it.IsMagicField()) ||
		(f&TypeTeleport != 0 && it.IsTeleport()) ||
		(f&TypeBed != 0 && it.IsBed()) ||
		(f&TypeKey != 0 && it.IsKey()) ||
		(f&TypePodium != 0 && it.IsPodium()) ||
		(f&TypeWeapon != 0 && it.IsWeapon()) ||
		(f&TypeAmmo != 0 && it.IsAmmo()) ||
		(f&TypeArmor != 0 && it.IsArmor())
}

// PropertyFilter is an AND-filter over boolean descriptor fields: an
// entry matches only if it satisfies EVERY bit set here.
type PropertyFilter uint16

const (
	PropUnpassable PropertyFilter = 1 << iota
	PropUnmovable                  // descriptor's Moveable == false
	PropBlocksMissiles
	PropReadable
	PropStackable
	PropHasLight
	PropDecays
	PropHasElevation
	PropFloorChange
)

func (f PropertyFilter) matches(it *itemdb.ItemType) bool {
	if f&PropUnpassable != 0 && !it.Unpassable {
		return false
	}
	if f&PropUnmovable != 0 && it.Moveable {
		return false
	}
	if f&PropBlocksMissiles != 0 && !it.BlocksMissiles {
		return false
	}
	if f&PropReadable != 0 && !it.Readable {
		return false
	}
	if f&PropStackable != 0 && !it.Stackable {
		return false
	}
	if f&PropHasLight != 0 && !it.HasLight {
		return false
	}
	if f&PropDecays != 0 && !it.Decays {
		return false
	}
	if f&PropHasElevation != 0 && !it.HasElevation {
		return false
	}
	if f&PropFloorChange != 0 && !it.FloorChange {
		return false
	}
	return true
}

// SearchItemDatabase is a pure descriptor-table filter: query optionally
// narrows by exact numeric server_id or a fuzzy (substring) name match,
// typeFilter and propFilter further restrict by the OR/AND predicate
// families above. Results are returned in the table's insertion order, up
// to limit (limit <= 0 means unlimited).
func (s *MapSearchService) SearchItemDatabase(query string, typeFilter TypeFilter, propFilter PropertyFilter, limit int) []*itemdb.ItemType {
	if s.Table == nil {
		return nil
	}
	numeric, isNumeric := parseUint16(query)
	nameQuery := strings.ToLower(strings.TrimSpace(query))

	var out []*itemdb.ItemType
	s.Table.ForEach(func(it *itemdb.ItemType) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		if query != "" {
			matchesQuery := false
			if isNumeric && it.ServerID == numeric {
				matchesQuery = true
			}
			if !matchesQuery && nameQuery != "" && strings.Contains(strings.ToLower(it.Name), nameQuery) {
				matchesQuery = true
			}
			if !matchesQuery {
				return true
			}
		}
		if !typeFilter.matches(it) || !propFilter.matches(it) {
			return true
		}
		out = append(out, it)
		return true
	})
	return out
}
