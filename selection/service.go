package selection

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Observer is notified of selection changes. Registration is explicit and
// non-owning: observers must outlive the service, or unregister first.
type Observer interface {
	OnSelectionChanged(added, removed []Entry)
	OnSelectionCleared()
}

// Service mutates a Bucket in response to higher-level editing intents. It
// takes a borrow of a ChunkedMap for queries — never ownership — and
// notifies observers at most once per public operation.
type Service struct {
	bucket     *Bucket
	observers  []Observer
	mapForSync mapBorrow
}

// NewService creates an empty selection service.
func NewService() *Service {
	return &Service{bucket: NewBucket()}
}

// Bucket exposes the underlying data container for read-only queries.
func (s *Service) Bucket() *Bucket { return s.bucket }

// Subscribe registers an observer.
func (s *Service) Subscribe(o Observer) { s.observers = append(s.observers, o) }

// Unsubscribe removes a previously registered observer.
func (s *Service) Unsubscribe(o Observer) {
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Service) notifyChanged(added, removed []Entry) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	for _, o := range s.observers {
		o.OnSelectionChanged(added, removed)
	}
}

// syncVisualState keeps Creature.Selected / Spawn.Selected in lock-step
// with bucket membership. Items and ground have no visual flag of their
// own; the bucket is the only source of truth for them.
func (s *Service) syncVisualState(entry Entry, selected bool) {
	s.mapForSync.withTile(entry.Position, func(t *tile.Tile) {
		switch entry.Kind {
		case tile.EntityCreature:
			if t.Creature != nil {
				t.Creature.Selected = selected
			}
		case tile.EntitySpawn:
			if t.Spawn != nil {
				t.Spawn.Selected = selected
			}
		}
	})
}

// mapForSync is set by every operation that receives a map borrow, so
// syncVisualState (called from RestoreSnapshot, which has no map
// parameter of its own) can still reach tile state. It is always the most
// recently used map borrow and is never retained beyond the call.
type mapBorrow struct {
	m *worldmap.ChunkedMap
}

func (mb mapBorrow) withTile(pos spatial.Position, fn func(*tile.Tile)) {
	if mb.m == nil {
		return
	}
	if t := mb.m.GetTile(pos); t != nil {
		fn(t)
	}
}

func entriesForTile(m *worldmap.ChunkedMap, pos spatial.Position, filter Filter) []Entry {
	t := m.GetTile(pos)
	if t == nil {
		return nil
	}
	var out []Entry
	if t.Ground != nil {
		id := tile.GroundID(pos)
		if filter.Matches(id) {
			out = append(out, id)
		}
	}
	for _, it := range t.Items {
		id := tile.ItemID(pos, it.Handle())
		if filter.Matches(id) {
			out = append(out, id)
		}
	}
	if t.Creature != nil {
		id := tile.CreatureID(pos)
		if filter.Matches(id) {
			out = append(out, id)
		}
	}
	if t.Spawn != nil {
		id := tile.SpawnID(pos)
		if filter.Matches(id) {
			out = append(out, id)
		}
	}
	return out
}

// SelectAt selects every entity at pos matching filter. If clearFirst, the
// entire selection is cleared first. Emits a single OnSelectionChanged
// with the accumulated delta.
func (s *Service) SelectAt(m *worldmap.ChunkedMap, pos spatial.Position, filter Filter, clearFirst bool) {
	s.mapForSync = mapBorrow{m}
	var removed []Entry
	if clearFirst {
		removed = s.bucket.GetAllEntries()
		s.bucket.Clear()
		for _, e := range removed {
			s.syncVisualState(e, false)
		}
	}
	var added []Entry
	for _, e := range entriesForTile(m, pos, filter) {
		if s.bucket.Add(e) {
			added = append(added, e)
			s.syncVisualState(e, true)
		}
	}
	s.notifyChanged(added, removed)
}

// SelectRegion selects every filtered entity across the rectangle
// [minX..maxX] x [minY..maxY] on floor z, with a single notification.
func (s *Service) SelectRegion(m *worldmap.ChunkedMap, minX, maxX, minY, maxY int32, z int16, filter Filter) {
	s.mapForSync = mapBorrow{m}
	var added []Entry
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			pos := spatial.New(x, y, z)
			for _, e := range entriesForTile(m, pos, filter) {
				if s.bucket.Add(e) {
					added = append(added, e)
					s.syncVisualState(e, true)
				}
			}
		}
	}
	s.notifyChanged(added, nil)
}

// SelectTile selects every entity at pos (equivalent to SelectAt with
// FilterAll and clearFirst=false).
func (s *Service) SelectTile(m *worldmap.ChunkedMap, pos spatial.Position) {
	s.SelectAt(m, pos, FilterAll(), false)
}

// DeselectAt removes every filtered entity at pos from the selection.
func (s *Service) DeselectAt(m *worldmap.ChunkedMap, pos spatial.Position, filter Filter) {
	s.mapForSync = mapBorrow{m}
	var removed []Entry
	for _, e := range s.bucket.GetEntriesAt(pos) {
		if !filter.Matches(e) {
			continue
		}
		if s.bucket.Remove(e) {
			removed = append(removed, e)
			s.syncVisualState(e, false)
		}
	}
	s.notifyChanged(nil, removed)
}

// ToggleAt toggles selection membership at pos. With a specific-entity
// filter, exactly that entity is toggled; with a generic filter, toggling
// is driven by whether anything at pos is currently selected.
func (s *Service) ToggleAt(m *worldmap.ChunkedMap, pos spatial.Position, filter Filter) {
	s.mapForSync = mapBorrow{m}
	if filter.IsSpecific() {
		s.ToggleEntity(m, *filter.specific)
		return
	}
	if s.bucket.HasEntriesAt(pos) {
		s.DeselectAt(m, pos, filter)
		return
	}
	s.SelectAt(m, pos, filter, false)
}

// Clear empties the selection, syncing every entity's visual state first,
// then emits OnSelectionCleared.
func (s *Service) Clear() {
	entries := s.bucket.GetAllEntries()
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		s.syncVisualState(e, false)
	}
	s.bucket.Clear()
	for _, o := range s.observers {
		o.OnSelectionCleared()
	}
}

// AddEntity adds a single entity directly.
func (s *Service) AddEntity(m *worldmap.ChunkedMap, entry Entry) {
	s.mapForSync = mapBorrow{m}
	if s.bucket.Add(entry) {
		s.syncVisualState(entry, true)
		s.notifyChanged([]Entry{entry}, nil)
	}
}

// RemoveEntity removes a single entity directly.
func (s *Service) RemoveEntity(m *worldmap.ChunkedMap, id Entry) {
	s.mapForSync = mapBorrow{m}
	if s.bucket.Remove(id) {
		s.syncVisualState(id, false)
		s.notifyChanged(nil, []Entry{id})
	}
}

// ToggleEntity toggles a single entity's membership directly.
func (s *Service) ToggleEntity(m *worldmap.ChunkedMap, entry Entry) {
	if s.bucket.Contains(entry) {
		s.RemoveEntity(m, entry)
		return
	}
	s.AddEntity(m, entry)
}
