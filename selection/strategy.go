package selection

import (
	"github.com/kolvynathar/tilemapcore/spatial"
	"github.com/kolvynathar/tilemapcore/worldmap"
)

// Strategy is a pluggable way to turn a user gesture into a set of
// selected positions on one floor. PixelPerfectStrategy mirrors SelectAt's
// single-tile contract; LassoStrategy adds polygon-based selection.
type Strategy interface {
	Positions(z int16) []spatial.Position
}

// PixelPerfectStrategy selects exactly the tile under the cursor.
type PixelPerfectStrategy struct {
	Pos spatial.Position
}

func (p PixelPerfectStrategy) Positions(z int16) []spatial.Position {
	return []spatial.Position{{X: p.Pos.X, Y: p.Pos.Y, Z: z}}
}

// LassoStrategy selects every tile whose center falls inside a polygon,
// using a standard ray-casting point-in-polygon test.
type LassoStrategy struct {
	Polygon []spatial.Position // vertices, X/Y used; Z ignored
}

func (l LassoStrategy) Positions(z int16) []spatial.Position {
	if len(l.Polygon) < 3 {
		return nil
	}
	minX, minY, maxX, maxY := l.Polygon[0].X, l.Polygon[0].Y, l.Polygon[0].X, l.Polygon[0].Y
	for _, v := range l.Polygon {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	var out []spatial.Position
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if l.contains(x, y) {
				out = append(out, spatial.Position{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func (l LassoStrategy) contains(x, y int32) bool {
	inside := false
	n := len(l.Polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := l.Polygon[i], l.Polygon[j]
		if (vi.Y > y) != (vj.Y > y) {
			slopeX := vj.X - vi.X
			slopeY := vj.Y - vi.Y
			xCross := vi.X + slopeX*(y-vi.Y)/slopeY
			if x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// SmartStrategy flood-fills from a seed tile across 4-connected neighbors
// sharing the seed's ground server_id, stopping at a bound on visited
// tiles so a pathological all-same-ground floor cannot run unbounded.
type SmartStrategy struct {
	Map     *worldmap.ChunkedMap
	Seed    spatial.Position
	MaxSize int
}

func (sm SmartStrategy) Positions(z int16) []spatial.Position {
	seedTile := sm.Map.GetTile(sm.Seed)
	if seedTile == nil || seedTile.Ground == nil {
		return nil
	}
	targetID := seedTile.Ground.ServerID
	limit := sm.MaxSize
	if limit <= 0 {
		limit = 4096
	}
	visited := map[spatial.Position]bool{sm.Seed: true}
	queue := []spatial.Position{sm.Seed}
	out := []spatial.Position{sm.Seed}
	for len(queue) > 0 && len(out) < limit {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [4]spatial.Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			next := spatial.Position{X: cur.X + d.X, Y: cur.Y + d.Y, Z: z}
			if visited[next] {
				continue
			}
			visited[next] = true
			nt := sm.Map.GetTile(next)
			if nt == nil || nt.Ground == nil || nt.Ground.ServerID != targetID {
				continue
			}
			out = append(out, next)
			queue = append(queue, next)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// SelectWithStrategy selects every entity matching filter across every
// position the strategy reports on floor z, with a single notification —
// the same contract as SelectRegion, generalized to non-rectangular
// gestures.
func (s *Service) SelectWithStrategy(m *worldmap.ChunkedMap, strat Strategy, z int16, filter Filter) {
	s.mapForSync = mapBorrow{m}
	var added []Entry
	for _, pos := range strat.Positions(z) {
		for _, e := range entriesForTile(m, pos, filter) {
			if s.bucket.Add(e) {
				added = append(added, e)
				s.syncVisualState(e, true)
			}
		}
	}
	s.notifyChanged(added, nil)
}
