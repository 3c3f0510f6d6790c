/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package query

import (
	"math"
	"sort"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// rangeSearch calls visit once for every object of the stream within radius of target, expanding
// rings from the target's cells until a whole ring is out of reach. With shortcut set, points in
// cells entirely within the radius of a point target skip the distance check and are visited with a
// NaN distance.
func (e *Engine) rangeSearch(s *state.Snapshot, stream spatial.Stream, target spatial.Object, radius float64, shortcut bool, visit func(o spatial.Object, d float64)) {
	g := e.grid
	m := g.Metric()
	p, isPoint := target.(*spatial.Point)
	seen := map[string]struct{}{}
	g.Expand(g.BoxOf(target.Cells()...),
		func(c grid.CellID) float64 { return spatial.LowerBound(g, c, target) },
		func() float64 { return radius },
		func(c grid.CellID, _ float64) {
			guaranteed := shortcut && isPoint && g.MaxDistance(c, p.X, p.Y) <= radius
			for _, o := range s.Cell(stream, c) {
				if _, dup := seen[o.ObjectID()]; dup {
					continue
				}
				seen[o.ObjectID()] = struct{}{}
				if _, ok := o.(*spatial.Point); ok && guaranteed {
					visit(o, math.NaN())
					continue
				}
				if d := spatial.Distance(m, target, o); d <= radius {
					visit(o, d)
				}
			}
		})
}

// knnSearch returns the k best entries of the stream around target, ascending. keyOf maps an object to
// its heap key and may reject objects.
func (e *Engine) knnSearch(s *state.Snapshot, stream spatial.Stream, target spatial.Object, k int, keyOf func(o spatial.Object) (string, bool)) []entry {
	g := e.grid
	m := g.Metric()
	h := newBoundedHeap(k)
	g.Expand(g.BoxOf(target.Cells()...),
		func(c grid.CellID) float64 { return spatial.LowerBound(g, c, target) },
		h.limit,
		func(c grid.CellID, _ float64) {
			for _, o := range s.Cell(stream, c) {
				key, ok := keyOf(o)
				if !ok {
					continue
				}
				d := spatial.Distance(m, target, o)
				if d <= h.limit() {
					h.offer(entry{key: key, id: o.ObjectID(), traj: trajectoryOf(o), dist: d})
				}
			}
		})
	return h.sorted()
}

func trajectoryOf(o spatial.Object) string {
	if p, ok := o.(*spatial.Point); ok {
		return p.TrajectoryID
	}
	return ""
}

func (e *Engine) evalRange(q Range, s *state.Snapshot) []Result {
	matches := []Match{}
	e.rangeSearch(s, spatial.StreamData, q.Target, q.Radius, true, func(o spatial.Object, _ float64) {
		matches = append(matches, Match{ID: o.ObjectID(), TrajectoryID: trajectoryOf(o)})
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	w := s.Window
	return []Result{RangeResult{Window: &w, QueryID: q.Target.ObjectID(), Matches: matches}}
}

func (e *Engine) evalKNN(q KNN, s *state.Snapshot) []Result {
	var entries []entry
	switch q.Mode {
	case KNNGrid:
		e.rangeSearch(s, spatial.StreamData, q.Target, q.Radius, false, func(o spatial.Object, d float64) {
			entries = append(entries, entry{key: o.ObjectID(), id: o.ObjectID(), traj: trajectoryOf(o), dist: d})
		})
		sort.Slice(entries, func(i, j int) bool { return better(entries[i], entries[j]) })
		if len(entries) > q.K {
			entries = entries[:q.K]
		}
	default:
		entries = e.knnSearch(s, spatial.StreamData, q.Target, q.K, func(o spatial.Object) (string, bool) {
			return o.ObjectID(), true
		})
	}
	neighbors := make([]Neighbor, 0, len(entries))
	for _, en := range entries {
		neighbors = append(neighbors, Neighbor{ID: en.id, TrajectoryID: en.traj, Distance: en.dist})
	}
	w := s.Window
	return []Result{KNNResult{Window: &w, QueryID: q.Target.ObjectID(), Neighbors: neighbors}}
}
