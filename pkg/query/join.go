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
	"sort"

	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
)

func (e *Engine) evalJoin(q Join, s *state.Snapshot) []Result {
	var pairs map[Pair]struct{}
	if q.Mode == JoinOptimized {
		pairs = e.layerJoin(s, q.Radius)
	} else {
		pairs = e.neighborJoin(s, q.Radius)
	}
	w := s.Window
	return []Result{JoinResult{Window: &w, Query: TypeJoin, Pairs: sortedPairs(pairs)}}
}

// neighborJoin runs a range search against the data stream for every query stream object.
func (e *Engine) neighborJoin(s *state.Snapshot, radius float64) map[Pair]struct{} {
	pairs := map[Pair]struct{}{}
	for _, a := range distinct(s, spatial.StreamQuery) {
		e.rangeSearch(s, spatial.StreamData, a, radius, true, func(b spatial.Object, _ float64) {
			pairs[Pair{Left: a.ObjectID(), Right: b.ObjectID()}] = struct{}{}
		})
	}
	return pairs
}

// layerJoin computes the neighbor layer once per query stream cell. Point pairs in guaranteed cells
// need no distance check.
func (e *Engine) layerJoin(s *state.Snapshot, radius float64) map[Pair]struct{} {
	m := e.grid.Metric()
	pairs := map[Pair]struct{}{}
	for _, key := range s.Keys() {
		if key.Stream != spatial.StreamQuery {
			continue
		}
		layer := e.layer(key.Cell, radius)
		for _, a := range s.Objects[key] {
			_, aPoint := a.(*spatial.Point)
			for _, c := range layer.Guaranteed {
				for _, b := range s.Cell(spatial.StreamData, c) {
					p := Pair{Left: a.ObjectID(), Right: b.ObjectID()}
					if _, done := pairs[p]; done {
						continue
					}
					if _, bPoint := b.(*spatial.Point); (aPoint && bPoint) || spatial.Distance(m, a, b) <= radius {
						pairs[p] = struct{}{}
					}
				}
			}
			for _, c := range layer.Candidate {
				for _, b := range s.Cell(spatial.StreamData, c) {
					p := Pair{Left: a.ObjectID(), Right: b.ObjectID()}
					if _, done := pairs[p]; done {
						continue
					}
					if spatial.Distance(m, a, b) <= radius {
						pairs[p] = struct{}{}
					}
				}
			}
		}
	}
	return pairs
}

// distinct returns the objects of a stream once each, ordered by id. Polygons are stored under every
// cell they overlap.
func distinct(s *state.Snapshot, stream spatial.Stream) []spatial.Object {
	seen := map[string]struct{}{}
	var out []spatial.Object
	for _, key := range s.Keys() {
		if key.Stream != stream {
			continue
		}
		for _, o := range s.Objects[key] {
			if _, ok := seen[o.ObjectID()]; ok {
				continue
			}
			seen[o.ObjectID()] = struct{}{}
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ObjectID() < out[j].ObjectID() })
	return out
}

func sortedPairs(set map[Pair]struct{}) []Pair {
	pairs := make([]Pair, 0, len(set))
	for p := range set {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Left != pairs[j].Left {
			return pairs[i].Left < pairs[j].Left
		}
		return pairs[i].Right < pairs[j].Right
	})
	return pairs
}
