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

package grid

// NeighborLayer partitions the cells that may hold an object within Radius of an object in Origin.
// Every coordinate of a Guaranteed cell is within Radius of every coordinate of Origin; Candidate cells
// need an exact check. The two sets are disjoint.
type NeighborLayer struct {
	Origin     CellID
	Radius     float64
	Guaranteed []CellID
	Candidate  []CellID
}

// NeighborLayer computes the layer of origin for the radius by ring expansion.
func (g *Grid) NeighborLayer(origin CellID, radius float64) NeighborLayer {
	layer := NeighborLayer{Origin: origin, Radius: radius}
	g.Expand(g.BoxOf(origin),
		func(id CellID) float64 { return g.CellDistance(origin, id) },
		func() float64 { return radius },
		func(id CellID, _ float64) {
			if g.MaxCellDistance(origin, id) <= radius {
				layer.Guaranteed = append(layer.Guaranteed, id)
			} else {
				layer.Candidate = append(layer.Candidate, id)
			}
		})
	return layer
}

// Cells returns the union of the guaranteed and candidate cells.
func (l NeighborLayer) Cells() []CellID {
	out := make([]CellID, 0, len(l.Guaranteed)+len(l.Candidate))
	out = append(out, l.Guaranteed...)
	return append(out, l.Candidate...)
}

// IsGuaranteed reports whether id is a guaranteed cell of the layer.
func (l NeighborLayer) IsGuaranteed(id CellID) bool {
	for _, g := range l.Guaranteed {
		if g == id {
			return true
		}
	}
	return false
}
