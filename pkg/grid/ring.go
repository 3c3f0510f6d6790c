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

import "math"

// Box is an inclusive rectangle of cells in column/row coordinates.
type Box struct {
	MinCol, MinRow int
	MaxCol, MaxRow int
}

// BoxOf returns the smallest Box covering the given cells.
func (g *Grid) BoxOf(ids ...CellID) Box {
	b := Box{MinCol: g.n, MinRow: g.n, MaxCol: -1, MaxRow: -1}
	for _, id := range ids {
		c, r := g.colRow(id)
		b.MinCol = min(b.MinCol, c)
		b.MinRow = min(b.MinRow, r)
		b.MaxCol = max(b.MaxCol, c)
		b.MaxRow = max(b.MaxRow, r)
	}
	return b
}

// MaxRing is the largest ring distance that can still contain cells of the grid.
func (g *Grid) MaxRing() int {
	return g.n - 1
}

// RingCells returns the cells at exactly Chebyshev distance r from origin, clipped to the grid.
func (g *Grid) RingCells(origin CellID, r int) []CellID {
	return g.RingCellsAround(g.BoxOf(origin), r)
}

// RingCellsAround returns the cells at exactly Chebyshev distance r from the box, clipped to the grid.
// Ring 0 is the box itself.
func (g *Grid) RingCellsAround(b Box, r int) []CellID {
	if r < 0 || b.MaxCol < b.MinCol {
		return nil
	}
	c0, c1 := b.MinCol-r, b.MaxCol+r
	r0, r1 := b.MinRow-r, b.MaxRow+r
	var ids []CellID
	for row := max(r0, 0); row <= min(r1, g.n-1); row++ {
		edge := r == 0 || row == r0 || row == r1
		for col := max(c0, 0); col <= min(c1, g.n-1); col++ {
			if edge || col == c0 || col == c1 {
				ids = append(ids, g.id(col, row))
			}
		}
	}
	return ids
}

// Expand visits the cells around b ring by ring. Each cell whose lower distance bound is within
// limit() is passed to visit along with its bound. Expansion stops after the first ring in which
// every cell is beyond limit(), which is safe because ring bounds never decrease outward.
// limit is re-evaluated for every cell so shrinking limits (kNN) prune as they tighten.
func (g *Grid) Expand(b Box, lower func(CellID) float64, limit func() float64, visit func(id CellID, bound float64)) {
	for r := 0; r <= g.MaxRing(); r++ {
		ring := g.RingCellsAround(b, r)
		if len(ring) == 0 {
			return
		}
		ringMin := math.Inf(1)
		bounds := make([]float64, len(ring))
		for i, id := range ring {
			bounds[i] = lower(id)
			ringMin = math.Min(ringMin, bounds[i])
		}
		if ringMin > limit() {
			return
		}
		for i, id := range ring {
			if bounds[i] <= limit() {
				visit(id, bounds[i])
			}
		}
	}
}
