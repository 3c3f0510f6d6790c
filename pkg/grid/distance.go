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

// MinDistance returns a lower bound on the distance from any coordinate assigned to the cell to (x, y).
func (g *Grid) MinDistance(id CellID, x, y float64) float64 {
	minX, minY, maxX, maxY := g.searchBounds(id)
	return g.metric.LowerBound(gap(minX, maxX, x, x), gap(minY, maxY, y, y))
}

// MaxDistance returns an upper bound on the distance from any coordinate assigned to the cell to (x, y).
func (g *Grid) MaxDistance(id CellID, x, y float64) float64 {
	minX, minY, maxX, maxY := g.searchBounds(id)
	return g.metric.UpperBound(math.Max(math.Abs(x-minX), math.Abs(maxX-x)), math.Max(math.Abs(y-minY), math.Abs(maxY-y)))
}

// MinDistanceRect returns a lower bound on the distance from any coordinate assigned to the cell to
// any coordinate inside the rectangle.
func (g *Grid) MinDistanceRect(id CellID, minX, minY, maxX, maxY float64) float64 {
	cMinX, cMinY, cMaxX, cMaxY := g.searchBounds(id)
	return g.metric.LowerBound(gap(cMinX, cMaxX, minX, maxX), gap(cMinY, cMaxY, minY, maxY))
}

// CellDistance returns a lower bound on the distance between coordinates assigned to a and b.
func (g *Grid) CellDistance(a, b CellID) float64 {
	aMinX, aMinY, aMaxX, aMaxY := g.searchBounds(a)
	bMinX, bMinY, bMaxX, bMaxY := g.searchBounds(b)
	return g.metric.LowerBound(gap(aMinX, aMaxX, bMinX, bMaxX), gap(aMinY, aMaxY, bMinY, bMaxY))
}

// MaxCellDistance returns an upper bound on the distance between coordinates assigned to a and b.
// It is infinite for boundary cells of a clipping grid.
func (g *Grid) MaxCellDistance(a, b CellID) float64 {
	aMinX, aMinY, aMaxX, aMaxY := g.searchBounds(a)
	bMinX, bMinY, bMaxX, bMaxY := g.searchBounds(b)
	dx := math.Max(aMaxX, bMaxX) - math.Min(aMinX, bMinX)
	dy := math.Max(aMaxY, bMaxY) - math.Min(aMinY, bMinY)
	return g.metric.UpperBound(dx, dy)
}

// gap returns the separation between the intervals [aLo, aHi] and [bLo, bHi], zero when they overlap.
func gap(aLo, aHi, bLo, bHi float64) float64 {
	switch {
	case bLo > aHi:
		return bLo - aHi
	case aLo > bHi:
		return aLo - bHi
	default:
		return 0
	}
}
