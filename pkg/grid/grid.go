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

// Package grid implements the uniform grid index. A Grid partitions a bounding box into
// Resolution x Resolution rectangular cells, maps coordinates to stable cell ids and answers the
// distance bound queries (ring expansion, min/max cell distance, neighbor layers) the query engines
// prune with.
//
// A Grid is immutable after New and is shared by all partition workers without synchronization.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned for coordinates outside the grid under the Reject policy.
var ErrOutOfBounds = errors.New("coordinate out of grid bounds")

// CellID identifies a cell, row*Resolution + col. It is stable for the lifetime of a Grid.
type CellID int

// OutOfBoundsPolicy decides what happens to coordinates outside the bounding box.
type OutOfBoundsPolicy string

const (
	// Reject fails cell assignment with ErrOutOfBounds.
	Reject OutOfBoundsPolicy = "reject"
	// Clip assigns the nearest boundary cell. Boundary cells then extend to infinity on their
	// outward sides for distance bounds.
	Clip OutOfBoundsPolicy = "clip"
)

// Spec describes a grid.
type Spec struct {
	MinX       float64
	MaxX       float64
	MinY       float64
	MaxY       float64
	Resolution int
	Policy     OutOfBoundsPolicy
	Metric     MetricType
}

// Cell is the bounding rectangle of a grid cell.
type Cell struct {
	ID   CellID  `json:"id"`
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Grid is a uniform grid over a bounding box.
type Grid struct {
	minX, maxX float64
	minY, maxY float64
	n          int
	cellW      float64
	cellH      float64
	policy     OutOfBoundsPolicy
	metric     Metric
}

// New validates the grid spec and builds a Grid.
func New(spec Spec) (*Grid, error) {
	if spec.Resolution <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %d", spec.Resolution)
	}
	for _, v := range []float64{spec.MinX, spec.MaxX, spec.MinY, spec.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("grid bounds must be finite")
		}
	}
	if spec.MaxX <= spec.MinX || spec.MaxY <= spec.MinY {
		return nil, fmt.Errorf("empty grid bounding box (%v,%v)-(%v,%v)", spec.MinX, spec.MinY, spec.MaxX, spec.MaxY)
	}
	policy := spec.Policy
	switch policy {
	case "":
		policy = Reject
	case Reject, Clip:
	default:
		return nil, fmt.Errorf("unknown out-of-bounds policy %q", spec.Policy)
	}
	g := &Grid{
		minX:   spec.MinX,
		maxX:   spec.MaxX,
		minY:   spec.MinY,
		maxY:   spec.MaxY,
		n:      spec.Resolution,
		cellW:  (spec.MaxX - spec.MinX) / float64(spec.Resolution),
		cellH:  (spec.MaxY - spec.MinY) / float64(spec.Resolution),
		policy: policy,
	}
	switch spec.Metric {
	case "", MetricEuclidean:
		g.metric = Euclidean{}
	case MetricHaversine:
		if spec.MinY < -90 || spec.MaxY > 90 || spec.MinX < -180 || spec.MaxX > 180 {
			return nil, fmt.Errorf("haversine grid must lie within [-180,180]x[-90,90]")
		}
		if spec.MaxX-spec.MinX > 180 {
			return nil, fmt.Errorf("haversine grid must not span more than 180 degrees of longitude")
		}
		if policy == Clip {
			// clipped coordinates may sit at any latitude
			g.metric = NewHaversine(90)
		} else {
			g.metric = NewHaversine(math.Max(math.Abs(spec.MinY), math.Abs(spec.MaxY)))
		}
	default:
		return nil, fmt.Errorf("unknown metric %q", spec.Metric)
	}
	return g, nil
}

// Resolution returns the number of cells per axis.
func (g *Grid) Resolution() int { return g.n }

// Policy returns the out-of-bounds policy.
func (g *Grid) Policy() OutOfBoundsPolicy { return g.policy }

// Metric returns the distance metric.
func (g *Grid) Metric() Metric { return g.metric }

// CellSize returns the width and height of a cell.
func (g *Grid) CellSize() (float64, float64) { return g.cellW, g.cellH }

// NumCells returns the number of cells.
func (g *Grid) NumCells() int { return g.n * g.n }

// Contains reports whether (x, y) lies inside the bounding box, edges included.
func (g *Grid) Contains(x, y float64) bool {
	return x >= g.minX && x <= g.maxX && y >= g.minY && y <= g.maxY
}

// CellOf maps a coordinate to its cell.
func (g *Grid) CellOf(x, y float64) (CellID, error) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return -1, fmt.Errorf("%w: NaN coordinate", ErrOutOfBounds)
	}
	if !g.Contains(x, y) && g.policy == Reject {
		return -1, fmt.Errorf("%w: (%v, %v)", ErrOutOfBounds, x, y)
	}
	return g.id(g.col(x), g.row(y)), nil
}

// CellsInBound returns the cells whose rectangle intersects the given bounding box, in id order.
func (g *Grid) CellsInBound(minX, minY, maxX, maxY float64) ([]CellID, error) {
	if g.policy == Reject && (!g.Contains(minX, minY) || !g.Contains(maxX, maxY)) {
		return nil, fmt.Errorf("%w: bound (%v,%v)-(%v,%v)", ErrOutOfBounds, minX, minY, maxX, maxY)
	}
	c0, c1 := g.col(minX), g.col(maxX)
	r0, r1 := g.row(minY), g.row(maxY)
	ids := make([]CellID, 0, (c1-c0+1)*(r1-r0+1))
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			ids = append(ids, g.id(c, r))
		}
	}
	return ids, nil
}

// Cell returns the rectangle of a cell.
func (g *Grid) Cell(id CellID) Cell {
	c, r := g.colRow(id)
	minX, maxX := g.colBounds(c)
	minY, maxY := g.rowBounds(r)
	return Cell{ID: id, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Valid reports whether id names a cell of this grid.
func (g *Grid) Valid(id CellID) bool {
	return id >= 0 && int(id) < g.n*g.n
}

func (g *Grid) id(col, row int) CellID {
	return CellID(row*g.n + col)
}

func (g *Grid) colRow(id CellID) (int, int) {
	return int(id) % g.n, int(id) / g.n
}

// col returns the clamped column of x. The index is corrected against colBounds so that every x
// inside a cell's rectangle maps to that cell regardless of floating point rounding.
func (g *Grid) col(x float64) int {
	c := clamp(int(math.Floor((x-g.minX)/g.cellW)), 0, g.n-1)
	if lo, _ := g.colBounds(c); x < lo && c > 0 {
		c--
	} else if c < g.n-1 {
		if nextLo, _ := g.colBounds(c + 1); x >= nextLo {
			c++
		}
	}
	return c
}

func (g *Grid) row(y float64) int {
	r := clamp(int(math.Floor((y-g.minY)/g.cellH)), 0, g.n-1)
	if lo, _ := g.rowBounds(r); y < lo && r > 0 {
		r--
	} else if r < g.n-1 {
		if nextLo, _ := g.rowBounds(r + 1); y >= nextLo {
			r++
		}
	}
	return r
}

func (g *Grid) colBounds(c int) (float64, float64) {
	lo := g.minX + float64(c)*g.cellW
	hi := g.minX + float64(c+1)*g.cellW
	if c == g.n-1 {
		hi = g.maxX
	}
	return lo, hi
}

func (g *Grid) rowBounds(r int) (float64, float64) {
	lo := g.minY + float64(r)*g.cellH
	hi := g.minY + float64(r+1)*g.cellH
	if r == g.n-1 {
		hi = g.maxY
	}
	return lo, hi
}

// searchBounds returns the rectangle used for distance bounds. Under Clip, boundary cells are
// unbounded on their outward sides since clipped coordinates live there.
func (g *Grid) searchBounds(id CellID) (minX, minY, maxX, maxY float64) {
	cell := g.Cell(id)
	minX, minY, maxX, maxY = cell.MinX, cell.MinY, cell.MaxX, cell.MaxY
	if g.policy != Clip {
		return
	}
	c, r := g.colRow(id)
	if c == 0 {
		minX = math.Inf(-1)
	}
	if c == g.n-1 {
		maxX = math.Inf(1)
	}
	if r == 0 {
		minY = math.Inf(-1)
	}
	if r == g.n-1 {
		maxY = math.Inf(1)
	}
	return
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
