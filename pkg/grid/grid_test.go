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

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, n int, policy OutOfBoundsPolicy) *Grid {
	t.Helper()
	g, err := New(Spec{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, Resolution: n, Policy: policy})
	require.NoError(t, err)
	return g
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{name: "zero resolution", spec: Spec{MaxX: 1, MaxY: 1}},
		{name: "negative resolution", spec: Spec{MaxX: 1, MaxY: 1, Resolution: -2}},
		{name: "empty box", spec: Spec{MinX: 1, MaxX: 1, MaxY: 1, Resolution: 2}},
		{name: "nan bound", spec: Spec{MinX: math.NaN(), MaxX: 1, MaxY: 1, Resolution: 2}},
		{name: "unknown policy", spec: Spec{MaxX: 1, MaxY: 1, Resolution: 2, Policy: "wrap"}},
		{name: "unknown metric", spec: Spec{MaxX: 1, MaxY: 1, Resolution: 2, Metric: "manhattan"}},
		{name: "haversine latitude", spec: Spec{MinX: 0, MaxX: 10, MinY: 0, MaxY: 95, Resolution: 2, Metric: MetricHaversine}},
		{name: "haversine span", spec: Spec{MinX: -100, MaxX: 100, MinY: 0, MaxY: 10, Resolution: 2, Metric: MetricHaversine}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestCellOf(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	tests := []struct {
		x, y float64
		want CellID
	}{
		{0, 0, 0},
		{0.5, 0.5, 0},
		{1, 0, 1},
		{9.99, 0, 9},
		{10, 0, 9},
		{0, 1, 10},
		{5, 5, 55},
		{10, 10, 99},
	}
	for _, tt := range tests {
		got, err := g.CellOf(tt.x, tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "(%v, %v)", tt.x, tt.y)
	}
}

func TestCellOf_OutOfBounds(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	_, err := g.CellOf(-0.1, 5)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	_, err = g.CellOf(5, 10.1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	_, err = g.CellOf(math.NaN(), 1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	c := newTestGrid(t, 10, Clip)
	id, err := c.CellOf(-3, 5)
	require.NoError(t, err)
	assert.Equal(t, CellID(50), id)
	id, err = c.CellOf(42, 42)
	require.NoError(t, err)
	assert.Equal(t, CellID(99), id)
}

func TestCellOf_Totality(t *testing.T) {
	for _, spec := range []Spec{
		{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, Resolution: 7},
		{MinX: -0.3, MaxX: 0.7, MinY: 1.1, MaxY: 3.3, Resolution: 13},
		{MinX: -122.6, MaxX: -122.2, MinY: 37.6, MaxY: 37.9, Resolution: 50, Metric: MetricHaversine},
	} {
		g, err := New(spec)
		require.NoError(t, err)
		r := rand.New(rand.NewSource(7))
		for id := CellID(0); int(id) < g.NumCells(); id++ {
			cell := g.Cell(id)
			corners := [][2]float64{
				{cell.MinX, cell.MinY},
				{cell.MinX + (cell.MaxX-cell.MinX)/2, cell.MinY + (cell.MaxY-cell.MinY)/2},
				{math.Nextafter(cell.MaxX, cell.MinX), math.Nextafter(cell.MaxY, cell.MinY)},
			}
			for i := 0; i < 5; i++ {
				corners = append(corners, [2]float64{
					math.Min(cell.MinX+r.Float64()*(cell.MaxX-cell.MinX), math.Nextafter(cell.MaxX, cell.MinX)),
					math.Min(cell.MinY+r.Float64()*(cell.MaxY-cell.MinY), math.Nextafter(cell.MaxY, cell.MinY)),
				})
			}
			for _, p := range corners {
				got, err := g.CellOf(p[0], p[1])
				require.NoError(t, err)
				assert.Equal(t, id, got, "(%v, %v) in %+v", p[0], p[1], cell)
			}
		}
	}
}

func TestCellsInBound(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	ids, err := g.CellsInBound(1.5, 1.5, 3.2, 2.1)
	require.NoError(t, err)
	assert.Equal(t, []CellID{11, 12, 13, 21, 22, 23}, ids)

	_, err = g.CellsInBound(-1, 0, 3, 3)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestRingCells(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	assert.Equal(t, []CellID{55}, g.RingCells(55, 0))
	assert.Equal(t, []CellID{44, 45, 46, 54, 56, 64, 65, 66}, g.RingCells(55, 1))
	assert.Len(t, g.RingCells(55, 2), 16)
	// clipped at the corner
	assert.Equal(t, []CellID{1, 10, 11}, g.RingCells(0, 1))
	assert.Empty(t, g.RingCells(0, 10))

	b := g.BoxOf(11, 12)
	assert.Equal(t, Box{MinCol: 1, MinRow: 1, MaxCol: 2, MaxRow: 1}, b)
	assert.Equal(t, []CellID{0, 1, 2, 3, 10, 13, 20, 21, 22, 23}, g.RingCellsAround(b, 1))
}

func TestRingCells_CoverGrid(t *testing.T) {
	g := newTestGrid(t, 6, Reject)
	for origin := CellID(0); int(origin) < g.NumCells(); origin++ {
		seen := map[CellID]int{}
		for r := 0; r <= g.MaxRing(); r++ {
			for _, id := range g.RingCells(origin, r) {
				seen[id]++
			}
		}
		assert.Len(t, seen, g.NumCells())
		for id, n := range seen {
			assert.Equal(t, 1, n, "cell %d", id)
		}
	}
}

func TestMinDistance(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	assert.Equal(t, 0.0, g.MinDistance(55, 5.5, 5.5))
	assert.InDelta(t, 1.0, g.MinDistance(57, 6, 5.5), 1e-9)
	assert.InDelta(t, 2*math.Sqrt2, g.MinDistance(77, 5, 5), 1e-9)

	c := newTestGrid(t, 10, Clip)
	// boundary cells extend outwards under clipping
	assert.Equal(t, 0.0, c.MinDistance(9, 50, 0.5))
	assert.True(t, math.IsInf(c.MaxCellDistance(9, 0), 1))
}

func TestMinDistance_LowerBound(t *testing.T) {
	for _, spec := range []Spec{
		{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, Resolution: 10},
		{MinX: 10, MaxX: 20, MinY: 40, MaxY: 60, Resolution: 8, Metric: MetricHaversine},
	} {
		g, err := New(spec)
		require.NoError(t, err)
		r := rand.New(rand.NewSource(11))
		for i := 0; i < 2000; i++ {
			x1 := spec.MinX + r.Float64()*(spec.MaxX-spec.MinX)
			y1 := spec.MinY + r.Float64()*(spec.MaxY-spec.MinY)
			x2 := spec.MinX + r.Float64()*(spec.MaxX-spec.MinX)
			y2 := spec.MinY + r.Float64()*(spec.MaxY-spec.MinY)
			c1, _ := g.CellOf(x1, y1)
			c2, _ := g.CellOf(x2, y2)
			d := g.Metric().Distance(x1, y1, x2, y2)
			assert.LessOrEqual(t, g.MinDistance(c1, x2, y2), d*(1+1e-9)+1e-9)
			assert.LessOrEqual(t, g.CellDistance(c1, c2), d*(1+1e-9)+1e-9)
			assert.GreaterOrEqual(t, g.MaxCellDistance(c1, c2)*(1+1e-9)+1e-9, d)
		}
	}
}

func TestNeighborLayer(t *testing.T) {
	for _, policy := range []OutOfBoundsPolicy{Reject, Clip} {
		g := newTestGrid(t, 10, policy)
		for _, radius := range []float64{0.5, 1, 2.5, 4} {
			for _, origin := range []CellID{0, 9, 44, 55, 99} {
				layer := g.NeighborLayer(origin, radius)
				guaranteed := map[CellID]bool{}
				for _, id := range layer.Guaranteed {
					guaranteed[id] = true
					assert.LessOrEqual(t, g.MaxCellDistance(origin, id), radius)
				}
				for _, id := range layer.Candidate {
					assert.False(t, guaranteed[id], "cell %d in both sets", id)
				}
				var want []CellID
				for id := CellID(0); int(id) < g.NumCells(); id++ {
					if g.CellDistance(origin, id) <= radius {
						want = append(want, id)
					}
				}
				got := layer.Cells()
				sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
				assert.Equal(t, want, got, "origin %d radius %v", origin, radius)
			}
		}
	}
}

func TestNeighborLayer_GuaranteedInterior(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	layer := g.NeighborLayer(55, 3)
	// cells sharing an edge with the origin span at most 1x2, within 3
	assert.True(t, layer.IsGuaranteed(55))
	assert.True(t, layer.IsGuaranteed(54))
	assert.True(t, layer.IsGuaranteed(65))
	assert.False(t, layer.IsGuaranteed(75))
	assert.Contains(t, layer.Candidate, CellID(75))

	c := newTestGrid(t, 10, Clip)
	assert.Empty(t, c.NeighborLayer(0, 3).Guaranteed)
}

func TestHaversine(t *testing.T) {
	h := NewHaversine(1)
	// one degree of latitude
	assert.InDelta(t, 111195, h.Distance(0, 0, 0, 1), 5)
	assert.InDelta(t, h.Distance(0, 0, 1, 1), h.UpperBound(1, 1), 10)
	assert.LessOrEqual(t, h.LowerBound(1, 1), h.Distance(0, 0, 1, 1)+1e-6)
	assert.True(t, math.IsInf(h.UpperBound(math.Inf(1), 0), 1))
}

func TestMaxDistance(t *testing.T) {
	g := newTestGrid(t, 10, Reject)
	assert.InDelta(t, math.Sqrt(8), g.MaxDistance(55, 4, 4), 1e-9)
	assert.InDelta(t, math.Sqrt2, g.MaxDistance(55, 5, 5), 1e-9)
	c := newTestGrid(t, 10, Clip)
	assert.True(t, math.IsInf(c.MaxDistance(0, 0.5, 0.5), 1))
}
