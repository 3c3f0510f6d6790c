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

package spatial

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/grid"
)

func testBuilder(t *testing.T, policy grid.OutOfBoundsPolicy) *Builder {
	t.Helper()
	g, err := grid.New(grid.Spec{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, Resolution: 10, Policy: policy})
	require.NoError(t, err)
	return NewBuilder(g)
}

func square(x, y, side float64) [][2]float64 {
	return [][2]float64{{x, y}, {x + side, y}, {x + side, y + side}, {x, y + side}}
}

func TestBuilder_Point(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	ts := time.Unix(1700000000, 0)
	o, err := b.Build(Record{ID: "p1", X: 2.5, Y: 3.5, Timestamp: ts, TrajectoryID: "t1"})
	require.NoError(t, err)
	p, ok := o.(*Point)
	require.True(t, ok)
	assert.Equal(t, grid.CellID(32), p.CellID)
	assert.Equal(t, StreamData, p.Source())
	assert.Equal(t, ts, p.EventTime())
	assert.Equal(t, "t1", p.TrajectoryID)
	assert.Equal(t, []grid.CellID{32}, p.Cells())

	o, err = b.Build(Record{ID: "q1", X: 1, Y: 1, Stream: StreamQuery})
	require.NoError(t, err)
	assert.Equal(t, StreamQuery, o.Source())
}

func TestBuilder_MissingID(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	p1, err := b.Build(Record{X: 1, Y: 1})
	require.NoError(t, err)
	p2, err := b.Build(Record{X: 1, Y: 1})
	require.NoError(t, err)
	_, err = uuid.Parse(p1.ObjectID())
	assert.NoError(t, err)
	assert.NotEqual(t, p1.ObjectID(), p2.ObjectID())

	poly, err := b.Build(Record{Ring: square(1, 1, 1)})
	require.NoError(t, err)
	assert.NotEmpty(t, poly.ObjectID())
}

func TestBuilder_Rejects(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{name: "nan", rec: Record{ID: "a", X: math.NaN(), Y: 1}, want: ErrDegenerateGeometry},
		{name: "inf", rec: Record{ID: "a", X: 1, Y: math.Inf(1)}, want: ErrDegenerateGeometry},
		{name: "out of bounds", rec: Record{ID: "a", X: 11, Y: 1}, want: grid.ErrOutOfBounds},
		{name: "two vertices", rec: Record{ID: "a", Ring: [][2]float64{{1, 1}, {2, 2}, {1, 1}}}, want: ErrDegenerateGeometry},
		{name: "collinear", rec: Record{ID: "a", Ring: [][2]float64{{1, 1}, {2, 2}, {3, 3}}}, want: ErrDegenerateGeometry},
		{name: "polygon out of bounds", rec: Record{ID: "a", Ring: square(8, 8, 3)}, want: grid.ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.rec)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBuilder_Polygon(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	o, err := b.Build(Record{ID: "poly", Ring: square(1.5, 1.5, 1)})
	require.NoError(t, err)
	p := o.(*Polygon)
	assert.True(t, p.Ring.Closed())
	assert.Len(t, p.Ring, 5)
	assert.Equal(t, []grid.CellID{11, 12, 21, 22}, p.OverlappedCells)
	assert.True(t, p.Overlaps(22))
	assert.False(t, p.Overlaps(33))
	assert.True(t, p.Contains(2, 2))
	assert.False(t, p.Contains(3, 3))

	c := testBuilder(t, grid.Clip)
	o, err = c.Build(Record{ID: "clipped", Ring: square(8, 8, 3)})
	require.NoError(t, err)
	assert.Equal(t, []grid.CellID{88, 89, 98, 99}, o.Cells())
}

func TestBuilder_Haversine(t *testing.T) {
	g, err := grid.New(grid.Spec{MinX: -180, MaxX: 0, MinY: -90, MaxY: 90, Resolution: 4, Policy: grid.Clip, Metric: grid.MetricHaversine})
	require.NoError(t, err)
	b := NewBuilder(g)
	_, err = b.Build(Record{ID: "bad", X: 10, Y: 95})
	assert.True(t, errors.Is(err, ErrDegenerateGeometry))
	_, err = b.Build(Record{ID: "ok", X: 10, Y: 45})
	assert.NoError(t, err)
}

func TestDistance(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	m := grid.Euclidean{}
	p1, err := b.NewPoint("p1", 1, 1)
	require.NoError(t, err)
	p2, err := b.NewPoint("p2", 4, 5)
	require.NoError(t, err)
	inside, err := b.NewPoint("in", 6, 6)
	require.NoError(t, err)
	sq, err := b.NewPolygon("sq", square(5, 5, 2))
	require.NoError(t, err)
	far, err := b.NewPolygon("far", square(8, 5, 1))
	require.NoError(t, err)
	overlap, err := b.NewPolygon("overlap", square(6, 6, 2))
	require.NoError(t, err)
	nested, err := b.NewPolygon("nested", square(5.5, 5.5, 0.5))
	require.NoError(t, err)

	assert.InDelta(t, 5, Distance(m, p1, p2), 1e-9)
	assert.Equal(t, 0.0, Distance(m, inside, sq))
	assert.InDelta(t, 1, Distance(m, p2, sq), 1e-9)
	assert.InDelta(t, 1, Distance(m, sq, p2), 1e-9)
	assert.InDelta(t, 1, Distance(m, sq, far), 1e-9)
	assert.Equal(t, 0.0, Distance(m, sq, overlap))
	assert.Equal(t, 0.0, Distance(m, sq, nested))
	assert.Equal(t, 0.0, Distance(m, nested, sq))
}

func TestDistance_HaversinePolygon(t *testing.T) {
	g, err := grid.New(grid.Spec{MinX: -20, MaxX: 40, MinY: 40, MaxY: 80, Resolution: 6, Policy: grid.Reject, Metric: grid.MetricHaversine})
	require.NoError(t, err)
	b := NewBuilder(g)
	m := g.Metric()
	ring := [][2]float64{{0, 60}, {10, 70}, {-10, 70}}
	tri, err := b.NewPolygon("tri", ring)
	require.NoError(t, err)
	p, err := b.NewPoint("p", 10, 60)
	require.NoError(t, err)

	// nearest point along the great-circle edges, sampled
	want := math.Inf(1)
	for i := range ring {
		a := s2.PointFromLatLng(s2.LatLngFromDegrees(ring[i][1], ring[i][0]))
		c := ring[(i+1)%len(ring)]
		z := s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0]))
		for k := 0; k <= 4000; k++ {
			ll := s2.LatLngFromPoint(s2.Interpolate(float64(k)/4000, a, z))
			want = math.Min(want, m.Distance(10, 60, ll.Lng.Degrees(), ll.Lat.Degrees()))
		}
	}
	got := Distance(m, p, tri)
	assert.InDelta(t, want, got, 1)
	assert.Less(t, got, 520000.0)
	assert.Less(t, got, m.Distance(10, 60, 0, 60))
	assert.Equal(t, got, Distance(m, tri, p))

	reversed, err := b.NewPolygon("cw", [][2]float64{{-10, 70}, {10, 70}, {0, 60}})
	require.NoError(t, err)
	assert.InDelta(t, got, Distance(m, p, reversed), 1e-6)

	assert.True(t, tri.Contains(0, 67))
	assert.True(t, reversed.Contains(0, 67))
	assert.False(t, tri.Contains(10, 60))
	assert.Equal(t, 0.0, Distance(m, tri, reversed))
	assert.Greater(t, tri.Bound().Max.Y(), 70.0)

	around, err := b.NewPolygon("around", square(9.9, 59.9, 0.2))
	require.NoError(t, err)
	d := Distance(m, around, tri)
	assert.Less(t, d, got)
	assert.Greater(t, d, got-30000)
	assert.InDelta(t, d, Distance(m, tri, around), 1e-6)
}

func TestLowerBound(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	p, err := b.NewPoint("p", 0.5, 0.5)
	require.NoError(t, err)
	poly, err := b.NewPolygon("sq", square(0.5, 0.5, 1))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), LowerBound(b.grid, 11, p), 1e-9)
	assert.InDelta(t, math.Sqrt(0.5), LowerBound(b.grid, 22, poly), 1e-9)
	assert.Equal(t, 0.0, LowerBound(b.grid, 11, poly))
}

func TestNewPolygon_Empty(t *testing.T) {
	b := testBuilder(t, grid.Reject)
	_, err := b.NewPolygon("empty", nil)
	assert.True(t, errors.Is(err, ErrDegenerateGeometry))
}
