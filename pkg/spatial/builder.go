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
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/numaproj/geoflow/pkg/grid"
)

// ErrDegenerateGeometry is returned for records whose geometry cannot be indexed.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Builder turns records into objects with their cells assigned.
type Builder struct {
	grid *grid.Grid
}

// NewBuilder returns a Builder for the grid.
func NewBuilder(g *grid.Grid) *Builder {
	return &Builder{grid: g}
}

// Build validates the record and assigns its cells. Records on the query stream keep it, every other
// record lands on the data stream. A record without an id gets a random one.
func (b *Builder) Build(r Record) (Object, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	stream := StreamData
	if r.Stream == StreamQuery {
		stream = StreamQuery
	}
	if len(r.Ring) > 0 {
		return b.polygon(r, stream)
	}
	if err := b.checkCoord(r.X, r.Y); err != nil {
		return nil, fmt.Errorf("point %q: %w", r.ID, err)
	}
	cell, err := b.grid.CellOf(r.X, r.Y)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", r.ID, err)
	}
	return &Point{
		ID:           r.ID,
		X:            r.X,
		Y:            r.Y,
		Timestamp:    r.Timestamp,
		TrajectoryID: r.TrajectoryID,
		Stream:       stream,
		CellID:       cell,
	}, nil
}

// NewPoint builds a point that is not part of the stream, such as a configured query point.
func (b *Builder) NewPoint(id string, x, y float64) (*Point, error) {
	o, err := b.Build(Record{ID: id, X: x, Y: y})
	if err != nil {
		return nil, err
	}
	return o.(*Point), nil
}

// NewPolygon builds a polygon that is not part of the stream, such as a configured query polygon.
func (b *Builder) NewPolygon(id string, ring [][2]float64) (*Polygon, error) {
	if len(ring) == 0 {
		return nil, fmt.Errorf("polygon %q: %w: empty ring", id, ErrDegenerateGeometry)
	}
	o, err := b.Build(Record{ID: id, Ring: ring})
	if err != nil {
		return nil, err
	}
	return o.(*Polygon), nil
}

func (b *Builder) polygon(r Record, stream Stream) (*Polygon, error) {
	ring := make(orb.Ring, 0, len(r.Ring)+1)
	distinct := map[orb.Point]struct{}{}
	for _, c := range r.Ring {
		if err := b.checkCoord(c[0], c[1]); err != nil {
			return nil, fmt.Errorf("polygon %q: %w", r.ID, err)
		}
		ring = append(ring, orb.Point{c[0], c[1]})
		distinct[orb.Point{c[0], c[1]}] = struct{}{}
	}
	if len(distinct) < 3 {
		return nil, fmt.Errorf("polygon %q: %w: ring needs 3 distinct vertices, got %d", r.ID, ErrDegenerateGeometry, len(distinct))
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	if planar.Area(ring) == 0 {
		return nil, fmt.Errorf("polygon %q: %w: zero area", r.ID, ErrDegenerateGeometry)
	}
	bound := ring.Bound()
	var loop *s2.Loop
	if b.grid.Metric().Type() == grid.MetricHaversine {
		loop = sphericalLoop(ring)
		bound = extendLatitude(bound, loop.RectBound())
	}
	cells, err := b.grid.CellsInBound(bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y())
	if err != nil {
		return nil, fmt.Errorf("polygon %q: %w", r.ID, err)
	}
	return &Polygon{
		ID:              r.ID,
		Ring:            ring,
		Timestamp:       r.Timestamp,
		Stream:          stream,
		OverlappedCells: cells,
		bound:           bound,
		loop:            loop,
	}, nil
}

// latitudeSlack absorbs the rounding margin s2 adds to loop bounds, in degrees.
const latitudeSlack = 1e-9

// sphericalLoop builds the loop with the ring's interior on its left and without repeated vertices.
func sphericalLoop(ring orb.Ring) *s2.Loop {
	open := ring[:len(ring)-1]
	pts := make([]s2.Point, 0, len(open))
	cw := ring.Orientation() == orb.CW
	for i := range open {
		c := open[i]
		if cw {
			c = open[len(open)-1-i]
		}
		p := sphere(c)
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	l := s2.LoopFromPoints(pts)
	l.Normalize()
	return l
}

// extendLatitude grows the bound to the latitudes great-circle edges reach between their vertices.
// Within the longitude span of a haversine grid an edge never leaves its vertices' longitude range.
func extendLatitude(b orb.Bound, r s2.Rect) orb.Bound {
	if lo := r.Lo().Lat.Degrees(); lo < b.Min.Y()-latitudeSlack {
		b.Min[1] = lo
	}
	if hi := r.Hi().Lat.Degrees(); hi > b.Max.Y()+latitudeSlack {
		b.Max[1] = hi
	}
	return b
}

func (b *Builder) checkCoord(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: non-finite coordinate", ErrDegenerateGeometry)
	}
	if b.grid.Metric().Type() == grid.MetricHaversine && (math.Abs(x) > 180 || math.Abs(y) > 90) {
		return fmt.Errorf("%w: (%v, %v) is not a longitude/latitude pair", ErrDegenerateGeometry, x, y)
	}
	return nil
}
