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
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/numaproj/geoflow/pkg/grid"
)

// Distance returns the distance between two objects under the metric. Polygons are solid: the
// distance to a polygon is zero when the other object touches or lies inside it.
// Polygons built on a haversine grid have great-circle edges and are measured on the sphere.
func Distance(m grid.Metric, a, b Object) float64 {
	switch a := a.(type) {
	case *Point:
		switch b := b.(type) {
		case *Point:
			return m.Distance(a.X, a.Y, b.X, b.Y)
		case *Polygon:
			return pointPolygon(m, a.Coord(), b)
		}
	case *Polygon:
		switch b := b.(type) {
		case *Point:
			return pointPolygon(m, b.Coord(), a)
		case *Polygon:
			return polygonPolygon(m, a, b)
		}
	}
	return math.Inf(1)
}

// LowerBound returns a lower bound on the distance from o to anything stored in the cell.
func LowerBound(g *grid.Grid, cell grid.CellID, o Object) float64 {
	if p, ok := o.(*Point); ok {
		return g.MinDistance(cell, p.X, p.Y)
	}
	b := o.Bound()
	return g.MinDistanceRect(cell, b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}

func ringContains(r orb.Ring, p orb.Point) bool {
	if !r.Bound().Contains(p) {
		return false
	}
	return planar.RingContains(r, p)
}

func pointPolygon(m grid.Metric, p orb.Point, poly *Polygon) float64 {
	if poly.loop != nil {
		return pointLoop(sphere(p), poly.loop).Radians() * grid.EarthRadiusMeters
	}
	if ringContains(poly.Ring, p) {
		return 0
	}
	return pointRing(m, p, poly.Ring)
}

// pointRing is the distance from p to the nearest point of the ring's boundary.
func pointRing(m grid.Metric, p orb.Point, r orb.Ring) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(r); i++ {
		c := closestOnSegment(r[i], r[i+1], p)
		best = math.Min(best, m.Distance(p.X(), p.Y(), c.X(), c.Y()))
	}
	return best
}

func polygonPolygon(m grid.Metric, pa, pb *Polygon) float64 {
	if pa.loop != nil && pb.loop != nil {
		return loopLoop(pa.loop, pb.loop) * grid.EarthRadiusMeters
	}
	a, b := pa.Ring, pb.Ring
	if !a.Bound().Intersects(b.Bound()) {
		return ringRing(m, a, b)
	}
	if ringContains(a, b[0]) || ringContains(b, a[0]) {
		return 0
	}
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return 0
			}
		}
	}
	return ringRing(m, a, b)
}

// ringRing is the boundary distance of two disjoint rings, which is reached at a vertex of one of them.
func ringRing(m grid.Metric, a, b orb.Ring) float64 {
	best := math.Inf(1)
	for _, p := range a {
		best = math.Min(best, pointRing(m, p, b))
	}
	for _, p := range b {
		best = math.Min(best, pointRing(m, p, a))
	}
	return best
}

func sphere(p orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Y(), p.X()))
}

// pointLoop is the angle from x to the loop, zero inside it.
func pointLoop(x s2.Point, l *s2.Loop) s1.Angle {
	if l.ContainsPoint(x) {
		return 0
	}
	best := s1.Angle(math.Inf(1))
	for i := 0; i < l.NumVertices(); i++ {
		if d := s2.DistanceFromSegment(x, l.Vertex(i), l.Vertex(i+1)); d < best {
			best = d
		}
	}
	return best
}

// loopLoop is the angle in radians between two loops. Two edges that do not cross are closest at an
// endpoint of one of them.
func loopLoop(a, b *s2.Loop) float64 {
	if a.ContainsPoint(b.Vertex(0)) || b.ContainsPoint(a.Vertex(0)) {
		return 0
	}
	best := math.Inf(1)
	for i := 0; i < a.NumVertices(); i++ {
		a0, a1 := a.Vertex(i), a.Vertex(i+1)
		for j := 0; j < b.NumVertices(); j++ {
			b0, b1 := b.Vertex(j), b.Vertex(j+1)
			if s2.CrossingSign(a0, a1, b0, b1) != s2.DoNotCross {
				return 0
			}
			best = math.Min(best, math.Min(
				math.Min(s2.DistanceFromSegment(a0, b0, b1).Radians(), s2.DistanceFromSegment(a1, b0, b1).Radians()),
				math.Min(s2.DistanceFromSegment(b0, a0, a1).Radians(), s2.DistanceFromSegment(b1, a0, a1).Radians()),
			))
		}
	}
	return best
}

func closestOnSegment(a, b, p orb.Point) orb.Point {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	l := dx*dx + dy*dy
	if l == 0 {
		return a
	}
	t := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / l
	t = math.Max(0, math.Min(1, t))
	return orb.Point{a.X() + t*dx, a.Y() + t*dy}
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c orb.Point) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a.X(), b.X()) <= p.X() && p.X() <= math.Max(a.X(), b.X()) &&
		math.Min(a.Y(), b.Y()) <= p.Y() && p.Y() <= math.Max(a.Y(), b.Y())
}
