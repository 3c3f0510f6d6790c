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

// Package spatial defines the objects flowing through geoflow: the decoded ingestion Record and the
// Point and Polygon values built from it with their grid cells assigned.
package spatial

import (
	"time"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"

	"github.com/numaproj/geoflow/pkg/grid"
)

// Stream names one of the two inputs of a join.
type Stream string

const (
	// StreamData is the default input, the B side of joins.
	StreamData Stream = "data"
	// StreamQuery is the A side of joins.
	StreamQuery Stream = "query"
)

// Record is a decoded ingestion record. A record with a Ring describes a polygon, otherwise a point.
type Record struct {
	ID           string       `json:"id"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Timestamp    time.Time    `json:"timestamp"`
	TrajectoryID string       `json:"trajectoryId,omitempty"`
	Stream       Stream       `json:"stream,omitempty"`
	Ring         [][2]float64 `json:"ring,omitempty"`
}

// Object is a Point or a Polygon.
type Object interface {
	// ObjectID returns the id of the object.
	ObjectID() string
	// EventTime returns the event time of the object.
	EventTime() time.Time
	// Source returns the stream the object arrived on.
	Source() Stream
	// Cells returns the cells the object is stored under.
	Cells() []grid.CellID
	// Bound returns the bounding box of the object.
	Bound() orb.Bound
}

// Point is an immutable moving point.
type Point struct {
	ID           string      `json:"id"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Timestamp    time.Time   `json:"timestamp"`
	TrajectoryID string      `json:"trajectoryId,omitempty"`
	Stream       Stream      `json:"stream,omitempty"`
	CellID       grid.CellID `json:"cellId"`
}

var _ Object = (*Point)(nil)

func (p *Point) ObjectID() string { return p.ID }

func (p *Point) EventTime() time.Time { return p.Timestamp }

func (p *Point) Source() Stream { return p.Stream }

func (p *Point) Cells() []grid.CellID { return []grid.CellID{p.CellID} }

func (p *Point) Bound() orb.Bound { return orb.Bound{Min: p.Coord(), Max: p.Coord()} }

// Coord returns the point as an orb.Point.
func (p *Point) Coord() orb.Point { return orb.Point{p.X, p.Y} }

// Polygon is an immutable polygon with a single closed outer ring.
type Polygon struct {
	ID        string    `json:"id"`
	Ring      orb.Ring  `json:"ring"`
	Timestamp time.Time `json:"timestamp"`
	Stream    Stream    `json:"stream,omitempty"`
	// OverlappedCells are the cells whose rectangle intersects the polygon's bounding box.
	OverlappedCells []grid.CellID `json:"overlappedCells"`

	bound orb.Bound
	// loop is the ring on the sphere, set on haversine grids.
	loop *s2.Loop
}

var _ Object = (*Polygon)(nil)

func (p *Polygon) ObjectID() string { return p.ID }

func (p *Polygon) EventTime() time.Time { return p.Timestamp }

func (p *Polygon) Source() Stream { return p.Stream }

func (p *Polygon) Cells() []grid.CellID { return p.OverlappedCells }

func (p *Polygon) Bound() orb.Bound { return p.bound }

// Overlaps reports whether id is one of the polygon's overlapped cells.
func (p *Polygon) Overlaps(id grid.CellID) bool {
	for _, c := range p.OverlappedCells {
		if c == id {
			return true
		}
	}
	return false
}

// Contains reports whether the point lies inside the polygon or on its boundary.
func (p *Polygon) Contains(x, y float64) bool {
	if p.loop != nil {
		return pointLoop(sphere(orb.Point{x, y}), p.loop) == 0
	}
	return ringContains(p.Ring, orb.Point{x, y})
}
