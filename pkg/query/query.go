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

// Package query implements the continuous query engines. A Query is one of a closed set of variants,
// each holding only its own parameters; New builds the Engine evaluating it against window snapshots,
// and for the unwindowed variants the Operator evaluating it per record.
package query

import (
	"time"

	"github.com/numaproj/geoflow/pkg/spatial"
)

// Type is the query selector.
type Type string

const (
	TypeRange      Type = "range"
	TypeKNN        Type = "knn"
	TypeJoin       Type = "join"
	TypeTFilter    Type = "tfilter"
	TypeTRange     Type = "trange"
	TypeTStats     Type = "tstats"
	TypeTAggregate Type = "taggregate"
	TypeTJoin      Type = "tjoin"
	TypeTKNN       Type = "tknn"
)

// Types lists every query selector.
var Types = []Type{TypeRange, TypeKNN, TypeJoin, TypeTFilter, TypeTRange, TypeTStats, TypeTAggregate, TypeTJoin, TypeTKNN}

// KNNMode selects the kNN algorithm.
type KNNMode string

const (
	// KNNGrid collects everything within a fixed radius and keeps the k nearest. It may return fewer
	// than k neighbors.
	KNNGrid KNNMode = "grid"
	// KNNIterative expands rings until no unexplored cell can hold a closer object.
	KNNIterative KNNMode = "iterative"
)

// JoinMode selects the join algorithm.
type JoinMode string

const (
	// JoinNeighbor runs a range search per object of the query stream.
	JoinNeighbor JoinMode = "neighbor"
	// JoinOptimized pairs objects through the neighbor layer of their cell.
	JoinOptimized JoinMode = "optimized"
)

// Reducer folds per-trajectory values of a cell into one value.
type Reducer string

const (
	ReducerSum Reducer = "SUM"
	ReducerAvg Reducer = "AVG"
	ReducerMin Reducer = "MIN"
	ReducerMax Reducer = "MAX"
)

// AggregateValue is the per-trajectory value reduced by the heatmap.
type AggregateValue string

const (
	// ValueCount is the number of points a trajectory reported in the cell.
	ValueCount AggregateValue = "COUNT"
	// ValueDwell is the number of seconds between a trajectory's first and last point in the cell.
	ValueDwell AggregateValue = "DWELL"
)

// Query is a continuous query.
type Query interface {
	// Type returns the selector of the query.
	Type() Type
	isQuery()
}

// Range returns the data objects within Radius of Target.
type Range struct {
	Target spatial.Object
	Radius float64
}

// KNN returns the K data objects nearest to Target.
type KNN struct {
	Target spatial.Object
	K      int
	// Radius bounds the search of the grid mode.
	Radius float64
	Mode   KNNMode
}

// Join pairs every query stream object with the data objects within Radius.
type Join struct {
	Radius float64
	Mode   JoinMode
}

// TFilter keeps the points of the listed trajectories.
type TFilter struct {
	TrajectoryIDs []string
	Realtime      bool
}

// TRange keeps the points inside any of the polygons.
type TRange struct {
	Polygons []*spatial.Polygon
	Realtime bool
}

// TStats accumulates distance and duration per trajectory. An empty id list selects every trajectory.
type TStats struct {
	TrajectoryIDs       []string
	InactivityThreshold time.Duration
	Realtime            bool
}

// TAggregate reduces a per-trajectory value per grid cell into a heatmap.
type TAggregate struct {
	Reducer             Reducer
	Value               AggregateValue
	InactivityThreshold time.Duration
	Realtime            bool
}

// TJoin finds, for every query stream point, the data trajectories passing within Radius.
type TJoin struct {
	Radius float64
}

// TKNN finds, for every target, the K nearest distinct trajectories.
type TKNN struct {
	Targets []*spatial.Point
	K       int
}

func (Range) Type() Type      { return TypeRange }
func (KNN) Type() Type        { return TypeKNN }
func (Join) Type() Type       { return TypeJoin }
func (TFilter) Type() Type    { return TypeTFilter }
func (TRange) Type() Type     { return TypeTRange }
func (TStats) Type() Type     { return TypeTStats }
func (TAggregate) Type() Type { return TypeTAggregate }
func (TJoin) Type() Type      { return TypeTJoin }
func (TKNN) Type() Type       { return TypeTKNN }

func (Range) isQuery()      {}
func (KNN) isQuery()        {}
func (Join) isQuery()       {}
func (TFilter) isQuery()    {}
func (TRange) isQuery()     {}
func (TStats) isQuery()     {}
func (TAggregate) isQuery() {}
func (TJoin) isQuery()      {}
func (TKNN) isQuery()       {}
