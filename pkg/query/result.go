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

package query

import (
	"time"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/window"
)

// Result is one output tuple. Window is nil for results of unwindowed queries.
type Result interface {
	// ResultType returns the selector of the query that produced the result.
	ResultType() Type
}

// Match is an object matched by a range query.
type Match struct {
	ID           string `json:"id"`
	TrajectoryID string `json:"trajectoryId,omitempty"`
}

// RangeResult is the unordered set of data objects within the radius, sorted by id for stable output.
type RangeResult struct {
	Window  *window.Window `json:"window,omitempty"`
	QueryID string         `json:"queryId"`
	Matches []Match        `json:"matches"`
}

// Neighbor is a ranked kNN entry.
type Neighbor struct {
	ID           string  `json:"id"`
	TrajectoryID string  `json:"trajectoryId,omitempty"`
	Distance     float64 `json:"distance"`
}

// KNNResult is the ranked k-list, ascending by distance then id.
type KNNResult struct {
	Window    *window.Window `json:"window,omitempty"`
	QueryID   string         `json:"queryId"`
	Neighbors []Neighbor     `json:"neighbors"`
}

// Pair is a join pair of a query stream object and a data object.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	// RightTrajectory and Distance are set by trajectory joins, where Right is the trajectory's
	// nearest point.
	RightTrajectory string  `json:"rightTrajectory,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
}

// JoinResult is the set of join pairs of a window, sorted.
type JoinResult struct {
	Window *window.Window `json:"window,omitempty"`
	Query  Type           `json:"query"`
	Pairs  []Pair         `json:"pairs"`
}

// FilterResult is the set of points of the selected trajectories in a window.
type FilterResult struct {
	Window *window.Window   `json:"window"`
	Points []*spatial.Point `json:"points"`
}

// FilterMatch is a point of a selected trajectory, emitted as soon as it arrives.
type FilterMatch struct {
	Point *spatial.Point `json:"point"`
}

// RangeMatch is a point inside one of the configured polygons.
type RangeMatch struct {
	Window    *window.Window `json:"window,omitempty"`
	PolygonID string         `json:"polygonId"`
	Point     *spatial.Point `json:"point"`
}

// StatsResult is the running statistics of a trajectory. Final is set when the trajectory is evicted.
type StatsResult struct {
	Window        *window.Window `json:"window,omitempty"`
	TrajectoryID  string         `json:"trajectoryId"`
	TotalDistance float64        `json:"totalDistance"`
	PointCount    int            `json:"pointCount"`
	AvgSpeed      float64        `json:"avgSpeed"`
	Duration      time.Duration  `json:"duration"`
	Final         bool           `json:"final,omitempty"`
}

// HeatmapResult is the reduced value of one cell. Values holds the per-trajectory values it reduces.
type HeatmapResult struct {
	Window    *window.Window     `json:"window,omitempty"`
	Cell      grid.CellID        `json:"cell"`
	Reducer   Reducer            `json:"reducer"`
	Value     float64            `json:"value"`
	Values    map[string]float64 `json:"values"`
	Timestamp time.Time          `json:"timestamp"`
}

// TrajectoryNeighbor is a ranked trajectory kNN entry, represented by its nearest point.
type TrajectoryNeighbor struct {
	TrajectoryID string  `json:"trajectoryId"`
	PointID      string  `json:"pointId"`
	Distance     float64 `json:"distance"`
}

// TKNNResult is the ranked list of the nearest trajectories to a target.
type TKNNResult struct {
	Window    *window.Window       `json:"window"`
	QueryID   string               `json:"queryId"`
	Neighbors []TrajectoryNeighbor `json:"neighbors"`
}

func (RangeResult) ResultType() Type   { return TypeRange }
func (KNNResult) ResultType() Type     { return TypeKNN }
func (r JoinResult) ResultType() Type  { return r.Query }
func (FilterResult) ResultType() Type  { return TypeTFilter }
func (FilterMatch) ResultType() Type   { return TypeTFilter }
func (RangeMatch) ResultType() Type    { return TypeTRange }
func (StatsResult) ResultType() Type   { return TypeTStats }
func (HeatmapResult) ResultType() Type { return TypeTAggregate }
func (TKNNResult) ResultType() Type    { return TypeTKNN }
