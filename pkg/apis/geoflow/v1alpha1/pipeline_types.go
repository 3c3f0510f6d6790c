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

package v1alpha1

import (
	"time"

	"github.com/numaproj/geoflow/pkg/grid"
)

// Pipeline is the full configuration of one geoflow run.
type Pipeline struct {
	// +optional
	Name   string     `json:"name,omitempty"`
	Grid   GridSpec   `json:"grid"`
	Window WindowSpec `json:"window"`
	Query  QuerySpec  `json:"query"`
	// Workers is the number of partition workers.
	// +optional
	Workers int        `json:"workers,omitempty"`
	Source  SourceSpec `json:"source"`
	Sink    SinkSpec   `json:"sink"`
	// +optional
	Metrics MetricsSpec `json:"metrics,omitempty"`
}

// GridSpec describes the grid index.
type GridSpec struct {
	MinX       float64 `json:"minX"`
	MaxX       float64 `json:"maxX"`
	MinY       float64 `json:"minY"`
	MaxY       float64 `json:"maxY"`
	Resolution int     `json:"resolution"`
	// +optional
	OutOfBounds grid.OutOfBoundsPolicy `json:"outOfBounds,omitempty"`
	// +optional
	Metric grid.MetricType `json:"metric,omitempty"`
}

// GridSpec converts to the grid package spec.
func (g GridSpec) Spec() grid.Spec {
	return grid.Spec{
		MinX:       g.MinX,
		MaxX:       g.MaxX,
		MinY:       g.MinY,
		MaxY:       g.MaxY,
		Resolution: g.Resolution,
		Policy:     g.OutOfBounds,
		Metric:     g.Metric,
	}
}

// WindowType is the clock windows are measured in.
type WindowType string

const (
	// WindowTypeTime measures windows in event time.
	WindowTypeTime WindowType = "time"
	// WindowTypeCount measures windows in ingestion sequence numbers.
	WindowTypeCount WindowType = "count"
)

// WindowSpec describes the window of windowed queries.
type WindowSpec struct {
	// +optional
	Type WindowType `json:"type,omitempty"`
	// Length and Slide are the time window size and step. A zero Slide means tumbling windows.
	// +optional
	Length time.Duration `json:"length,omitempty"`
	// +optional
	Slide time.Duration `json:"slide,omitempty"`
	// Count and CountSlide are the count window size and step in records.
	// +optional
	Count int64 `json:"count,omitempty"`
	// +optional
	CountSlide int64 `json:"countSlide,omitempty"`
	// AllowedLateness holds the watermark back behind the largest event time seen.
	// +optional
	AllowedLateness time.Duration `json:"allowedLateness,omitempty"`
	// FlushOnEnd closes every open window when the source is exhausted.
	// +optional
	FlushOnEnd bool `json:"flushOnEnd,omitempty"`
}

// Size returns the window length in the window's clock.
func (w WindowSpec) Size() time.Duration {
	if w.Type == WindowTypeCount {
		return time.Duration(w.Count)
	}
	return w.Length
}

// Step returns the window slide in the window's clock.
func (w WindowSpec) Step() time.Duration {
	if w.Type == WindowTypeCount {
		return time.Duration(w.CountSlide)
	}
	return w.Slide
}

// Sliding reports whether windows overlap.
func (w WindowSpec) Sliding() bool {
	return w.Step() < w.Size()
}

// PointSpec is a query point.
type PointSpec struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PolygonSpec is a query polygon given by its outer ring.
type PolygonSpec struct {
	ID   string       `json:"id"`
	Ring [][2]float64 `json:"ring"`
}

// QuerySpec describes the continuous query. Which fields apply depends on Type.
type QuerySpec struct {
	// Type is one of range, knn, join, tfilter, trange, tstats, taggregate, tjoin, tknn.
	Type string `json:"type"`
	// +optional
	Radius float64 `json:"radius,omitempty"`
	// +optional
	K int `json:"k,omitempty"`
	// KNNMode is grid or iterative, iterative by default.
	// +optional
	KNNMode string `json:"knnMode,omitempty"`
	// JoinMode is neighbor or optimized, neighbor by default.
	// +optional
	JoinMode string `json:"joinMode,omitempty"`
	// Point or Polygon is the query object of range and knn queries.
	// +optional
	Point *PointSpec `json:"point,omitempty"`
	// +optional
	Polygon *PolygonSpec `json:"polygon,omitempty"`
	// Points are the query points of tknn.
	// +optional
	Points []PointSpec `json:"points,omitempty"`
	// Polygons are the regions of trange.
	// +optional
	Polygons []PolygonSpec `json:"polygons,omitempty"`
	// +optional
	TrajectoryIDs []string `json:"trajectoryIds,omitempty"`
	// Realtime evaluates tfilter, trange, tstats and taggregate per record instead of per window.
	// +optional
	Realtime bool `json:"realtime,omitempty"`
	// +optional
	Reducer string `json:"reducer,omitempty"`
	// Value is COUNT or DWELL, COUNT by default.
	// +optional
	Value string `json:"value,omitempty"`
	// +optional
	InactivityThreshold time.Duration `json:"inactivityThreshold,omitempty"`
	// SweepInterval is how often unwindowed queries evict inactive trajectories, in event time.
	// +optional
	SweepInterval time.Duration `json:"sweepInterval,omitempty"`
}

// Unwindowed reports whether the query is evaluated per record.
func (q QuerySpec) Unwindowed() bool {
	switch q.Type {
	case "tfilter", "trange", "tstats", "taggregate":
		return q.Realtime
	}
	return false
}

// MetricsSpec configures the prometheus endpoint.
type MetricsSpec struct {
	// +optional
	Enabled bool `json:"enabled,omitempty"`
	// +optional
	Addr string `json:"addr,omitempty"`
}
