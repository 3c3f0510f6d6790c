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
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used by the Haversine metric.
const EarthRadiusMeters = 6371000.0

// MetricType names a distance metric.
type MetricType string

const (
	MetricEuclidean MetricType = "euclidean"
	MetricHaversine MetricType = "haversine"
)

// Metric measures distances between coordinates. LowerBound and UpperBound must be monotone
// non-decreasing in both arguments; the pruning in this package and in the query engines depends on it.
type Metric interface {
	// Type returns the metric type.
	Type() MetricType
	// Distance returns the exact distance between (x1, y1) and (x2, y2).
	Distance(x1, y1, x2, y2 float64) float64
	// LowerBound returns a lower bound on the distance between any two coordinates
	// whose x values differ by at least dx and whose y values differ by at least dy.
	LowerBound(dx, dy float64) float64
	// UpperBound returns an upper bound on the distance between any two coordinates
	// whose x values differ by at most dx and whose y values differ by at most dy.
	UpperBound(dx, dy float64) float64
}

// Euclidean is the planar metric.
type Euclidean struct{}

var _ Metric = Euclidean{}

func (Euclidean) Type() MetricType { return MetricEuclidean }

func (Euclidean) Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

func (Euclidean) LowerBound(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

func (Euclidean) UpperBound(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

// Haversine measures great-circle distances in meters. Coordinates are degrees, x is the
// longitude and y the latitude.
type Haversine struct {
	// cosSq is cos²(φ) of the largest absolute latitude any coordinate may have. It scales the
	// longitude term of the lower bound.
	cosSq float64
}

var _ Metric = Haversine{}

// NewHaversine returns a Haversine metric for coordinates whose absolute latitude never exceeds maxAbsLat.
func NewHaversine(maxAbsLat float64) Haversine {
	maxAbsLat = math.Min(math.Abs(maxAbsLat), 90)
	c := math.Cos(maxAbsLat * math.Pi / 180)
	return Haversine{cosSq: math.Max(0, c*c)}
}

func (Haversine) Type() MetricType { return MetricHaversine }

func (Haversine) Distance(x1, y1, x2, y2 float64) float64 {
	p1 := s2.LatLngFromDegrees(y1, x1)
	p2 := s2.LatLngFromDegrees(y2, x2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// LowerBound uses hav(d) = hav(Δφ) + cosφ1·cosφ2·hav(Δλ) with cosφ1·cosφ2 ≥ cos²(φmax).
func (h Haversine) LowerBound(dx, dy float64) float64 {
	v := hav(radians(math.Min(dy, 180))) + h.cosSq*hav(radians(math.Min(dx, 180)))
	return angle(v)
}

// UpperBound uses cosφ1·cosφ2 ≤ 1.
func (Haversine) UpperBound(dx, dy float64) float64 {
	if math.IsInf(dx, 1) || math.IsInf(dy, 1) {
		return math.Inf(1)
	}
	v := hav(radians(math.Min(dy, 180))) + hav(radians(math.Min(dx, 180)))
	return angle(v)
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func angle(h float64) float64 {
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h)) * EarthRadiusMeters
}
