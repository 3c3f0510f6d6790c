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
	"fmt"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// FromSpec builds the query a pipeline spec describes. Query geometry is built with b so it lands on
// the pipeline's grid.
func FromSpec(spec v1alpha1.QuerySpec, b *spatial.Builder) (Query, error) {
	switch Type(spec.Type) {
	case TypeRange:
		target, err := target(spec, b)
		if err != nil {
			return nil, err
		}
		return Range{Target: target, Radius: spec.Radius}, nil
	case TypeKNN:
		target, err := target(spec, b)
		if err != nil {
			return nil, err
		}
		mode := KNNMode(spec.KNNMode)
		if mode == "" {
			mode = KNNIterative
		}
		return KNN{Target: target, K: spec.K, Radius: spec.Radius, Mode: mode}, nil
	case TypeJoin:
		mode := JoinMode(spec.JoinMode)
		if mode == "" {
			mode = JoinNeighbor
		}
		return Join{Radius: spec.Radius, Mode: mode}, nil
	case TypeTFilter:
		return TFilter{TrajectoryIDs: spec.TrajectoryIDs, Realtime: spec.Realtime}, nil
	case TypeTRange:
		polygons := make([]*spatial.Polygon, 0, len(spec.Polygons))
		for _, ps := range spec.Polygons {
			p, err := b.NewPolygon(ps.ID, ps.Ring)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
			}
			polygons = append(polygons, p)
		}
		return TRange{Polygons: polygons, Realtime: spec.Realtime}, nil
	case TypeTStats:
		return TStats{
			TrajectoryIDs:       spec.TrajectoryIDs,
			InactivityThreshold: spec.InactivityThreshold,
			Realtime:            spec.Realtime,
		}, nil
	case TypeTAggregate:
		value := AggregateValue(spec.Value)
		if value == "" {
			value = ValueCount
		}
		return TAggregate{
			Reducer:             Reducer(spec.Reducer),
			Value:               value,
			InactivityThreshold: spec.InactivityThreshold,
			Realtime:            spec.Realtime,
		}, nil
	case TypeTJoin:
		return TJoin{Radius: spec.Radius}, nil
	case TypeTKNN:
		targets := make([]*spatial.Point, 0, len(spec.Points))
		for _, ps := range spec.Points {
			p, err := b.NewPoint(ps.ID, ps.X, ps.Y)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
			}
			targets = append(targets, p)
		}
		return TKNN{Targets: targets, K: spec.K}, nil
	}
	return nil, fmt.Errorf("%w: unknown selector %q", ErrInvalidQuery, spec.Type)
}

func target(spec v1alpha1.QuerySpec, b *spatial.Builder) (spatial.Object, error) {
	switch {
	case spec.Point != nil && spec.Polygon != nil:
		return nil, fmt.Errorf("%w: %s takes a query point or a query polygon, not both", ErrInvalidQuery, spec.Type)
	case spec.Point != nil:
		p, err := b.NewPoint(spec.Point.ID, spec.Point.X, spec.Point.Y)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		return p, nil
	case spec.Polygon != nil:
		p, err := b.NewPolygon(spec.Polygon.ID, spec.Polygon.Ring)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s needs a query point or polygon", ErrInvalidQuery, spec.Type)
}
