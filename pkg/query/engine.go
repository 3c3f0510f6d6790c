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
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// ErrInvalidQuery is returned by New for queries that cannot run.
var ErrInvalidQuery = errors.New("invalid query")

// DefaultLayerCacheSize is the default number of neighbor layers cached by an Engine.
const DefaultLayerCacheSize = 4096

// Operator evaluates an unwindowed query record by record. Each partition worker owns one Operator.
type Operator interface {
	// Process evaluates one object. now is the event-time clock of the worker.
	Process(o spatial.Object, now time.Time) []Result
	// Tick advances the clock without an object, for periodic eviction.
	Tick(now time.Time) []Result
}

type options struct {
	layerCacheSize int
}

// Option configures an Engine.
type Option func(*options)

// WithLayerCacheSize sets the number of cached neighbor layers.
func WithLayerCacheSize(n int) Option {
	return func(o *options) {
		o.layerCacheSize = n
	}
}

type layerKey struct {
	cell   grid.CellID
	radius float64
}

// Engine evaluates a query. Evaluate is called by the merger only; operators are per worker.
type Engine struct {
	query  Query
	grid   *grid.Grid
	layers *lru.Cache[layerKey, grid.NeighborLayer]
	ids    map[string]struct{}
}

// New validates the query and builds its engine.
func New(q Query, g *grid.Grid, opts ...Option) (*Engine, error) {
	o := &options{layerCacheSize: DefaultLayerCacheSize}
	for _, opt := range opts {
		opt(o)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: no grid", ErrInvalidQuery)
	}
	if err := validate(q); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidQuery, typeOf(q), err)
	}
	layers, err := lru.New[layerKey, grid.NeighborLayer](max(o.layerCacheSize, 1))
	if err != nil {
		return nil, err
	}
	e := &Engine{query: q, grid: g, layers: layers}
	switch q := q.(type) {
	case TFilter:
		e.ids = idSet(q.TrajectoryIDs)
	case TStats:
		e.ids = idSet(q.TrajectoryIDs)
	}
	return e, nil
}

func typeOf(q Query) string {
	if q == nil {
		return "<nil>"
	}
	return string(q.Type())
}

func validRadius(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("radius must be positive, got %v", r)
	}
	return nil
}

func validate(q Query) error {
	switch q := q.(type) {
	case Range:
		if q.Target == nil {
			return errors.New("no query object")
		}
		return validRadius(q.Radius)
	case KNN:
		if q.Target == nil {
			return errors.New("no query object")
		}
		if q.K <= 0 {
			return fmt.Errorf("k must be positive, got %d", q.K)
		}
		switch q.Mode {
		case KNNGrid:
			return validRadius(q.Radius)
		case KNNIterative:
			return nil
		default:
			return fmt.Errorf("unknown knn mode %q", q.Mode)
		}
	case Join:
		if q.Mode != JoinNeighbor && q.Mode != JoinOptimized {
			return fmt.Errorf("unknown join mode %q", q.Mode)
		}
		return validRadius(q.Radius)
	case TFilter:
		if len(q.TrajectoryIDs) == 0 {
			return errors.New("no trajectory ids")
		}
	case TRange:
		if len(q.Polygons) == 0 {
			return errors.New("no polygons")
		}
	case TStats:
		if q.Realtime && q.InactivityThreshold <= 0 {
			return errors.New("unwindowed stats need an inactivity threshold")
		}
	case TAggregate:
		switch q.Reducer {
		case ReducerSum, ReducerAvg, ReducerMin, ReducerMax:
		default:
			return fmt.Errorf("unknown reducer %q", q.Reducer)
		}
		if q.Value != ValueCount && q.Value != ValueDwell {
			return fmt.Errorf("unknown aggregate value %q", q.Value)
		}
		if q.Realtime && q.InactivityThreshold <= 0 {
			return errors.New("unwindowed aggregates need an inactivity threshold")
		}
	case TJoin:
		return validRadius(q.Radius)
	case TKNN:
		if q.K <= 0 {
			return fmt.Errorf("k must be positive, got %d", q.K)
		}
		if len(q.Targets) == 0 {
			return errors.New("no query points")
		}
	default:
		return fmt.Errorf("unknown query %T", q)
	}
	return nil
}

// Query returns the query.
func (e *Engine) Query() Query {
	return e.query
}

// Grid returns the grid the engine searches.
func (e *Engine) Grid() *grid.Grid {
	return e.grid
}

// Windowed reports whether the query is evaluated on window close.
func (e *Engine) Windowed() bool {
	switch q := e.query.(type) {
	case TFilter:
		return !q.Realtime
	case TRange:
		return !q.Realtime
	case TStats:
		return !q.Realtime
	case TAggregate:
		return !q.Realtime
	default:
		return true
	}
}

// PartitionKeys returns the keys the object is buffered under. Objects the query has no use for get
// no keys.
func (e *Engine) PartitionKeys(o spatial.Object) []state.Key {
	p, isPoint := o.(*spatial.Point)
	data := o.Source() == spatial.StreamData
	switch e.query.(type) {
	case Range, KNN:
		if data {
			return cellKeys(o)
		}
	case Join:
		return cellKeys(o)
	case TFilter, TStats:
		if data && isPoint && p.TrajectoryID != "" {
			return []state.Key{{Stream: spatial.StreamData, Trajectory: p.TrajectoryID}}
		}
	case TRange:
		if data && isPoint {
			return cellKeys(o)
		}
	case TAggregate, TKNN:
		if data && isPoint && p.TrajectoryID != "" {
			return cellKeys(o)
		}
	case TJoin:
		if isPoint && (!data || p.TrajectoryID != "") {
			return cellKeys(o)
		}
	}
	return nil
}

func cellKeys(o spatial.Object) []state.Key {
	cells := o.Cells()
	keys := make([]state.Key, 0, len(cells))
	for _, c := range cells {
		keys = append(keys, state.Key{Stream: o.Source(), Cell: c})
	}
	return keys
}

// Evaluate runs the query against a closed window.
func (e *Engine) Evaluate(s *state.Snapshot) []Result {
	switch q := e.query.(type) {
	case Range:
		return e.evalRange(q, s)
	case KNN:
		return e.evalKNN(q, s)
	case Join:
		return e.evalJoin(q, s)
	case TFilter:
		return e.evalTFilter(s)
	case TRange:
		return e.evalTRange(q, s)
	case TStats:
		return e.evalTStats(s)
	case TAggregate:
		return e.evalTAggregate(q, s)
	case TJoin:
		return e.evalTJoin(q, s)
	case TKNN:
		return e.evalTKNN(q, s)
	}
	return nil
}

// NewOperator returns a fresh Operator for a partition worker, or nil for windowed queries.
func (e *Engine) NewOperator() Operator {
	if e.Windowed() {
		return nil
	}
	switch q := e.query.(type) {
	case TFilter:
		return &filterOperator{ids: e.ids}
	case TRange:
		return &rangeOperator{polygons: q.Polygons}
	case TStats:
		return newStatsOperator(e, q)
	case TAggregate:
		return newAggregateOperator(e, q)
	}
	return nil
}

// layer returns the cached neighbor layer of a cell. The grid never changes, so layers never go stale.
func (e *Engine) layer(cell grid.CellID, radius float64) grid.NeighborLayer {
	k := layerKey{cell: cell, radius: radius}
	if l, ok := e.layers.Get(k); ok {
		return l
	}
	l := e.grid.NeighborLayer(cell, radius)
	e.layers.Add(k, l)
	return l
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
