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
	"sort"
	"time"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/trajectory"
)

type filterOperator struct {
	ids map[string]struct{}
}

func (f *filterOperator) Process(o spatial.Object, _ time.Time) []Result {
	p, ok := o.(*spatial.Point)
	if !ok {
		return nil
	}
	if _, ok := f.ids[p.TrajectoryID]; !ok {
		return nil
	}
	return []Result{FilterMatch{Point: p}}
}

func (f *filterOperator) Tick(time.Time) []Result { return nil }

type rangeOperator struct {
	polygons []*spatial.Polygon
}

func (r *rangeOperator) Process(o spatial.Object, _ time.Time) []Result {
	p, ok := o.(*spatial.Point)
	if !ok {
		return nil
	}
	var out []Result
	for _, poly := range r.polygons {
		if poly.Overlaps(p.CellID) && poly.Contains(p.X, p.Y) {
			out = append(out, RangeMatch{PolygonID: poly.ID, Point: p})
		}
	}
	return out
}

func (r *rangeOperator) Tick(time.Time) []Result { return nil }

// statsOperator emits the running statistics of a trajectory on every point and a final tuple when
// the trajectory is evicted.
type statsOperator struct {
	ids   map[string]struct{}
	store *trajectory.Store
}

func newStatsOperator(e *Engine, q TStats) *statsOperator {
	return &statsOperator{ids: e.ids, store: trajectory.NewStore(e.grid.Metric(), q.InactivityThreshold)}
}

func (s *statsOperator) Process(o spatial.Object, now time.Time) []Result {
	p, ok := o.(*spatial.Point)
	if !ok {
		return nil
	}
	if len(s.ids) > 0 {
		if _, ok := s.ids[p.TrajectoryID]; !ok {
			return nil
		}
	}
	var out []Result
	current, evicted := s.store.Observe(p, now)
	if evicted != nil {
		metrics.TrajectoriesEvicted.WithLabelValues(string(TypeTStats)).Inc()
		out = append(out, statsResult(evicted, true))
	}
	return append(out, statsResult(current, false))
}

func (s *statsOperator) Tick(now time.Time) []Result {
	evicted := s.store.Sweep(now)
	if len(evicted) == 0 {
		return nil
	}
	metrics.TrajectoriesEvicted.WithLabelValues(string(TypeTStats)).Add(float64(len(evicted)))
	out := make([]Result, 0, len(evicted))
	for _, st := range evicted {
		out = append(out, statsResult(st, true))
	}
	return out
}

// aggregateOperator keeps one trajectory store per cell and emits the cell's heatmap value whenever
// it changes. Evicted trajectories drop out of every later emission.
type aggregateOperator struct {
	query  TAggregate
	metric grid.Metric
	stores map[grid.CellID]*trajectory.Store
}

func newAggregateOperator(e *Engine, q TAggregate) *aggregateOperator {
	return &aggregateOperator{query: q, metric: e.grid.Metric(), stores: map[grid.CellID]*trajectory.Store{}}
}

func (a *aggregateOperator) Process(o spatial.Object, now time.Time) []Result {
	p, ok := o.(*spatial.Point)
	if !ok {
		return nil
	}
	st, ok := a.stores[p.CellID]
	if !ok {
		st = trajectory.NewStore(a.metric, a.query.InactivityThreshold)
		a.stores[p.CellID] = st
	}
	a.evicted(len(st.Sweep(now)))
	st.Observe(p, now)
	r, err := heatmap(a.query, p.CellID, st.States(), now)
	if err != nil {
		return nil
	}
	return []Result{r}
}

func (a *aggregateOperator) Tick(now time.Time) []Result {
	cells := make([]grid.CellID, 0, len(a.stores))
	for c := range a.stores {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	var out []Result
	for _, c := range cells {
		st := a.stores[c]
		n := len(st.Sweep(now))
		if n == 0 {
			continue
		}
		a.evicted(n)
		if r, err := heatmap(a.query, c, st.States(), now); err == nil {
			out = append(out, r)
		}
		if st.Len() == 0 {
			delete(a.stores, c)
		}
	}
	return out
}

func (a *aggregateOperator) evicted(n int) {
	if n > 0 {
		metrics.TrajectoriesEvicted.WithLabelValues(string(TypeTAggregate)).Add(float64(n))
	}
}
