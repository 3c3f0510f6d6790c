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
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/trajectory"
)

// points returns the points stored under a key, ordered by event time then id.
func points(objs []spatial.Object) []*spatial.Point {
	out := make([]*spatial.Point, 0, len(objs))
	for _, o := range objs {
		if p, ok := o.(*spatial.Point); ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) evalTFilter(s *state.Snapshot) []Result {
	matched := []*spatial.Point{}
	for _, key := range s.Keys() {
		if _, ok := e.ids[key.Trajectory]; ok {
			matched = append(matched, points(s.Objects[key])...)
		}
	}
	w := s.Window
	return []Result{FilterResult{Window: &w, Points: matched}}
}

func (e *Engine) evalTRange(q TRange, s *state.Snapshot) []Result {
	var out []Result
	w := s.Window
	for _, poly := range q.Polygons {
		for _, c := range poly.OverlappedCells {
			for _, p := range points(s.Cell(spatial.StreamData, c)) {
				if poly.Contains(p.X, p.Y) {
					out = append(out, RangeMatch{Window: &w, PolygonID: poly.ID, Point: p})
				}
			}
		}
	}
	return out
}

func (e *Engine) evalTStats(s *state.Snapshot) []Result {
	var out []Result
	w := s.Window
	for _, key := range s.Keys() {
		if len(e.ids) > 0 {
			if _, ok := e.ids[key.Trajectory]; !ok {
				continue
			}
		}
		pts := points(s.Objects[key])
		if len(pts) == 0 {
			continue
		}
		st := trajectory.NewState(pts[0])
		for _, p := range pts[1:] {
			st.Advance(p, e.grid.Metric())
		}
		r := statsResult(st, false)
		r.Window = &w
		out = append(out, r)
	}
	return out
}

func statsResult(st *trajectory.State, final bool) StatsResult {
	return StatsResult{
		TrajectoryID:  st.TrajectoryID,
		TotalDistance: st.CumulativeDistance,
		PointCount:    st.PointCount,
		AvgSpeed:      st.AvgSpeed(),
		Duration:      st.CumulativeDuration,
		Final:         final,
	}
}

func (e *Engine) evalTAggregate(q TAggregate, s *state.Snapshot) []Result {
	var out []Result
	w := s.Window
	for _, key := range s.Keys() {
		byTrajectory := map[string]*trajectory.State{}
		for _, p := range points(s.Objects[key]) {
			if st, ok := byTrajectory[p.TrajectoryID]; ok {
				st.Advance(p, e.grid.Metric())
			} else {
				byTrajectory[p.TrajectoryID] = trajectory.NewState(p)
			}
		}
		if len(byTrajectory) == 0 {
			continue
		}
		states := make([]*trajectory.State, 0, len(byTrajectory))
		for _, st := range byTrajectory {
			states = append(states, st)
		}
		sort.Slice(states, func(i, j int) bool { return states[i].TrajectoryID < states[j].TrajectoryID })
		r, err := heatmap(q, key.Cell, states, w.End)
		if err != nil {
			continue
		}
		r.Window = &w
		out = append(out, r)
	}
	return out
}

// heatmap reduces the per-trajectory values of a cell. An empty cell reduces to zero.
func heatmap(q TAggregate, cell grid.CellID, states []*trajectory.State, ts time.Time) (HeatmapResult, error) {
	r := HeatmapResult{Cell: cell, Reducer: q.Reducer, Values: map[string]float64{}, Timestamp: ts}
	data := make(stats.Float64Data, 0, len(states))
	for _, st := range states {
		v := float64(st.PointCount)
		if q.Value == ValueDwell {
			v = st.Dwell().Seconds()
		}
		r.Values[st.TrajectoryID] = v
		data = append(data, v)
	}
	if len(data) == 0 {
		return r, nil
	}
	v, err := reduce(q.Reducer, data)
	if err != nil {
		return r, err
	}
	r.Value = v
	return r, nil
}

func reduce(r Reducer, data stats.Float64Data) (float64, error) {
	switch r {
	case ReducerSum:
		return stats.Sum(data)
	case ReducerAvg:
		return stats.Mean(data)
	case ReducerMin:
		return stats.Min(data)
	case ReducerMax:
		return stats.Max(data)
	default:
		return 0, fmt.Errorf("unknown reducer %q", r)
	}
}

func (e *Engine) evalTJoin(q TJoin, s *state.Snapshot) []Result {
	type nearest struct {
		id   string
		dist float64
	}
	all := map[Pair]struct{}{}
	for _, a := range distinct(s, spatial.StreamQuery) {
		best := map[string]nearest{}
		e.rangeSearch(s, spatial.StreamData, a, q.Radius, false, func(o spatial.Object, d float64) {
			traj := trajectoryOf(o)
			if traj == "" {
				return
			}
			if n, ok := best[traj]; !ok || d < n.dist || (d == n.dist && o.ObjectID() < n.id) {
				best[traj] = nearest{id: o.ObjectID(), dist: d}
			}
		})
		for traj, n := range best {
			all[Pair{Left: a.ObjectID(), Right: n.id, RightTrajectory: traj, Distance: n.dist}] = struct{}{}
		}
	}
	w := s.Window
	return []Result{JoinResult{Window: &w, Query: TypeTJoin, Pairs: sortedPairs(all)}}
}

func (e *Engine) evalTKNN(q TKNN, s *state.Snapshot) []Result {
	out := make([]Result, 0, len(q.Targets))
	w := s.Window
	for _, target := range q.Targets {
		entries := e.knnSearch(s, spatial.StreamData, target, q.K, func(o spatial.Object) (string, bool) {
			traj := trajectoryOf(o)
			return traj, traj != ""
		})
		neighbors := make([]TrajectoryNeighbor, 0, len(entries))
		for _, en := range entries {
			neighbors = append(neighbors, TrajectoryNeighbor{TrajectoryID: en.traj, PointID: en.id, Distance: en.dist})
		}
		out = append(out, TKNNResult{Window: &w, QueryID: target.ID, Neighbors: neighbors})
	}
	return out
}
