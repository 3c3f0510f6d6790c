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

// Package trajectory keeps per-trajectory running statistics with inactivity eviction.
//
// A trajectory is ACTIVE from its first point until no point arrived for longer than the inactivity
// threshold; it is then EVICTED and its state is deleted. EVICTED is terminal: a later point with the
// same id starts a fresh ACTIVE state with zeroed statistics.
package trajectory

import (
	"sort"
	"time"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// Status is the lifecycle status of a trajectory.
type Status int

const (
	Active Status = iota
	Evicted
)

func (s Status) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Evicted:
		return "EVICTED"
	default:
		return "UNKNOWN"
	}
}

// State is the running state of one trajectory.
type State struct {
	TrajectoryID       string
	LastPoint          *spatial.Point
	FirstTimestamp     time.Time
	CumulativeDistance float64
	CumulativeDuration time.Duration
	PointCount         int
	LastActive         time.Time
	Status             Status
}

// NewState returns an ACTIVE state holding the first point of a trajectory.
func NewState(p *spatial.Point) *State {
	return &State{
		TrajectoryID:   p.TrajectoryID,
		LastPoint:      p,
		FirstTimestamp: p.Timestamp,
		PointCount:     1,
		LastActive:     p.Timestamp,
		Status:         Active,
	}
}

// Advance folds the next point of the trajectory in. Points older than the last one add their distance
// but no duration.
func (s *State) Advance(p *spatial.Point, m grid.Metric) {
	if s.LastPoint != nil {
		s.CumulativeDistance += m.Distance(s.LastPoint.X, s.LastPoint.Y, p.X, p.Y)
		if d := p.Timestamp.Sub(s.LastPoint.Timestamp); d > 0 {
			s.CumulativeDuration += d
		}
	}
	if p.Timestamp.Before(s.FirstTimestamp) {
		s.FirstTimestamp = p.Timestamp
	}
	if p.Timestamp.After(s.LastActive) {
		s.LastActive = p.Timestamp
	}
	s.LastPoint = p
	s.PointCount++
}

// AvgSpeed returns the distance per second, zero for a trajectory without duration.
func (s *State) AvgSpeed() float64 {
	if s.CumulativeDuration <= 0 {
		return 0
	}
	return s.CumulativeDistance / s.CumulativeDuration.Seconds()
}

// Dwell returns the time between the first and the last observation.
func (s *State) Dwell() time.Duration {
	return s.LastActive.Sub(s.FirstTimestamp)
}

// Inactive reports whether the trajectory saw no point for longer than threshold at now.
func (s *State) Inactive(now time.Time, threshold time.Duration) bool {
	return threshold > 0 && now.Sub(s.LastActive) > threshold
}

// Store holds the ACTIVE trajectories of one partition. It is not safe for concurrent use.
type Store struct {
	metric    grid.Metric
	threshold time.Duration
	states    map[string]*State
}

// NewStore returns a Store evicting trajectories idle for longer than threshold. A zero threshold
// disables eviction, which is only valid for state bounded by a window.
func NewStore(m grid.Metric, threshold time.Duration) *Store {
	return &Store{
		metric:    m,
		threshold: threshold,
		states:    map[string]*State{},
	}
}

// Observe folds the point into its trajectory's state, creating it if needed. A state that has been
// inactive for longer than the threshold at now is evicted first and returned as evicted; the point
// then starts a fresh state.
func (s *Store) Observe(p *spatial.Point, now time.Time) (current *State, evicted *State) {
	st, ok := s.states[p.TrajectoryID]
	if ok && st.Inactive(now, s.threshold) {
		st.Status = Evicted
		evicted = st
		ok = false
	}
	if !ok {
		st = NewState(p)
		s.states[p.TrajectoryID] = st
		return st, evicted
	}
	st.Advance(p, s.metric)
	return st, nil
}

// Sweep evicts every trajectory inactive for longer than the threshold at now and returns them
// ordered by id.
func (s *Store) Sweep(now time.Time) []*State {
	var evicted []*State
	for id, st := range s.states {
		if st.Inactive(now, s.threshold) {
			st.Status = Evicted
			evicted = append(evicted, st)
			delete(s.states, id)
		}
	}
	sort.Slice(evicted, func(i, j int) bool { return evicted[i].TrajectoryID < evicted[j].TrajectoryID })
	return evicted
}

// Get returns the ACTIVE state of a trajectory.
func (s *Store) Get(id string) (*State, bool) {
	st, ok := s.states[id]
	return st, ok
}

// States returns the ACTIVE states ordered by id.
func (s *Store) States() []*State {
	out := make([]*State, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrajectoryID < out[j].TrajectoryID })
	return out
}

// Len returns the number of ACTIVE trajectories.
func (s *Store) Len() int {
	return len(s.states)
}
