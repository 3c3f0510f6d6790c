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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/spatial"
)

func point(t *testing.T, e *Engine, id, traj string, x, y float64, ts time.Time) spatial.Object {
	t.Helper()
	return build(t, e.Grid(), spatial.Record{ID: id, X: x, Y: y, TrajectoryID: traj, Timestamp: ts})[0]
}

func TestFilterOperator(t *testing.T) {
	e := testEngine(t, TFilter{TrajectoryIDs: []string{"A"}, Realtime: true}, testGrid(t, 10))
	op := e.NewOperator()
	out := op.Process(point(t, e, "a1", "A", 1, 1, at(0)), at(0))
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0].(FilterMatch).Point.ID)
	assert.Empty(t, op.Process(point(t, e, "b1", "B", 1, 1, at(1)), at(1)))
	assert.Empty(t, op.Tick(at(100)))
}

func TestRangeOperator(t *testing.T) {
	g := testGrid(t, 10)
	zone, err := spatial.NewBuilder(g).NewPolygon("zone", [][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	require.NoError(t, err)
	e := testEngine(t, TRange{Polygons: []*spatial.Polygon{zone}, Realtime: true}, g)
	op := e.NewOperator()
	out := op.Process(point(t, e, "in", "A", 1, 1, at(0)), at(0))
	require.Len(t, out, 1)
	m := out[0].(RangeMatch)
	assert.Nil(t, m.Window)
	assert.Equal(t, "zone", m.PolygonID)
	assert.Empty(t, op.Process(point(t, e, "out", "A", 5, 5, at(1)), at(1)))
}

func TestStatsOperator(t *testing.T) {
	e := testEngine(t, TStats{InactivityThreshold: 10 * time.Second, Realtime: true}, testGrid(t, 10))
	op := e.NewOperator()

	out := op.Process(point(t, e, "a1", "A", 0, 0, at(0)), at(0))
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].(StatsResult).PointCount)

	out = op.Process(point(t, e, "a2", "A", 3, 4, at(5)), at(5))
	require.Len(t, out, 1)
	s := out[0].(StatsResult)
	assert.Equal(t, 2, s.PointCount)
	assert.InDelta(t, 5, s.TotalDistance, 1e-9)
	assert.InDelta(t, 1, s.AvgSpeed, 1e-9)

	// Exactly at the threshold the trajectory is still active.
	assert.Empty(t, op.Tick(at(15)))

	out = op.Tick(at(16))
	require.Len(t, out, 1)
	s = out[0].(StatsResult)
	assert.True(t, s.Final)
	assert.Equal(t, 2, s.PointCount)

	out = op.Process(point(t, e, "a3", "A", 1, 1, at(20)), at(20))
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].(StatsResult).PointCount)

	// A point arriving after the threshold passed closes the old state before starting a new one.
	out = op.Process(point(t, e, "a4", "A", 2, 2, at(31)), at(31))
	require.Len(t, out, 2)
	assert.True(t, out[0].(StatsResult).Final)
	assert.Equal(t, 1, out[0].(StatsResult).PointCount)
	assert.False(t, out[1].(StatsResult).Final)
	assert.Equal(t, 1, out[1].(StatsResult).PointCount)
}

func TestStatsOperator_SelectedTrajectories(t *testing.T) {
	e := testEngine(t, TStats{TrajectoryIDs: []string{"A"}, InactivityThreshold: time.Second, Realtime: true}, testGrid(t, 10))
	op := e.NewOperator()
	assert.Empty(t, op.Process(point(t, e, "b1", "B", 0, 0, at(0)), at(0)))
	assert.Len(t, op.Process(point(t, e, "a1", "A", 0, 0, at(0)), at(0)), 1)
}

func TestAggregateOperator(t *testing.T) {
	e := testEngine(t, TAggregate{Reducer: ReducerSum, Value: ValueCount, InactivityThreshold: 10 * time.Second, Realtime: true}, testGrid(t, 10))
	op := e.NewOperator()

	heat := func(out []Result) HeatmapResult {
		t.Helper()
		require.Len(t, out, 1)
		return out[0].(HeatmapResult)
	}
	assert.Equal(t, 1.0, heat(op.Process(point(t, e, "a1", "A", 0.5, 0.5, at(0)), at(0))).Value)
	assert.Equal(t, 2.0, heat(op.Process(point(t, e, "a2", "A", 0.6, 0.6, at(1)), at(1))).Value)
	h := heat(op.Process(point(t, e, "b1", "B", 0.7, 0.7, at(2)), at(2)))
	assert.Equal(t, 3.0, h.Value)
	assert.Equal(t, map[string]float64{"A": 2, "B": 1}, h.Values)
	assert.Nil(t, h.Window)

	h = heat(op.Tick(at(12)))
	assert.Equal(t, 1.0, h.Value)
	assert.Equal(t, map[string]float64{"B": 1}, h.Values)

	h = heat(op.Tick(at(13)))
	assert.Zero(t, h.Value)
	assert.Empty(t, h.Values)

	assert.Empty(t, op.Tick(at(30)))
}
