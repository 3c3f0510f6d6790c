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

package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
	"github.com/numaproj/geoflow/pkg/window"
	"github.com/numaproj/geoflow/pkg/window/strategy/fixed"
	"github.com/numaproj/geoflow/pkg/window/strategy/sliding"
)

func point(id string, sec int64) *spatial.Point {
	return &spatial.Point{ID: id, Timestamp: time.Unix(sec, 0)}
}

func TestManager_Fixed(t *testing.T) {
	m := NewManager(fixed.NewFixed(60 * time.Second))
	k1 := Key{Cell: 1}
	k2 := Key{Cell: 2}
	require.NoError(t, m.Append(k1, point("a", 10), time.Unix(10, 0)))
	require.NoError(t, m.Append(k2, point("b", 20), time.Unix(20, 0)))
	require.NoError(t, m.Append(k1, point("c", 70), time.Unix(70, 0)))
	assert.Equal(t, 2, m.OpenWindows())

	assert.Empty(t, m.Close(wmb.Watermark(time.Unix(59, 0))))
	partials := m.Close(wmb.Watermark(time.Unix(60, 0)))
	require.Len(t, partials, 1)
	assert.True(t, partials[0].Window.Equal(window.NewWindow(time.Unix(0, 0), time.Unix(60, 0))))
	assert.Len(t, partials[0].Objects[k1], 1)
	assert.Len(t, partials[0].Objects[k2], 1)
	assert.Equal(t, 1, m.OpenWindows())

	// an older watermark does nothing
	assert.Empty(t, m.Close(wmb.Watermark(time.Unix(30, 0))))
	assert.Equal(t, wmb.Watermark(time.Unix(60, 0)), m.Watermark())
}

func TestManager_Late(t *testing.T) {
	m := NewManager(fixed.NewFixed(60 * time.Second))
	require.NoError(t, m.Append(Key{Cell: 1}, point("a", 70), time.Unix(70, 0)))
	m.Close(wmb.Watermark(time.Unix(65, 0)))

	err := m.Append(Key{Cell: 1}, point("late", 30), time.Unix(30, 0))
	assert.True(t, errors.Is(err, ErrLate))
	// the closed window is never re-opened
	assert.Equal(t, 1, m.OpenWindows())

	partials := m.Close(wmb.Watermark(time.Unix(120, 0)))
	require.Len(t, partials, 1)
	for _, objs := range partials[0].Objects {
		for _, o := range objs {
			assert.NotEqual(t, "late", o.ObjectID())
		}
	}
}

func TestManager_Sliding(t *testing.T) {
	m := NewManager(sliding.NewSliding(60*time.Second, 20*time.Second))
	k := Key{Trajectory: "t1"}
	require.NoError(t, m.Append(k, point("a", 50), time.Unix(50, 0)))
	assert.Equal(t, 3, m.OpenWindows())

	partials := m.Close(wmb.Watermark(time.Unix(60, 0)))
	require.Len(t, partials, 1)
	assert.Equal(t, time.Unix(0, 0), partials[0].Window.Start)

	// the window [0, 60) is closed, the record is still accepted by the open ones
	require.NoError(t, m.Append(k, point("b", 45), time.Unix(45, 0)))
	partials = m.Close(wmb.Infinite)
	require.Len(t, partials, 2)
	assert.Len(t, partials[0].Objects[k], 2)
	assert.Len(t, partials[1].Objects[k], 2)
	assert.True(t, partials[0].Window.Start.Before(partials[1].Window.Start))
}

func TestSnapshot_Keys(t *testing.T) {
	s := &Snapshot{Objects: map[Key][]spatial.Object{
		{Stream: spatial.StreamQuery, Cell: 1}: nil,
		{Stream: spatial.StreamData, Cell: 3}:  nil,
		{Stream: spatial.StreamData, Cell: 2}:  {point("a", 1)},
	}}
	assert.Equal(t, []Key{
		{Stream: spatial.StreamData, Cell: 2},
		{Stream: spatial.StreamData, Cell: 3},
		{Stream: spatial.StreamQuery, Cell: 1},
	}, s.Keys())
	assert.Len(t, s.Cell(spatial.StreamData, 2), 1)
	assert.Equal(t, "data:c:2", Key{Stream: spatial.StreamData, Cell: 2}.String())
}
