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

package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
	"github.com/numaproj/geoflow/pkg/window"
)

func partial(start int64, key state.Key, ids ...string) state.Partial {
	objs := make([]spatial.Object, 0, len(ids))
	for _, id := range ids {
		objs = append(objs, &spatial.Point{ID: id})
	}
	return state.Partial{
		Window:  window.NewWindow(time.Unix(start, 0), time.Unix(start+60, 0)),
		Objects: map[state.Key][]spatial.Object{key: objs},
	}
}

func TestMerger_WaitsForAllPartitions(t *testing.T) {
	m := NewMerger(3)
	wm := wmb.Watermark(time.Unix(120, 0))

	done, err := m.Add(Report{Partition: 0, Seq: 1, Watermark: wm, Partials: []state.Partial{partial(60, state.Key{Cell: 1}, "a")}})
	require.NoError(t, err)
	assert.Empty(t, done)
	done, err = m.Add(Report{Partition: 2, Seq: 1, Watermark: wm, Partials: []state.Partial{
		partial(60, state.Key{Cell: 7}, "b", "c"),
		partial(0, state.Key{Cell: 7}, "d"),
	}})
	require.NoError(t, err)
	assert.Empty(t, done)
	assert.Equal(t, 1, m.Pending())

	done, err = m.Add(Report{Partition: 1, Seq: 1, Watermark: wm})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, int64(1), done[0].Seq)
	assert.Equal(t, wm, done[0].Watermark)
	require.Len(t, done[0].Snapshots, 2)
	assert.Equal(t, time.Unix(0, 0), done[0].Snapshots[0].Window.Start)
	assert.Len(t, done[0].Snapshots[1].Objects, 2)
	assert.Len(t, done[0].Snapshots[1].Objects[state.Key{Cell: 7}], 2)
	assert.Equal(t, 0, m.Pending())
}

func TestMerger_InOrder(t *testing.T) {
	m := NewMerger(2)
	// partition 0 is ahead and reports two barriers
	_, err := m.Add(Report{Partition: 0, Seq: 1})
	require.NoError(t, err)
	_, err = m.Add(Report{Partition: 0, Seq: 2})
	require.NoError(t, err)
	done, err := m.Add(Report{Partition: 1, Seq: 2})
	require.NoError(t, err)
	assert.Empty(t, done)
	done, err = m.Add(Report{Partition: 1, Seq: 1})
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Equal(t, int64(1), done[0].Seq)
	assert.Equal(t, int64(2), done[1].Seq)
}

func TestMerger_Errors(t *testing.T) {
	m := NewMerger(2)
	_, err := m.Add(Report{Partition: 2, Seq: 1})
	assert.Error(t, err)
	_, err = m.Add(Report{Partition: 0, Seq: 1})
	require.NoError(t, err)
	_, err = m.Add(Report{Partition: 0, Seq: 1})
	assert.Error(t, err)
	_, err = m.Add(Report{Partition: 1, Seq: 1})
	require.NoError(t, err)
	_, err = m.Add(Report{Partition: 1, Seq: 1})
	assert.Error(t, err)
}
