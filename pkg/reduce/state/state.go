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

// Package state is the window state manager of a partition worker. It buffers objects per window and
// per partition key, and hands closed windows over as immutable partials once the watermark passes
// their end.
//
// A Manager is owned by exactly one partition worker. Keys are routed to a single worker, so no key is
// ever written by two goroutines and the Manager needs no locks.
package state

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
	"github.com/numaproj/geoflow/pkg/window"
)

// ErrLate is returned for records whose windows have all been closed.
var ErrLate = errors.New("late record")

// Key is a partition key: a grid cell for spatial queries, a trajectory id for temporal queries.
// Stream separates the two inputs of joins.
type Key struct {
	Stream     spatial.Stream `json:"stream,omitempty"`
	Cell       grid.CellID    `json:"cell"`
	Trajectory string         `json:"trajectory,omitempty"`
}

func (k Key) String() string {
	if k.Trajectory != "" {
		return fmt.Sprintf("%s:t:%s", k.Stream, k.Trajectory)
	}
	return fmt.Sprintf("%s:c:%d", k.Stream, k.Cell)
}

// Partial is the content of one closed window on one partition worker.
type Partial struct {
	Window  window.Window
	Objects map[Key][]spatial.Object
}

// Snapshot is the read-only view of a closed window across all partitions.
type Snapshot struct {
	Window  window.Window
	Objects map[Key][]spatial.Object
}

// Keys returns the snapshot keys in a deterministic order.
func (s *Snapshot) Keys() []Key {
	keys := make([]Key, 0, len(s.Objects))
	for k := range s.Objects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Stream != b.Stream {
			return a.Stream < b.Stream
		}
		if a.Cell != b.Cell {
			return a.Cell < b.Cell
		}
		return a.Trajectory < b.Trajectory
	})
	return keys
}

// Cell returns the objects of a stream stored under a cell.
func (s *Snapshot) Cell(stream spatial.Stream, cell grid.CellID) []spatial.Object {
	return s.Objects[Key{Stream: stream, Cell: cell}]
}

// keyedWindow is an open window with its buffered objects.
type keyedWindow struct {
	window.Window
	objects map[Key][]spatial.Object
}

// Manager buffers objects of open windows.
type Manager struct {
	windower  window.Windower
	windows   *window.SortedWindowList[*keyedWindow]
	watermark wmb.Watermark
}

// NewManager returns a Manager assigning windows with the windower.
func NewManager(windower window.Windower) *Manager {
	return &Manager{
		windower:  windower,
		windows:   window.NewSortedWindowList[*keyedWindow](),
		watermark: wmb.InitialWatermark,
	}
}

// Append buffers the object under key in every open window covering t. Windows already closed by the
// watermark are skipped; if every window covering t is closed the object is late and ErrLate is returned.
func (m *Manager) Append(key Key, obj spatial.Object, t time.Time) error {
	accepted := false
	for _, w := range m.windower.AssignWindows(t) {
		if m.watermark.Closes(w.End) {
			continue
		}
		kw, _ := m.windows.InsertIfNotPresent(&keyedWindow{Window: w, objects: map[Key][]spatial.Object{}})
		kw.objects[key] = append(kw.objects[key], obj)
		accepted = true
	}
	if !accepted {
		return fmt.Errorf("%w: object %q at %s, watermark %s", ErrLate, obj.ObjectID(), t, m.watermark)
	}
	return nil
}

// Close advances the watermark and returns the windows it closes, oldest first. Their memory is
// released by the Manager; the partials are owned by the caller. A watermark older than the current one
// closes nothing.
func (m *Manager) Close(wm wmb.Watermark) []Partial {
	if !wm.AfterWatermark(m.watermark) {
		return nil
	}
	m.watermark = wm
	closed := m.windows.RemoveWindows(time.Time(wm))
	partials := make([]Partial, 0, len(closed))
	for _, kw := range closed {
		partials = append(partials, Partial{Window: kw.Window, Objects: kw.objects})
	}
	return partials
}

// Watermark returns the watermark of the last Close.
func (m *Manager) Watermark() wmb.Watermark {
	return m.watermark
}

// OpenWindows returns the number of open windows.
func (m *Manager) OpenWindows() int {
	return m.windows.Len()
}
