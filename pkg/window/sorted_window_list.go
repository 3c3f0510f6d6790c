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

package window

import (
	"sort"
	"time"
)

// SortedWindowList is a list of windows sorted by start time from lowest to highest. Windows with the
// same interval are stored once.
//
// A SortedWindowList is owned by a single partition worker and is not safe for concurrent use.
type SortedWindowList[W Windowed] struct {
	windows []W
}

// NewSortedWindowList implements a window list ordered by the start time. The Front/Head of the list will always have the smallest
// element while the End/Tail will have the largest element (start time).
func NewSortedWindowList[W Windowed]() *SortedWindowList[W] {
	return &SortedWindowList[W]{
		windows: make([]W, 0),
	}
}

// InsertIfNotPresent inserts a window to the list if no window with the same interval exists. It returns
// the stored window and whether it was already present.
func (s *SortedWindowList[W]) InsertIfNotPresent(window W) (W, bool) {
	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].StartTime().Before(window.StartTime())
	})

	updatedIndex := len(s.windows)
	for i := index; i < len(s.windows); i++ {
		if sameInterval(s.windows[i], window) {
			return s.windows[i], true
		}
		if s.windows[i].StartTime().After(window.StartTime()) {
			updatedIndex = i
			break
		}
	}

	s.windows = append(s.windows, window)
	copy(s.windows[updatedIndex+1:], s.windows[updatedIndex:])
	s.windows[updatedIndex] = window

	return window, false
}

// Delete deletes a window from the list.
func (s *SortedWindowList[W]) Delete(window W) (deleted bool) {
	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].StartTime().Before(window.StartTime())
	})

	for i := index; i < len(s.windows); i++ {
		if sameInterval(s.windows[i], window) {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return true
		}
		if s.windows[i].StartTime().After(window.StartTime()) {
			break
		}
	}
	return false
}

// RemoveWindows removes and returns the windows whose end time is at or before t, ordered by start time.
func (s *SortedWindowList[W]) RemoveWindows(t time.Time) []W {
	var removed, kept []W
	for _, w := range s.windows {
		if w.EndTime().After(t) {
			kept = append(kept, w)
		} else {
			removed = append(removed, w)
		}
	}
	s.windows = kept
	return removed
}

// Len returns the length of the window.
func (s *SortedWindowList[W]) Len() int {
	return len(s.windows)
}

// Front returns the smallest element from the list.
func (s *SortedWindowList[W]) Front() W {
	var front W
	if len(s.windows) == 0 {
		return front
	}
	return s.windows[0]
}

// Back returns the largest element from the list.
func (s *SortedWindowList[W]) Back() W {
	var back W
	if len(s.windows) == 0 {
		return back
	}
	return s.windows[len(s.windows)-1]
}

// Items returns the entire window list.
func (s *SortedWindowList[W]) Items() []W {
	items := make([]W, len(s.windows))
	copy(items, s.windows)
	return items
}

// FindWindowForTime returns the earliest window containing t.
func (s *SortedWindowList[W]) FindWindowForTime(t time.Time) (W, bool) {
	for _, w := range s.windows {
		if w.StartTime().After(t) {
			break
		}
		if w.EndTime().After(t) {
			return w, true
		}
	}
	var empty W
	return empty, false
}

func sameInterval(a, b Windowed) bool {
	return a.StartTime().Equal(b.StartTime()) && a.EndTime().Equal(b.EndTime())
}
