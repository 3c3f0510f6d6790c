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

// Package sliding implements Sliding windows. Sliding windows are defined by a static window size
// and a fixed "slide", the duration by which the boundaries of successive windows move.
package sliding

import (
	"time"

	"github.com/numaproj/geoflow/pkg/window"
)

// Sliding implements sliding windows
type Sliding struct {
	// Length is the duration of the window
	Length time.Duration
	// offset between successive windows.
	// successive windows are phased out by this duration.
	Slide time.Duration
}

var _ window.Windower = (*Sliding)(nil)

// NewSliding returns a Sliding windower
func NewSliding(length time.Duration, slide time.Duration) *Sliding {
	return &Sliding{
		Length: length,
		Slide:  slide,
	}
}

func (s *Sliding) Strategy() window.Strategy {
	return window.Sliding
}

// AssignWindows returns the set of windows that contain the element based on event time, earliest first.
func (s *Sliding) AssignWindows(eventTime time.Time) []window.Window {
	// use the highest integer multiple of slide length which is less than or equal to the eventTime
	// as the start time of the latest window, so every worker assigns the same windows.
	startTime := window.AlignStart(eventTime, s.Slide)
	endTime := startTime.Add(s.Length)

	// since there is overlap at the boundaries we attribute the element to the window to the
	// right (higher) of the boundary: left inclusive and right exclusive.
	var windows []window.Window
	for !startTime.After(eventTime) && endTime.After(eventTime) {
		windows = append([]window.Window{window.NewWindow(startTime, endTime)}, windows...)
		startTime = startTime.Add(-s.Slide)
		endTime = endTime.Add(-s.Slide)
	}
	return windows
}
