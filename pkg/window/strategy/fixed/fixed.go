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

// Package fixed implements Fixed windows. Fixed windows (sometimes called tumbling windows) are
// defined by a static window size, e.g. minutely windows or windows of 100 records. They are aligned,
// i.e. every window applies across all the data for the corresponding period.
package fixed

import (
	"time"

	"github.com/numaproj/geoflow/pkg/window"
)

// Fixed implements Fixed window.
type Fixed struct {
	// Length is the temporal length of the window.
	Length time.Duration
}

var _ window.Windower = (*Fixed)(nil)

// NewFixed returns a Fixed windower.
func NewFixed(length time.Duration) *Fixed {
	return &Fixed{
		Length: length,
	}
}

func (f *Fixed) Strategy() window.Strategy {
	return window.Fixed
}

// AssignWindows returns the single window containing the event time.
func (f *Fixed) AssignWindows(eventTime time.Time) []window.Window {
	start := window.AlignStart(eventTime, f.Length)
	return []window.Window{window.NewWindow(start, start.Add(f.Length))}
}
