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
	"fmt"
	"time"
)

// Windowed is anything bounded by a window interval.
type Windowed interface {
	// StartTime returns the inclusive start of the window.
	StartTime() time.Time
	// EndTime returns the exclusive end of the window.
	EndTime() time.Time
}

// Window is the interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var _ Windowed = Window{}

// NewWindow returns the window [start, end).
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

func (w Window) StartTime() time.Time {
	return w.Start
}

func (w Window) EndTime() time.Time {
	return w.End
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Equal reports whether both windows cover the same interval.
func (w Window) Equal(o Window) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start.UnixMilli(), w.End.UnixMilli())
}

// Windower assigns event times to windows.
type Windower interface {
	// Strategy returns the window strategy.
	Strategy() Strategy
	// AssignWindows returns the windows containing the event time, ordered by start time.
	AssignWindows(eventTime time.Time) []Window
}

// Strategy represents the windowing strategy.
type Strategy int

const (
	Fixed Strategy = iota
	Sliding
)

func (s Strategy) String() string {
	switch s {
	case Fixed:
		return "Fixed"
	case Sliding:
		return "Sliding"
	default:
		return "Unknown"
	}
}

// SequenceTime maps an ingestion sequence number onto the time axis used by count windows.
func SequenceTime(seq int64) time.Time {
	return time.Unix(0, seq)
}

// AlignStart returns the start of the latest window boundary at or before t for the given step,
// i.e. floor(t / step) * step on the unix nanosecond axis.
func AlignStart(t time.Time, step time.Duration) time.Time {
	ns := t.UnixNano()
	s := int64(step)
	q := ns / s
	if ns%s != 0 && ns < 0 {
		q--
	}
	return time.Unix(0, q*s)
}
