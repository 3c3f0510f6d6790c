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

// Package watermark tracks event-time progress. The Tracker derives a bounded out-of-orderness
// watermark from observed event times and the Aligner decides when a new watermark is worth
// broadcasting to the partition workers.
package watermark

import (
	"time"

	"github.com/numaproj/geoflow/pkg/watermark/wmb"
)

// Tracker computes max(eventTime) - allowedLateness. The watermark never moves backwards.
type Tracker struct {
	lateness time.Duration
	maxEvent time.Time
	seen     bool
}

// NewTracker returns a Tracker with the allowed lateness.
func NewTracker(allowedLateness time.Duration) *Tracker {
	return &Tracker{lateness: allowedLateness}
}

// Observe folds an event time in.
func (t *Tracker) Observe(eventTime time.Time) {
	if !t.seen || eventTime.After(t.maxEvent) {
		t.maxEvent = eventTime
		t.seen = true
	}
}

// MaxEventTime returns the largest event time observed.
func (t *Tracker) MaxEventTime() time.Time {
	return t.maxEvent
}

// Watermark returns the current watermark.
func (t *Tracker) Watermark() wmb.Watermark {
	if !t.seen {
		return wmb.InitialWatermark
	}
	return wmb.Watermark(t.maxEvent.Add(-t.lateness))
}

// Aligner publishes a watermark only when it crosses a boundary Offset + k*Step, the only instants at
// which windows can close.
type Aligner struct {
	step   time.Duration
	offset time.Duration
	last   int64
	seen   bool
}

// NewAligner returns an Aligner with boundaries at offset + k*step.
func NewAligner(step, offset time.Duration) *Aligner {
	return &Aligner{step: step, offset: offset}
}

// Cross reports whether the watermark has crossed a boundary since the last published one.
func (a *Aligner) Cross(wm wmb.Watermark) bool {
	if wm == wmb.InitialWatermark {
		return false
	}
	if !wm.InNanoRange() {
		// boundaries are indexed in nanoseconds; the Infinite watermark and far-off event times
		// always publish
		return true
	}
	idx := floorDiv(wm.UnixNano()-int64(a.offset), int64(a.step))
	if a.seen && idx <= a.last {
		return false
	}
	a.last = idx
	a.seen = true
	return true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
