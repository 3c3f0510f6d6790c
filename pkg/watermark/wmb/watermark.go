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

package wmb

import (
	"math"
	"time"
)

// Watermark is the monotonically increasing event-time watermark. All records with an event time
// before the watermark are expected to have been seen.
type Watermark time.Time

// InitialWatermark is the watermark before any record has been seen.
var InitialWatermark = Watermark(time.Unix(0, math.MinInt64))

// Infinite is the watermark published when the input ends and every open window should close. It is
// the latest representable time.
var Infinite = Watermark(time.Unix(math.MaxInt64-unixToInternal, 999999999).UTC())

// seconds from January 1 of year 1 to the Unix epoch
const unixToInternal int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * 24 * 60 * 60

// IsInfinite reports whether w is the Infinite watermark.
func (w Watermark) IsInfinite() bool {
	return !w.BeforeWatermark(Infinite)
}

// InNanoRange reports whether UnixNano can represent w.
func (w Watermark) InNanoRange() bool {
	t := time.Time(w)
	return !t.Before(time.Unix(0, math.MinInt64)) && !t.After(time.Unix(0, math.MaxInt64))
}

func (w Watermark) String() string {
	var location, _ = time.LoadLocation("UTC")
	var t = time.Time(w).In(location)
	return t.Format(time.RFC3339Nano)
}

func (w Watermark) UnixNano() int64 {
	return time.Time(w).UnixNano()
}

func (w Watermark) After(t time.Time) bool {
	return time.Time(w).After(t)
}

func (w Watermark) AfterWatermark(compare Watermark) bool {
	return w.After(time.Time(compare))
}

func (w Watermark) Before(t time.Time) bool {
	return time.Time(w).Before(t)
}

func (w Watermark) BeforeWatermark(compare Watermark) bool {
	return w.Before(time.Time(compare))
}

// Closes reports whether the watermark closes a window ending at end.
func (w Watermark) Closes(end time.Time) bool {
	return !w.Before(end)
}
