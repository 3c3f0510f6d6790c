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

package metrics

import "go.uber.org/atomic"

// Counters are the in-process counts of a pipeline run. They mirror the prometheus metrics for the
// parts of the run a caller may want to inspect, such as the summary logged at shutdown.
type Counters struct {
	Read          atomic.Int64
	Rejected      atomic.Int64
	Ignored       atomic.Int64
	Late          atomic.Int64
	WindowsClosed atomic.Int64
	Emitted       atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Read          int64 `json:"read"`
	Rejected      int64 `json:"rejected"`
	Ignored       int64 `json:"ignored"`
	Late          int64 `json:"late"`
	WindowsClosed int64 `json:"windowsClosed"`
	Emitted       int64 `json:"emitted"`
}

// Snapshot returns the current counts.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Read:          c.Read.Load(),
		Rejected:      c.Rejected.Load(),
		Ignored:       c.Ignored.Load(),
		Late:          c.Late.Load(),
		WindowsClosed: c.WindowsClosed.Load(),
		Emitted:       c.Emitted.Load(),
	}
}
