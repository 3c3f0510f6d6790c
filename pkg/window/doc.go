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

// Package window implements windowing constructs. A window is a half-open event-time interval
// [Start, End); records are buffered per window and the window is evaluated once the watermark
// passes its end.
//
// Windows are aligned: every window applies across all the data for its period of time. Fixed
// (tumbling) windows are disjoint, Sliding windows overlap by Length - Slide.
//
// Count-based windows reuse the same machinery: every record is stamped with a global ingestion
// sequence number and SequenceTime maps that number onto the time axis, so a window of n records is a
// window of n nanoseconds.
package window
