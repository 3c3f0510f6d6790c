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

// Package wmb defines the watermark and the watermark barrier that is broadcast in-band to every
// partition worker.
package wmb

// WMB is a watermark barrier. The router sends the same WMB to every partition worker behind the
// data it covers; a worker reports back to the merge barrier once it has processed it.
type WMB struct {
	// Seq is the monotonically increasing barrier sequence number.
	Seq int64
	// Watermark is the watermark carried by the barrier.
	Watermark Watermark
	// Final is set on the last barrier, sent when the input is exhausted.
	Final bool
}
