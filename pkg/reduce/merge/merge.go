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

// Package merge implements the merge barrier. Partition workers report the windows a watermark barrier
// closed on their partition; once every partition reported a barrier the partials of each closed
// window are merged into a single snapshot. The merger is the only component reading the output of
// more than one partition.
package merge

import (
	"fmt"
	"sort"

	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
	"github.com/numaproj/geoflow/pkg/window"
)

// Report is what a partition worker sends after processing a watermark barrier.
type Report struct {
	Partition int
	Seq       int64
	Watermark wmb.Watermark
	Partials  []state.Partial
}

// Barrier is a completed watermark barrier.
type Barrier struct {
	Seq       int64
	Watermark wmb.Watermark
	// Snapshots are the windows closed by the barrier, oldest first.
	Snapshots []*state.Snapshot
}

type pending struct {
	watermark wmb.Watermark
	reported  map[int]bool
	partials  []state.Partial
}

// Merger collects reports of all partitions. It is used by a single goroutine.
type Merger struct {
	partitions int
	next       int64
	pending    map[int64]*pending
}

// NewMerger returns a Merger for the number of partitions. Barrier sequence numbers start at 1.
func NewMerger(partitions int) *Merger {
	return &Merger{
		partitions: partitions,
		next:       1,
		pending:    map[int64]*pending{},
	}
}

// Add records a report and returns the barriers it completes, in sequence order.
func (m *Merger) Add(r Report) ([]Barrier, error) {
	if r.Partition < 0 || r.Partition >= m.partitions {
		return nil, fmt.Errorf("report from unknown partition %d", r.Partition)
	}
	if r.Seq < m.next {
		return nil, fmt.Errorf("report for completed barrier %d from partition %d", r.Seq, r.Partition)
	}
	p, ok := m.pending[r.Seq]
	if !ok {
		p = &pending{watermark: r.Watermark, reported: map[int]bool{}}
		m.pending[r.Seq] = p
	}
	if p.reported[r.Partition] {
		return nil, fmt.Errorf("duplicate report for barrier %d from partition %d", r.Seq, r.Partition)
	}
	p.reported[r.Partition] = true
	p.partials = append(p.partials, r.Partials...)

	var done []Barrier
	for {
		p, ok := m.pending[m.next]
		if !ok || len(p.reported) < m.partitions {
			return done, nil
		}
		done = append(done, Barrier{Seq: m.next, Watermark: p.watermark, Snapshots: Merge(p.partials)})
		delete(m.pending, m.next)
		m.next++
	}
}

// Pending returns the number of barriers waiting for reports.
func (m *Merger) Pending() int {
	return len(m.pending)
}

// Merge combines partials of the same window into snapshots ordered by window start.
func Merge(partials []state.Partial) []*state.Snapshot {
	byWindow := map[string]*state.Snapshot{}
	for _, p := range partials {
		id := p.Window.String()
		s, ok := byWindow[id]
		if !ok {
			s = &state.Snapshot{Window: p.Window, Objects: map[state.Key][]spatial.Object{}}
			byWindow[id] = s
		}
		for k, objs := range p.Objects {
			s.Objects[k] = append(s.Objects[k], objs...)
		}
	}
	out := make([]*state.Snapshot, 0, len(byWindow))
	for _, s := range byWindow {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Window, out[j].Window)
	})
	return out
}

func less(a, b window.Window) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return a.End.Before(b.End)
}
