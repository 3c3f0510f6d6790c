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

package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spaolacci/murmur3"
	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/isb"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
	"github.com/numaproj/geoflow/pkg/window"
)

// router is the only reader of the source. It turns records into objects, hashes their partition keys
// to workers and interleaves watermark barriers with the data, so every worker sees a barrier after
// all the objects the barrier covers.
type router struct {
	pipeline     string
	source       string
	builder      *spatial.Builder
	engine       *query.Engine
	tracker      *watermark.Tracker
	aligner      *watermark.Aligner
	outs         []chan *isb.Message
	countWindows bool
	flushOnEnd   bool
	counters     *metrics.Counters
	log          *zap.SugaredLogger

	seq     int64
	barrier int64
}

// partitionOf returns the worker owning a key.
func partitionOf(k state.Key, partitions int) int {
	return int(murmur3.Sum32([]byte(k.String())) % uint32(partitions))
}

// run routes records until the input closes. Worker inputs are closed on return.
func (r *router) run(ctx context.Context, records <-chan spatial.Record) error {
	defer func() {
		for _, out := range r.outs {
			close(out)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-records:
			if !ok {
				return r.finish(ctx)
			}
			if err := r.route(ctx, rec); err != nil {
				return err
			}
		}
	}
}

func (r *router) route(ctx context.Context, rec spatial.Record) error {
	r.counters.Read.Inc()
	metrics.RecordsRead.WithLabelValues(r.pipeline, r.source).Inc()

	o, err := r.builder.Build(rec)
	if err != nil {
		reason := metrics.ReasonDegenerate
		if errors.Is(err, grid.ErrOutOfBounds) {
			reason = metrics.ReasonOutOfBounds
		}
		r.reject(reason, err)
		return nil
	}
	if !r.countWindows && !wmb.Watermark(o.EventTime()).InNanoRange() {
		r.reject(metrics.ReasonEventTime, fmt.Errorf("event time %s outside the window clock range", o.EventTime()))
		return nil
	}

	keys := r.engine.PartitionKeys(o)
	if len(keys) == 0 {
		r.counters.Ignored.Inc()
		metrics.RecordsRejected.WithLabelValues(r.pipeline, metrics.ReasonIgnored).Inc()
		// Ignored objects advance the event-time watermark but not the count clock.
		if r.countWindows {
			return nil
		}
	} else {
		r.seq++
	}
	clock := o.EventTime()
	if r.countWindows {
		clock = window.SequenceTime(r.seq)
	}
	r.tracker.Observe(clock)

	if len(keys) > 0 {
		if err := r.send(ctx, o, clock, keys); err != nil {
			return err
		}
	}

	if wm := r.tracker.Watermark(); r.aligner.Cross(wm) {
		return r.broadcast(ctx, wmb.WMB{Watermark: wm})
	}
	return nil
}

func (r *router) reject(reason string, err error) {
	r.counters.Rejected.Inc()
	metrics.RecordsRejected.WithLabelValues(r.pipeline, reason).Inc()
	r.log.Debugw("Rejecting record", zap.String("reason", reason), zap.Error(err))
}

// send groups the keys by worker; each worker gets the object once. The lowest worker carries the
// primary copy, which alone counts the object as late.
func (r *router) send(ctx context.Context, o spatial.Object, clock time.Time, keys []state.Key) error {
	byWorker := map[int][]state.Key{}
	for _, k := range keys {
		p := partitionOf(k, len(r.outs))
		byWorker[p] = append(byWorker[p], k)
	}
	workers := make([]int, 0, len(byWorker))
	for p := range byWorker {
		workers = append(workers, p)
	}
	sort.Ints(workers)
	for i, p := range workers {
		m := isb.NewDataMessage(r.seq, clock, o, byWorker[p], i == 0)
		if err := r.emit(ctx, p, m); err != nil {
			return err
		}
	}
	return nil
}

// broadcast sends a barrier to every worker.
func (r *router) broadcast(ctx context.Context, b wmb.WMB) error {
	r.barrier++
	b.Seq = r.barrier
	m := isb.NewWMBMessage(b)
	for p := range r.outs {
		if err := r.emit(ctx, p, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *router) emit(ctx context.Context, partition int, m *isb.Message) error {
	select {
	case r.outs[partition] <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish flushes the open windows when the pipeline is configured to.
func (r *router) finish(ctx context.Context) error {
	r.log.Infow("Source exhausted", zap.Int64("records", r.seq), zap.Int64("barriers", r.barrier))
	if !r.flushOnEnd {
		return nil
	}
	return r.broadcast(ctx, wmb.WMB{Watermark: wmb.Infinite, Final: true})
}
