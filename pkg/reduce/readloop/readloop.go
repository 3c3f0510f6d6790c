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

// Package readloop is the partition worker. A ReadLoop owns the state of every key routed to its
// partition and consumes one channel carrying both data and watermark barriers.
//
// Windowed queries buffer objects in a state.Manager; a barrier closes the windows it passes and the
// closed partials are reported to the merge barrier, even when there are none, so the merger can tell
// when every partition is done with a barrier. Unwindowed queries run an Operator per record and tick
// it on every barrier; their results go straight to the emitter.
package readloop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/isb"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/reduce/merge"
	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/window"
)

// ReadLoop is the worker of one partition.
type ReadLoop struct {
	pipeline  string
	partition int
	manager   *state.Manager
	operator  query.Operator
	reports   chan<- merge.Report
	results   chan<- []query.Result
	counters  *metrics.Counters
	now       time.Time
	log       *zap.SugaredLogger
}

// NewWindowedReadLoop returns a worker buffering objects into windows assigned by windower.
func NewWindowedReadLoop(ctx context.Context, pipeline string, partition int, windower window.Windower, reports chan<- merge.Report, counters *metrics.Counters) *ReadLoop {
	return &ReadLoop{
		pipeline:  pipeline,
		partition: partition,
		manager:   state.NewManager(windower),
		reports:   reports,
		counters:  counters,
		log:       logging.FromContext(ctx).With("partition", partition),
	}
}

// NewOperatorReadLoop returns a worker evaluating op per record.
func NewOperatorReadLoop(ctx context.Context, pipeline string, partition int, op query.Operator, results chan<- []query.Result, counters *metrics.Counters) *ReadLoop {
	return &ReadLoop{
		pipeline:  pipeline,
		partition: partition,
		operator:  op,
		results:   results,
		counters:  counters,
		log:       logging.FromContext(ctx).With("partition", partition),
	}
}

// Run processes messages until in is closed or the context is done.
func (rl *ReadLoop) Run(ctx context.Context, in <-chan *isb.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-in:
			if !ok {
				rl.log.Debug("Input closed, stopping read loop")
				return nil
			}
			if err := rl.Process(ctx, m); err != nil {
				return err
			}
		}
	}
}

// Process is one iteration of the read loop.
func (rl *ReadLoop) Process(ctx context.Context, m *isb.Message) error {
	switch m.Kind {
	case isb.Data:
		if rl.operator != nil {
			return rl.apply(ctx, m)
		}
		rl.buffer(m)
		return nil
	case isb.WMB:
		if rl.operator != nil {
			return rl.emit(ctx, rl.operator.Tick(time.Time(m.Barrier.Watermark)))
		}
		return rl.closeWindows(ctx, m)
	}
	return fmt.Errorf("unknown message kind %s", m.Kind)
}

func (rl *ReadLoop) buffer(m *isb.Message) {
	for _, k := range m.Keys {
		err := rl.manager.Append(k, m.Object, m.EventTime)
		if errors.Is(err, state.ErrLate) {
			// Every key of the object shares its windows, so the others are late as well.
			if m.Primary {
				rl.counters.Late.Inc()
				metrics.LateRecordsDropped.WithLabelValues(rl.pipeline, strconv.Itoa(rl.partition)).Inc()
				rl.log.Debugw("Dropping late object", zap.Error(err))
			}
			return
		}
	}
	metrics.ActiveWindows.WithLabelValues(rl.pipeline, strconv.Itoa(rl.partition)).Set(float64(rl.manager.OpenWindows()))
}

func (rl *ReadLoop) apply(ctx context.Context, m *isb.Message) error {
	if t := m.Object.EventTime(); t.After(rl.now) {
		rl.now = t
	}
	return rl.emit(ctx, rl.operator.Process(m.Object, rl.now))
}

func (rl *ReadLoop) closeWindows(ctx context.Context, m *isb.Message) error {
	partials := rl.manager.Close(m.Barrier.Watermark)
	if len(partials) > 0 {
		rl.log.Debugw("Closing windows", zap.Int("count", len(partials)), zap.String("watermark", m.Barrier.Watermark.String()))
	}
	metrics.ActiveWindows.WithLabelValues(rl.pipeline, strconv.Itoa(rl.partition)).Set(float64(rl.manager.OpenWindows()))
	r := merge.Report{Partition: rl.partition, Seq: m.Barrier.Seq, Watermark: m.Barrier.Watermark, Partials: partials}
	select {
	case rl.reports <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (rl *ReadLoop) emit(ctx context.Context, results []query.Result) error {
	if len(results) == 0 {
		return nil
	}
	select {
	case rl.results <- results:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
