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

// Package processor runs a pipeline: a router reading the source, N partition workers, the merge
// barrier and the emitter writing to the sink, each in its own goroutine.
//
//	source -> router -> worker[0..N) -> merger -> emitter -> sink
//
// Unwindowed queries skip the merger; workers send their results straight to the emitter.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/grid"
	"github.com/numaproj/geoflow/pkg/isb"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/reduce/merge"
	"github.com/numaproj/geoflow/pkg/reduce/readloop"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/shared/util"
	"github.com/numaproj/geoflow/pkg/sinks"
	"github.com/numaproj/geoflow/pkg/sources"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark"
	"github.com/numaproj/geoflow/pkg/window"
	"github.com/numaproj/geoflow/pkg/window/strategy/fixed"
	"github.com/numaproj/geoflow/pkg/window/strategy/sliding"
)

// Processor runs one pipeline.
type Processor struct {
	pipeline *v1alpha1.Pipeline
	grid     *grid.Grid
	builder  *spatial.Builder
	engine   *query.Engine
	windower window.Windower
	counters *metrics.Counters
	opts     *Options
	err      *atomic.Error
}

// NewProcessor validates the pipeline and builds its query engine. Defaults are expected to be set.
func NewProcessor(p *v1alpha1.Pipeline, opts ...Option) (*Processor, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(p.Grid.Spec())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", v1alpha1.ErrInvalidConfig, err)
	}
	b := spatial.NewBuilder(g)
	q, err := query.FromSpec(p.Query, b)
	if err != nil {
		return nil, err
	}
	e, err := query.New(q, g, query.WithLayerCacheSize(options.layerCacheSize))
	if err != nil {
		return nil, err
	}
	proc := &Processor{
		pipeline: p,
		grid:     g,
		builder:  b,
		engine:   e,
		counters: &metrics.Counters{},
		opts:     options,
		err:      atomic.NewError(nil),
	}
	if e.Windowed() {
		proc.windower = newWindower(p.Window)
	}
	return proc, nil
}

func newWindower(w v1alpha1.WindowSpec) window.Windower {
	if w.Sliding() {
		return sliding.NewSliding(w.Size(), w.Step())
	}
	return fixed.NewFixed(w.Size())
}

// Counters returns the counts of the run so far.
func (p *Processor) Counters() metrics.Snapshot {
	return p.counters.Snapshot()
}

// Engine returns the query engine.
func (p *Processor) Engine() *query.Engine {
	return p.engine
}

// IsHealthy reports the error the last run failed with.
func (p *Processor) IsHealthy(context.Context) error {
	if err := p.err.Load(); err != nil {
		return fmt.Errorf("pipeline %s failed: %w", p.pipeline.Name, err)
	}
	return nil
}

// Run processes the source until it is exhausted or ctx is done. Cancelling ctx is a clean shutdown.
func (p *Processor) Run(ctx context.Context) (err error) {
	log := logging.FromContext(ctx).With("pipeline", p.pipeline.Name, "query", p.pipeline.Query.Type)
	ctx = logging.WithLogger(ctx, log)

	src := p.opts.source
	if src == nil {
		if src, err = sources.New(ctx, p.pipeline, p.counters); err != nil {
			return fmt.Errorf("failed to create source: %w", err)
		}
	}
	snk := p.opts.sink
	if snk == nil {
		if snk, err = sinks.New(ctx, p.pipeline); err != nil {
			_ = src.Close()
			return fmt.Errorf("failed to create sink: %w", err)
		}
	}
	defer func() {
		if closeErr := multierr.Combine(src.Close(), snk.Close()); closeErr != nil {
			log.Warnw("Failed to close source or sink", zap.Error(closeErr))
		}
	}()

	n := p.pipeline.Workers
	bufferSize := p.opts.bufferSize
	records := make(chan spatial.Record, bufferSize)
	inputs := make([]chan *isb.Message, n)
	for i := range inputs {
		inputs[i] = make(chan *isb.Message, bufferSize)
	}
	results := make(chan []query.Result, bufferSize)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(records)
		return src.Read(gCtx, records)
	})

	r := p.newRouter(src.GetName(), inputs, log)
	g.Go(func() error {
		return r.run(gCtx, records)
	})

	var reports chan merge.Report
	if p.windower != nil {
		reports = make(chan merge.Report, bufferSize)
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		var rl *readloop.ReadLoop
		if p.windower != nil {
			rl = readloop.NewWindowedReadLoop(ctx, p.pipeline.Name, i, p.windower, reports, p.counters)
		} else {
			rl = readloop.NewOperatorReadLoop(ctx, p.pipeline.Name, i, p.engine.NewOperator(), results, p.counters)
		}
		in := inputs[i]
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return rl.Run(gCtx, in)
		})
	}

	if p.windower != nil {
		g.Go(func() error {
			wg.Wait()
			close(reports)
			return nil
		})
		m := &merger{pipeline: p.pipeline.Name, partitions: n, engine: p.engine, counters: p.counters, log: log}
		g.Go(func() error {
			return m.run(gCtx, reports, results)
		})
	} else {
		g.Go(func() error {
			wg.Wait()
			close(results)
			return nil
		})
	}

	e := &emitter{
		pipeline: p.pipeline.Name,
		query:    p.pipeline.Query.Type,
		sink:     snk,
		backoff:  util.RetryBackoff(p.pipeline.Sink.Retries, p.opts.retryInterval),
		counters: p.counters,
		log:      log,
	}
	g.Go(func() error {
		return e.run(gCtx, results)
	})

	log.Infow("Pipeline started", zap.Int("workers", n), zap.Bool("windowed", p.windower != nil), zap.String("source", src.GetName()), zap.String("sink", snk.GetName()))
	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	p.err.Store(err)
	log.Infow("Pipeline stopped", zap.Any("counters", p.counters.Snapshot()), zap.Error(err))
	return err
}

func (p *Processor) newRouter(sourceName string, outs []chan *isb.Message, log *zap.SugaredLogger) *router {
	var (
		lateness     time.Duration
		step, offset time.Duration
	)
	w := p.pipeline.Window
	countWindows := w.Type == v1alpha1.WindowTypeCount
	switch {
	case p.windower == nil:
		step = p.pipeline.Query.SweepInterval
	default:
		step = w.Step()
		if w.Sliding() {
			offset = w.Size() % w.Step()
		}
		if !countWindows {
			lateness = w.AllowedLateness
		}
	}
	return &router{
		pipeline:     p.pipeline.Name,
		source:       sourceName,
		builder:      p.builder,
		engine:       p.engine,
		tracker:      watermark.NewTracker(lateness),
		aligner:      watermark.NewAligner(step, offset),
		outs:         outs,
		countWindows: countWindows && p.windower != nil,
		flushOnEnd:   w.FlushOnEnd,
		counters:     p.counters,
		log:          log,
	}
}
