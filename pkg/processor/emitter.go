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
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/sinks"
)

// emitter writes result batches to the sink, retrying failed batches with exponential backoff.
type emitter struct {
	pipeline string
	query    string
	sink     sinks.Sink
	backoff  wait.Backoff
	counters *metrics.Counters
	log      *zap.SugaredLogger
}

func (e *emitter) run(ctx context.Context, results <-chan []query.Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-results:
			if !ok {
				return nil
			}
			if err := e.write(ctx, batch); err != nil {
				return err
			}
		}
	}
}

func (e *emitter) write(ctx context.Context, batch []query.Result) error {
	var lastErr error
	err := wait.ExponentialBackoffWithContext(ctx, e.backoff, func(ctx context.Context) (bool, error) {
		if err := e.sink.Write(ctx, batch); err != nil {
			lastErr = err
			metrics.SinkWriteErrors.WithLabelValues(e.pipeline, e.sink.GetName()).Inc()
			e.log.Warnw("Sink write failed, retrying", zap.Int("results", len(batch)), zap.Error(err))
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		if lastErr != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to write %d results to %s: %w", len(batch), e.sink.GetName(), lastErr)
		}
		return err
	}
	e.counters.Emitted.Add(int64(len(batch)))
	metrics.ResultsEmitted.WithLabelValues(e.pipeline, e.query, e.sink.GetName()).Add(float64(len(batch)))
	return nil
}
