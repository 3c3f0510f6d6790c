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

	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/reduce/merge"
)

// merger completes watermark barriers across partitions and evaluates the windows they close.
type merger struct {
	pipeline   string
	partitions int
	engine     *query.Engine
	counters   *metrics.Counters
	log        *zap.SugaredLogger
}

// run consumes reports until they are closed, then closes results.
func (m *merger) run(ctx context.Context, reports <-chan merge.Report, results chan<- []query.Result) error {
	defer close(results)
	mg := merge.NewMerger(m.partitions)
	qtype := string(m.engine.Query().Type())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-reports:
			if !ok {
				if n := mg.Pending(); n > 0 {
					m.log.Warnw("Incomplete barriers at shutdown", zap.Int("pending", n))
				}
				return nil
			}
			barriers, err := mg.Add(r)
			if err != nil {
				return err
			}
			for _, b := range barriers {
				for _, s := range b.Snapshots {
					out := m.engine.Evaluate(s)
					m.counters.WindowsClosed.Inc()
					metrics.WindowsClosed.WithLabelValues(m.pipeline, qtype).Inc()
					m.log.Debugw("Window evaluated", zap.String("window", s.Window.String()), zap.Int("results", len(out)))
					if len(out) == 0 {
						continue
					}
					select {
					case results <- out:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
		}
	}
}
