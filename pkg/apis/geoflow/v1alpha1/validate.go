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

package v1alpha1

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/numaproj/geoflow/pkg/grid"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid pipeline config")

var queryTypes = map[string]bool{
	"range": true, "knn": true, "join": true,
	"tfilter": true, "trange": true, "tstats": true, "taggregate": true,
	"tjoin": true, "tknn": true,
}

// Validate checks a defaulted pipeline. All problems are reported at once. Query parameters that
// need the grid to check, such as query geometry, are validated when the query is built.
func (p *Pipeline) Validate() error {
	var err error
	if p.Workers <= 0 {
		err = multierr.Append(err, fmt.Errorf("workers must be positive, got %d", p.Workers))
	}
	err = multierr.Combine(err,
		p.Grid.validate(),
		p.Window.validate(),
		p.Query.validate(),
		p.Source.validate(),
		p.Sink.validate(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g GridSpec) validate() error {
	var err error
	if g.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("grid.resolution must be positive, got %d", g.Resolution))
	}
	if !finite(g.MinX, g.MaxX, g.MinY, g.MaxY) || g.MaxX <= g.MinX || g.MaxY <= g.MinY {
		err = multierr.Append(err, fmt.Errorf("grid bounds (%v,%v)-(%v,%v) are empty", g.MinX, g.MinY, g.MaxX, g.MaxY))
	}
	switch g.OutOfBounds {
	case grid.Reject, grid.Clip:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown grid.outOfBounds %q", g.OutOfBounds))
	}
	switch g.Metric {
	case grid.MetricEuclidean, grid.MetricHaversine:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown grid.metric %q", g.Metric))
	}
	return err
}

func (w WindowSpec) validate() error {
	var err error
	switch w.Type {
	case WindowTypeTime:
		if w.Length <= 0 {
			err = multierr.Append(err, fmt.Errorf("window.length must be positive, got %s", w.Length))
		}
		if w.Slide <= 0 || w.Slide > w.Length {
			err = multierr.Append(err, fmt.Errorf("window.slide %s must be positive and at most window.length %s", w.Slide, w.Length))
		}
	case WindowTypeCount:
		if w.Count <= 0 {
			err = multierr.Append(err, fmt.Errorf("window.count must be positive, got %d", w.Count))
		}
		if w.CountSlide <= 0 || w.CountSlide > w.Count {
			err = multierr.Append(err, fmt.Errorf("window.countSlide %d must be positive and at most window.count %d", w.CountSlide, w.Count))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown window.type %q", w.Type))
	}
	if w.AllowedLateness < 0 {
		err = multierr.Append(err, fmt.Errorf("window.allowedLateness must not be negative, got %s", w.AllowedLateness))
	}
	return err
}

func (q QuerySpec) validate() error {
	if !queryTypes[q.Type] {
		return fmt.Errorf("unknown query.type %q", q.Type)
	}
	var err error
	switch q.Type {
	case "range", "join", "tjoin":
		if !(q.Radius > 0) {
			err = multierr.Append(err, fmt.Errorf("query.radius must be positive, got %v", q.Radius))
		}
	case "knn", "tknn":
		if q.K <= 0 {
			err = multierr.Append(err, fmt.Errorf("query.k must be positive, got %d", q.K))
		}
		if q.KNNMode == "grid" && !(q.Radius > 0) {
			err = multierr.Append(err, fmt.Errorf("query.radius must be positive for grid knn, got %v", q.Radius))
		}
	}
	if q.Realtime && !q.Unwindowed() {
		err = multierr.Append(err, fmt.Errorf("query type %q cannot run in realtime", q.Type))
	}
	if q.Unwindowed() && (q.Type == "tstats" || q.Type == "taggregate") && q.InactivityThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("realtime %s needs a positive query.inactivityThreshold", q.Type))
	}
	if q.InactivityThreshold < 0 {
		err = multierr.Append(err, fmt.Errorf("query.inactivityThreshold must not be negative, got %s", q.InactivityThreshold))
	}
	if q.SweepInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("query.sweepInterval must be positive, got %s", q.SweepInterval))
	}
	return err
}

func (s SourceSpec) validate() error {
	switch s.Type {
	case SourceTypeGenerator:
		if s.Generator == nil || s.Generator.Records < 0 || s.Generator.Trajectories <= 0 || s.Generator.Step <= 0 {
			return errors.New("source.generator needs non-negative records, positive trajectories and a positive step")
		}
	case SourceTypeJSONL:
		if s.JSONL == nil {
			return errors.New("source.jsonl is missing")
		}
	case SourceTypeKafka:
		if s.Kafka == nil || len(s.Kafka.Brokers) == 0 || s.Kafka.Topic == "" {
			return errors.New("source.kafka needs brokers and a topic")
		}
		if err := s.Kafka.SASL.validate(); err != nil {
			return fmt.Errorf("source.kafka: %w", err)
		}
	default:
		return fmt.Errorf("unknown source.type %q", s.Type)
	}
	return nil
}

func (s SinkSpec) validate() error {
	var err error
	switch s.Type {
	case SinkTypeLog, SinkTypeBlackhole:
	case SinkTypeJSONL:
		if s.JSONL == nil {
			err = multierr.Append(err, errors.New("sink.jsonl is missing"))
		}
	case SinkTypeKafka:
		if s.Kafka == nil || len(s.Kafka.Brokers) == 0 || s.Kafka.Topic == "" {
			err = multierr.Append(err, errors.New("sink.kafka needs brokers and a topic"))
		} else if saslErr := s.Kafka.SASL.validate(); saslErr != nil {
			err = multierr.Append(err, fmt.Errorf("sink.kafka: %w", saslErr))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown sink.type %q", s.Type))
	}
	if s.Retries <= 0 {
		err = multierr.Append(err, fmt.Errorf("sink.retries must be positive, got %d", s.Retries))
	}
	return err
}
