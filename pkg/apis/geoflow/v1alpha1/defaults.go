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

import "github.com/numaproj/geoflow/pkg/grid"

// SetDefaults fills in every optional field left empty.
func (p *Pipeline) SetDefaults() {
	if p.Name == "" {
		p.Name = DefaultPipelineName
	}
	if p.Workers == 0 {
		p.Workers = DefaultWorkers
	}
	if p.Grid.Resolution == 0 {
		p.Grid.Resolution = DefaultResolution
	}
	if p.Grid.OutOfBounds == "" {
		p.Grid.OutOfBounds = grid.Reject
	}
	if p.Grid.Metric == "" {
		p.Grid.Metric = grid.MetricEuclidean
	}
	p.Window.setDefaults()
	p.Query.setDefaults()
	p.Source.setDefaults()
	if p.Sink.Type == "" {
		p.Sink.Type = SinkTypeLog
	}
	if p.Sink.Retries == 0 {
		p.Sink.Retries = DefaultSinkRetries
	}
	if p.Metrics.Addr == "" {
		p.Metrics.Addr = DefaultMetricsAddr
	}
}

func (w *WindowSpec) setDefaults() {
	if w.Type == "" {
		w.Type = WindowTypeTime
	}
	switch w.Type {
	case WindowTypeTime:
		if w.Length == 0 {
			w.Length = DefaultWindowLength
		}
		if w.Slide == 0 {
			w.Slide = w.Length
		}
	case WindowTypeCount:
		if w.Count == 0 {
			w.Count = DefaultWindowCount
		}
		if w.CountSlide == 0 {
			w.CountSlide = w.Count
		}
	}
}

func (q *QuerySpec) setDefaults() {
	switch q.Type {
	case "knn":
		if q.KNNMode == "" {
			q.KNNMode = "iterative"
		}
	case "join":
		if q.JoinMode == "" {
			q.JoinMode = "neighbor"
		}
	case "taggregate":
		if q.Value == "" {
			q.Value = "COUNT"
		}
	}
	if q.SweepInterval == 0 {
		if q.InactivityThreshold > 0 {
			q.SweepInterval = q.InactivityThreshold
		} else {
			q.SweepInterval = DefaultSweepInterval
		}
	}
}

func (s *SourceSpec) setDefaults() {
	if s.Type == "" {
		s.Type = SourceTypeGenerator
	}
	if s.Type != SourceTypeGenerator {
		return
	}
	if s.Generator == nil {
		s.Generator = &GeneratorSource{}
	}
	g := s.Generator
	if g.Records == 0 {
		g.Records = DefaultGeneratorRecords
	}
	if g.Trajectories == 0 {
		g.Trajectories = DefaultGeneratorTrajectories
	}
	if g.Step == 0 {
		g.Step = DefaultGeneratorStep
	}
}
