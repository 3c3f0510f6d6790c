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

// Package metrics holds the prometheus metrics of a geoflow pipeline and the HTTP server exposing them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion   = "version"
	LabelPlatform  = "platform"
	LabelPipeline  = "pipeline"
	LabelQuery     = "query"
	LabelSource    = "source"
	LabelSink      = "sink"
	LabelPartition = "partition"
	LabelReason    = "reason"
)

// Rejection reasons.
const (
	ReasonDegenerate  = "degenerate"
	ReasonOutOfBounds = "out_of_bounds"
	ReasonIgnored     = "ignored"
	ReasonDecode      = "decode"
	ReasonEventTime   = "event_time"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "geoflow_build_info",
		Help: "A metric with a constant value '1', labeled by geoflow binary version and platform",
	}, []string{LabelVersion, LabelPlatform})
)

var (
	// RecordsRead is the number of records read from the source.
	RecordsRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "records_read_total",
		Help:      "Total number of records read",
	}, []string{LabelPipeline, LabelSource})

	// RecordsRejected is the number of records that could not be turned into objects.
	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "records_rejected_total",
		Help:      "Total number of records rejected",
	}, []string{LabelPipeline, LabelReason})

	// LateRecordsDropped is the number of records dropped because all their windows were closed.
	LateRecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "late_records_dropped_total",
		Help:      "Total number of late records dropped",
	}, []string{LabelPipeline, LabelPartition})

	// WindowsClosed is the number of windows evaluated.
	WindowsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "windows_closed_total",
		Help:      "Total number of windows closed and evaluated",
	}, []string{LabelPipeline, LabelQuery})

	// ActiveWindows is the number of open windows per partition.
	ActiveWindows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: "geoflow",
		Name:      "active_windows",
		Help:      "Number of open windows",
	}, []string{LabelPipeline, LabelPartition})

	// ResultsEmitted is the number of results written to the sink.
	ResultsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "results_emitted_total",
		Help:      "Total number of results written to the sink",
	}, []string{LabelPipeline, LabelQuery, LabelSink})

	// SinkWriteErrors is the number of failed sink write attempts.
	SinkWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "sink_write_error_total",
		Help:      "Total number of sink write errors",
	}, []string{LabelPipeline, LabelSink})

	// TrajectoriesEvicted is the number of trajectories evicted for inactivity.
	TrajectoriesEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "geoflow",
		Name:      "trajectories_evicted_total",
		Help:      "Total number of trajectories evicted for inactivity",
	}, []string{LabelQuery})
)
