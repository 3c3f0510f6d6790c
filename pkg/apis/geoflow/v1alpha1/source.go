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

import "time"

type SourceType string

const (
	SourceTypeGenerator SourceType = "generator"
	SourceTypeJSONL     SourceType = "jsonl"
	SourceTypeKafka     SourceType = "kafka"
)

// SourceSpec selects and configures the record source. Exactly the block matching Type is used.
type SourceSpec struct {
	// +optional
	Type SourceType `json:"type,omitempty"`
	// +optional
	Generator *GeneratorSource `json:"generator,omitempty"`
	// +optional
	JSONL *JSONLSource `json:"jsonl,omitempty"`
	// +optional
	Kafka *KafkaSource `json:"kafka,omitempty"`
	// DateFormat is the time.Parse layout of string timestamps in decoded records. When empty any
	// common format is accepted. Numeric timestamps are always epoch milliseconds.
	// +optional
	DateFormat string `json:"dateFormat,omitempty"`
}

// GeneratorSource produces synthetic trajectories inside the grid.
type GeneratorSource struct {
	// Records is the number of records to produce.
	// +optional
	Records int64 `json:"records,omitempty"`
	// Trajectories is the number of trajectory ids records are assigned to round-robin.
	// +optional
	Trajectories int `json:"trajectories,omitempty"`
	// Seed makes the output reproducible.
	// +optional
	Seed int64 `json:"seed,omitempty"`
	// Step is the event time between two consecutive records.
	// +optional
	Step time.Duration `json:"step,omitempty"`
	// QueryEvery sends every n-th record to the query stream. Zero disables the query stream.
	// +optional
	QueryEvery int64 `json:"queryEvery,omitempty"`
	// +optional
	Start time.Time `json:"start,omitempty"`
}

// JSONLSource reads one JSON record per line. An empty Path reads stdin.
type JSONLSource struct {
	// +optional
	Path string `json:"path,omitempty"`
}

// KafkaSource consumes records from a data topic and an optional query topic.
type KafkaSource struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	// +optional
	QueryTopic string `json:"queryTopic,omitempty"`
	// Config is a YAML sarama configuration.
	// +optional
	Config string `json:"config,omitempty"`
	// +optional
	SASL *SASL `json:"sasl,omitempty"`
}
