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

type SinkType string

const (
	SinkTypeLog       SinkType = "log"
	SinkTypeJSONL     SinkType = "jsonl"
	SinkTypeKafka     SinkType = "kafka"
	SinkTypeBlackhole SinkType = "blackhole"
)

// SinkSpec selects and configures the result sink.
type SinkSpec struct {
	// +optional
	Type SinkType `json:"type,omitempty"`
	// +optional
	JSONL *JSONLSink `json:"jsonl,omitempty"`
	// +optional
	Kafka *KafkaSink `json:"kafka,omitempty"`
	// Retries is the number of write attempts before a batch fails the pipeline.
	// +optional
	Retries int `json:"retries,omitempty"`
}

// JSONLSink writes one JSON result per line. An empty Path writes stdout.
type JSONLSink struct {
	// +optional
	Path string `json:"path,omitempty"`
}

// KafkaSink produces results to a topic, keyed by query type.
type KafkaSink struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	// Config is a YAML sarama configuration.
	// +optional
	Config string `json:"config,omitempty"`
	// +optional
	SASL *SASL `json:"sasl,omitempty"`
}
