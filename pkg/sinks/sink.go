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

package sinks

import (
	"context"
	"fmt"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/sinks/blackhole"
	"github.com/numaproj/geoflow/pkg/sinks/jsonl"
	kafkasink "github.com/numaproj/geoflow/pkg/sinks/kafka"
	logsink "github.com/numaproj/geoflow/pkg/sinks/logger"
)

// New builds the sink a pipeline is configured with.
func New(ctx context.Context, p *v1alpha1.Pipeline) (Sink, error) {
	log := logging.FromContext(ctx)
	switch p.Sink.Type {
	case v1alpha1.SinkTypeLog, "":
		return logsink.NewToLog(logsink.WithLogger(log))
	case v1alpha1.SinkTypeJSONL:
		var path string
		if p.Sink.JSONL != nil {
			path = p.Sink.JSONL.Path
		}
		return jsonl.NewFromPath(path)
	case v1alpha1.SinkTypeKafka:
		return kafkasink.NewToKafka(p.Sink.Kafka, kafkasink.WithLogger(log))
	case v1alpha1.SinkTypeBlackhole:
		return blackhole.NewBlackhole(), nil
	}
	return nil, fmt.Errorf("unrecognized sink type %q", p.Sink.Type)
}
