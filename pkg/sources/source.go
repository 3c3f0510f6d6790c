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

package sources

import (
	"context"
	"fmt"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/sources/generator"
	"github.com/numaproj/geoflow/pkg/sources/jsonl"
	"github.com/numaproj/geoflow/pkg/sources/kafka"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// New builds the source a pipeline is configured with. Records the source cannot decode are counted
// as rejected in counters.
func New(ctx context.Context, p *v1alpha1.Pipeline, counters *metrics.Counters) (Source, error) {
	log := logging.FromContext(ctx).With("sourceType", p.Source.Type)
	decoder := spatial.NewDecoder(p.Source.DateFormat)
	switch p.Source.Type {
	case v1alpha1.SourceTypeGenerator:
		return generator.NewGenerator(*p.Source.Generator, p.Grid), nil
	case v1alpha1.SourceTypeJSONL:
		return jsonl.NewFromPath(p.Source.JSONL.Path,
			jsonl.WithLogger(log), jsonl.WithPipeline(p.Name), jsonl.WithDecoder(decoder), jsonl.WithCounters(counters))
	case v1alpha1.SourceTypeKafka:
		return kafka.NewKafkaSource(p.Source.Kafka,
			kafka.WithLogger(log), kafka.WithPipeline(p.Name), kafka.WithDecoder(decoder), kafka.WithCounters(counters))
	}
	return nil, fmt.Errorf("unrecognized source type %q", p.Source.Type)
}
