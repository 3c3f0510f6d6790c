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

// Package kafka consumes JSON encoded records from a data topic and an optional query topic. Every
// partition of both topics is consumed from the oldest offset by its own goroutine.
package kafka

import (
	"context"
	"fmt"
	"sort"

	"github.com/IBM/sarama"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/shared/util"
	"github.com/numaproj/geoflow/pkg/spatial"
)

const clientID = "geoflow-source"

// KafkaSource is a kafka source.
type KafkaSource struct {
	name          string
	pipeline      string
	topics        map[string]spatial.Stream
	consumer      sarama.Consumer
	initialOffset int64
	decoder       *spatial.Decoder
	counters      *metrics.Counters
	log           *zap.SugaredLogger
}

type Option func(*KafkaSource) error

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(k *KafkaSource) error {
		k.log = l
		return nil
	}
}

// WithPipeline sets the pipeline name used in metrics.
func WithPipeline(name string) Option {
	return func(k *KafkaSource) error {
		k.pipeline = name
		return nil
	}
}

// WithConsumer sets the consumer instead of connecting to the brokers.
func WithConsumer(c sarama.Consumer) Option {
	return func(k *KafkaSource) error {
		k.consumer = c
		return nil
	}
}

// WithInitialOffset sets the offset partitions are consumed from, sarama.OffsetOldest by default.
func WithInitialOffset(offset int64) Option {
	return func(k *KafkaSource) error {
		k.initialOffset = offset
		return nil
	}
}

// WithDecoder sets the record decoder.
func WithDecoder(d *spatial.Decoder) Option {
	return func(k *KafkaSource) error {
		k.decoder = d
		return nil
	}
}

// WithCounters sets the counters undecodable records are counted in.
func WithCounters(c *metrics.Counters) Option {
	return func(k *KafkaSource) error {
		k.counters = c
		return nil
	}
}

// NewKafkaSource returns a source consuming the configured topics.
func NewKafkaSource(spec *v1alpha1.KafkaSource, opts ...Option) (*KafkaSource, error) {
	k := &KafkaSource{
		name:          "kafka",
		topics:        map[string]spatial.Stream{spec.Topic: spatial.StreamData},
		initialOffset: sarama.OffsetOldest,
		decoder:       spatial.NewDecoder(""),
	}
	if spec.QueryTopic != "" {
		k.topics[spec.QueryTopic] = spatial.StreamQuery
	}
	for _, o := range opts {
		if err := o(k); err != nil {
			return nil, err
		}
	}
	if k.log == nil {
		k.log = logging.NewLogger()
	}
	k.log = k.log.With("sourceType", "kafka").With("topic", spec.Topic)
	if k.consumer == nil {
		config, err := util.SaramaConfig(spec.Config, clientID, spec.SASL)
		if err != nil {
			return nil, err
		}
		consumer, err := sarama.NewConsumer(spec.Brokers, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
		}
		k.consumer = consumer
	}
	return k, nil
}

func (k *KafkaSource) GetName() string {
	return k.name
}

// Read consumes every partition until ctx is done.
func (k *KafkaSource) Read(ctx context.Context, out chan<- spatial.Record) error {
	topics := make([]string, 0, len(k.topics))
	for t := range k.topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	var pcs []sarama.PartitionConsumer
	defer func() {
		var err error
		for _, pc := range pcs {
			err = multierr.Append(err, pc.Close())
		}
		if err != nil {
			k.log.Warnw("Failed to close partition consumers", zap.Error(err))
		}
	}()

	g, gCtx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		partitions, err := k.consumer.Partitions(topic)
		if err != nil {
			return fmt.Errorf("failed to list partitions of %s: %w", topic, err)
		}
		for _, p := range partitions {
			pc, err := k.consumer.ConsumePartition(topic, p, k.initialOffset)
			if err != nil {
				return fmt.Errorf("failed to consume %s/%d: %w", topic, p, err)
			}
			pcs = append(pcs, pc)
			stream := k.topics[topic]
			g.Go(func() error {
				return k.consume(gCtx, pc, stream, out)
			})
		}
	}
	k.log.Infow("Consuming", zap.Strings("topics", topics), zap.Int("partitions", len(pcs)))
	return g.Wait()
}

func (k *KafkaSource) consume(ctx context.Context, pc sarama.PartitionConsumer, stream spatial.Stream, out chan<- spatial.Record) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-pc.Errors():
			if ok {
				k.log.Errorw("Kafka consumer error", zap.Error(err))
			}
		case msg, ok := <-pc.Messages():
			if !ok {
				return nil
			}
			r, err := k.decoder.Decode(msg.Value)
			if err != nil {
				metrics.RecordsRejected.WithLabelValues(k.pipeline, metrics.ReasonDecode).Inc()
				if k.counters != nil {
					k.counters.Rejected.Inc()
				}
				k.log.Warnw("Skipping undecodable record", zap.String("topic", msg.Topic), zap.Int32("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
				continue
			}
			r.Stream = stream
			if r.Timestamp.IsZero() {
				r.Timestamp = msg.Timestamp
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (k *KafkaSource) Close() error {
	k.log.Info("Closing kafka consumer...")
	return k.consumer.Close()
}
