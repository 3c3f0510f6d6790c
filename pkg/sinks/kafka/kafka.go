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

package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/shared/util"
)

const clientID = "geoflow-sink"

// ToKafka produce the output to a kafka sinks.
type ToKafka struct {
	name     string
	producer sarama.SyncProducer
	topic    string
	log      *zap.SugaredLogger
}

type Option func(*ToKafka) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToKafka) error {
		t.log = log
		return nil
	}
}

// WithProducer sets the producer instead of connecting to the brokers.
func WithProducer(p sarama.SyncProducer) Option {
	return func(t *ToKafka) error {
		t.producer = p
		return nil
	}
}

// NewToKafka returns ToKafka type.
func NewToKafka(kafkaSink *v1alpha1.KafkaSink, opts ...Option) (*ToKafka, error) {
	toKafka := &ToKafka{name: "kafka", topic: kafkaSink.Topic}
	for _, o := range opts {
		if err := o(toKafka); err != nil {
			return nil, err
		}
	}
	if toKafka.log == nil {
		toKafka.log = logging.NewLogger()
	}
	toKafka.log = toKafka.log.With("sinkType", "kafka").With("topic", kafkaSink.Topic)
	if toKafka.producer == nil {
		config, err := util.SaramaConfig(kafkaSink.Config, clientID, kafkaSink.SASL)
		if err != nil {
			return nil, err
		}
		producer, err := sarama.NewSyncProducer(kafkaSink.Brokers, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer. %w", err)
		}
		toKafka.producer = producer
	}
	return toKafka, nil
}

// GetName returns the name.
func (tk *ToKafka) GetName() string {
	return tk.name
}

// Write produces the batch to the topic, keyed by the query type so results of a query stay ordered
// within a partition.
func (tk *ToKafka) Write(_ context.Context, results []query.Result) error {
	if len(results) == 0 {
		return nil
	}
	messages := make([]*sarama.ProducerMessage, 0, len(results))
	for _, r := range results {
		b, err := query.Marshal(r)
		if err != nil {
			return err
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: tk.topic,
			Key:   sarama.StringEncoder(r.ResultType()),
			Value: sarama.ByteEncoder(b),
		})
	}
	if err := tk.producer.SendMessages(messages); err != nil {
		tk.log.Errorw("SendMessages failed", zap.Int("count", len(messages)), zap.Error(err))
		return err
	}
	return nil
}

func (tk *ToKafka) Close() error {
	tk.log.Info("Closing kafka producer...")
	return tk.producer.Close()
}
