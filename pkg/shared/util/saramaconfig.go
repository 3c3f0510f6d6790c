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

package util

import (
	"bytes"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/spf13/viper"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
)

// SaramaConfig parses a YAML sarama configuration on top of the sarama defaults and applies the
// optional SASL settings. Producers always return successes, as the kafka sink writes through a
// SyncProducer.
func SaramaConfig(yaml string, clientID string, sasl *v1alpha1.SASL) (*sarama.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(yaml)); err != nil {
		return nil, fmt.Errorf("reading sarama config: %w", err)
	}
	cfg := sarama.NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode sarama config: %w", err)
	}
	if clientID != "" {
		cfg.ClientID = clientID
	}
	cfg.Producer.Return.Successes = true
	cfg.Consumer.Return.Errors = true
	if err := ConfigureSASL(cfg, sasl); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed validating sarama config: %w", err)
	}
	return cfg, nil
}
