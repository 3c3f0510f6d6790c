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

// Package config loads a pipeline from a YAML file with viper. Environment variables with the
// GEOFLOW_ prefix and bound command line flags override the file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
)

// EnvKeys are the settings that can be overridden from the environment without appearing in the
// file. A key "query.radius" is read from GEOFLOW_QUERY_RADIUS.
var EnvKeys = []string{
	"name",
	"workers",
	"grid.minX",
	"grid.maxX",
	"grid.minY",
	"grid.maxY",
	"grid.resolution",
	"grid.metric",
	"grid.outOfBounds",
	"window.type",
	"window.length",
	"window.slide",
	"window.count",
	"window.allowedLateness",
	"window.flushOnEnd",
	"query.type",
	"query.radius",
	"query.k",
	"query.realtime",
	"source.type",
	"sink.type",
	"sink.retries",
	"metrics.enabled",
	"metrics.addr",
}

// NewViper returns a viper instance reading the environment.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(v1alpha1.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range EnvKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", k, err)
		}
	}
	return v, nil
}

// Load reads the file at path, if any, into a pipeline with defaults set and validated.
func Load(v *viper.Viper, path string) (*v1alpha1.Pipeline, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}
	p := &v1alpha1.Pipeline{}
	if err := v.Unmarshal(p, decoderConfig); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration file. %w", err)
	}
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decoderConfig(c *mapstructure.DecoderConfig) {
	c.TagName = "json"
	c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}
