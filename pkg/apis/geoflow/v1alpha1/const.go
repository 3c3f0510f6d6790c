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

const (
	DefaultPipelineName = "geoflow"
	DefaultWorkers      = 4
	DefaultResolution   = 10

	DefaultWindowLength = 10 * time.Second
	DefaultWindowCount  = 1000

	// DefaultSweepInterval is the eviction interval of unwindowed queries when no inactivity threshold
	// is available to derive it from.
	DefaultSweepInterval = time.Second

	DefaultGeneratorRecords      = 10000
	DefaultGeneratorTrajectories = 10
	DefaultGeneratorStep         = 100 * time.Millisecond

	DefaultSinkRetries = 5

	DefaultMetricsAddr = ":2469"

	// ENV vars
	EnvPrefix = "GEOFLOW"
)
