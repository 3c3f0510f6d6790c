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

package processor

import (
	"time"

	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/sinks"
	"github.com/numaproj/geoflow/pkg/sources"
)

const (
	// DefaultBufferSize is the capacity of the channels between the stages.
	DefaultBufferSize = 256
	// DefaultRetryInterval is the first delay between sink write attempts.
	DefaultRetryInterval = 100 * time.Millisecond
)

// Options for running a pipeline
type Options struct {
	// source overrides the configured source
	source sources.Source
	// sink overrides the configured sink
	sink sinks.Sink
	// bufferSize is the capacity of the router, worker and result channels
	bufferSize int
	// layerCacheSize is the number of neighbor layers the engine caches
	layerCacheSize int
	// retryInterval is the initial sink retry backoff
	retryInterval time.Duration
}

type Option func(*Options) error

func DefaultOptions() *Options {
	return &Options{
		bufferSize:     DefaultBufferSize,
		layerCacheSize: query.DefaultLayerCacheSize,
		retryInterval:  DefaultRetryInterval,
	}
}

// WithSource sets the source instead of building the configured one.
func WithSource(s sources.Source) Option {
	return func(o *Options) error {
		o.source = s
		return nil
	}
}

// WithSink sets the sink instead of building the configured one.
func WithSink(s sinks.Sink) Option {
	return func(o *Options) error {
		o.sink = s
		return nil
	}
}

// WithBufferSize sets the channel capacity between stages
func WithBufferSize(n int) Option {
	return func(o *Options) error {
		o.bufferSize = n
		return nil
	}
}

// WithLayerCacheSize sets the neighbor layer cache size
func WithLayerCacheSize(n int) Option {
	return func(o *Options) error {
		o.layerCacheSize = n
		return nil
	}
}

// WithRetryInterval sets the initial delay between sink write attempts
func WithRetryInterval(d time.Duration) Option {
	return func(o *Options) error {
		o.retryInterval = d
		return nil
	}
}
