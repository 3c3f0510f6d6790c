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

	"github.com/numaproj/geoflow/pkg/spatial"
)

// Source produces ingestion records.
type Source interface {
	// GetName returns the name of the source, used as a metrics label.
	GetName() string
	// Read sends records to out until the input is exhausted or ctx is done. It does not close out.
	// Records that cannot be decoded are counted and skipped.
	Read(ctx context.Context, out chan<- spatial.Record) error
	// Close releases the resources of the source.
	Close() error
}
