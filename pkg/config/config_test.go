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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/grid"
)

const testConfig = `
name: test
workers: 2
grid:
  minX: 0
  maxX: 100
  minY: 0
  maxY: 100
  resolution: 20
  outOfBounds: clip
window:
  type: time
  length: 5s
  slide: 1s
  allowedLateness: 2s
  flushOnEnd: true
query:
  type: trange
  polygons:
    - id: zone
      ring: [[0, 0], [10, 0], [10, 10], [0, 10]]
source:
  type: generator
  generator:
    records: 50
    seed: 7
    start: "2024-01-01T00:00:00Z"
sink:
  type: jsonl
  jsonl:
    path: out.jsonl
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func load(t *testing.T, path string) (*v1alpha1.Pipeline, error) {
	t.Helper()
	v, err := NewViper()
	require.NoError(t, err)
	return Load(v, path)
}

func TestLoad(t *testing.T) {
	p, err := load(t, writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "test", p.Name)
	assert.Equal(t, 2, p.Workers)
	assert.Equal(t, 20, p.Grid.Resolution)
	assert.Equal(t, grid.Clip, p.Grid.OutOfBounds)
	assert.Equal(t, grid.MetricEuclidean, p.Grid.Metric)
	assert.Equal(t, 5*time.Second, p.Window.Length)
	assert.Equal(t, time.Second, p.Window.Slide)
	assert.Equal(t, 2*time.Second, p.Window.AllowedLateness)
	assert.True(t, p.Window.FlushOnEnd)

	require.Len(t, p.Query.Polygons, 1)
	assert.Equal(t, "zone", p.Query.Polygons[0].ID)
	assert.Equal(t, [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, p.Query.Polygons[0].Ring)

	require.NotNil(t, p.Source.Generator)
	assert.Equal(t, int64(50), p.Source.Generator.Records)
	assert.Equal(t, int64(7), p.Source.Generator.Seed)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.Source.Generator.Start.UTC())
	assert.Equal(t, v1alpha1.DefaultGeneratorTrajectories, p.Source.Generator.Trajectories)

	assert.Equal(t, v1alpha1.SinkTypeJSONL, p.Sink.Type)
	assert.Equal(t, "out.jsonl", p.Sink.JSONL.Path)
	assert.Equal(t, v1alpha1.DefaultSinkRetries, p.Sink.Retries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOFLOW_WORKERS", "7")
	t.Setenv("GEOFLOW_WINDOW_LENGTH", "30s")
	t.Setenv("GEOFLOW_WINDOW_SLIDE", "10s")
	p, err := load(t, writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, 7, p.Workers)
	assert.Equal(t, 30*time.Second, p.Window.Length)
	assert.Equal(t, 10*time.Second, p.Window.Slide)
	assert.Equal(t, "test", p.Name)
}

func TestLoad_NoFile(t *testing.T) {
	_, err := load(t, "")
	assert.ErrorIs(t, err, v1alpha1.ErrInvalidConfig)

	t.Setenv("GEOFLOW_GRID_MAXX", "50")
	t.Setenv("GEOFLOW_GRID_MAXY", "25.5")
	t.Setenv("GEOFLOW_QUERY_TYPE", "knn")
	t.Setenv("GEOFLOW_QUERY_K", "3")
	// a knn query without a query point is only rejected when the query is built
	p, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Grid.MaxX)
	assert.Equal(t, 25.5, p.Grid.MaxY)
	assert.Equal(t, 3, p.Query.K)
	assert.Equal(t, "iterative", p.Query.KNNMode)
	assert.Equal(t, v1alpha1.SourceTypeGenerator, p.Source.Type)

	_, err = load(t, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
grid:
  minX: 10
  maxX: 0
  maxY: 1
  resolution: -1
query:
  type: range
`)
	_, err := load(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, v1alpha1.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "grid.resolution")
	assert.Contains(t, err.Error(), "query.radius")
}
