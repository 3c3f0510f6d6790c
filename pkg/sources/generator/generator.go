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

// Package generator produces synthetic trajectories inside the grid. Records are assigned to the
// trajectories round-robin, and every trajectory does a random walk from a random starting position.
// The output only depends on the seed.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// walkFraction is the largest step of a random walk as a fraction of the grid extent.
const walkFraction = 0.01

// Generator is a synthetic source.
type Generator struct {
	spec   v1alpha1.GeneratorSource
	bounds v1alpha1.GridSpec
}

// NewGenerator returns a generator producing records within the bounds of the grid.
func NewGenerator(spec v1alpha1.GeneratorSource, bounds v1alpha1.GridSpec) *Generator {
	return &Generator{spec: spec, bounds: bounds}
}

func (g *Generator) GetName() string {
	return "generator"
}

func (g *Generator) Read(ctx context.Context, out chan<- spatial.Record) error {
	n := max(g.spec.Trajectories, 1)
	rnd := rand.New(rand.NewSource(g.spec.Seed))
	width := g.bounds.MaxX - g.bounds.MinX
	height := g.bounds.MaxY - g.bounds.MinY
	positions := make([][2]float64, n)
	for i := range positions {
		positions[i] = [2]float64{g.bounds.MinX + rnd.Float64()*width, g.bounds.MinY + rnd.Float64()*height}
	}
	start := g.spec.Start
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	for i := int64(0); i < g.spec.Records; i++ {
		tr := int(i % int64(n))
		p := &positions[tr]
		p[0] = clamp(p[0]+(rnd.Float64()*2-1)*width*walkFraction, g.bounds.MinX, g.bounds.MaxX)
		p[1] = clamp(p[1]+(rnd.Float64()*2-1)*height*walkFraction, g.bounds.MinY, g.bounds.MaxY)
		r := spatial.Record{
			ID:           fmt.Sprintf("p-%d", i),
			X:            p[0],
			Y:            p[1],
			Timestamp:    start.Add(time.Duration(i) * g.spec.Step),
			TrajectoryID: fmt.Sprintf("traj-%d", tr),
			Stream:       spatial.StreamData,
		}
		if g.spec.QueryEvery > 0 && (i+1)%g.spec.QueryEvery == 0 {
			r.Stream = spatial.StreamQuery
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (g *Generator) Close() error {
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
