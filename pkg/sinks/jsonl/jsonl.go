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

// Package jsonl writes one enveloped JSON result per line.
package jsonl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/numaproj/geoflow/pkg/query"
)

// ToJSONL writes results to a file or stdout.
type ToJSONL struct {
	name   string
	w      *bufio.Writer
	closer io.Closer
}

// New returns a sink writing to w.
func New(w io.Writer) *ToJSONL {
	return &ToJSONL{name: "jsonl", w: bufio.NewWriter(w)}
}

// NewFromPath creates or truncates the file at path. An empty path or "-" writes stdout.
func NewFromPath(path string) (*ToJSONL, error) {
	if path == "" || path == "-" {
		return New(os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	s := New(f)
	s.closer = f
	return s, nil
}

// GetName returns the name.
func (t *ToJSONL) GetName() string {
	return t.name
}

// Write writes the batch and flushes it.
func (t *ToJSONL) Write(_ context.Context, results []query.Result) error {
	for _, r := range results {
		b, err := query.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := t.w.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return t.w.Flush()
}

func (t *ToJSONL) Close() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
