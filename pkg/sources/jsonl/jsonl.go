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

// Package jsonl reads one JSON encoded spatial.Record per line.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/shared/logging"
	"github.com/numaproj/geoflow/pkg/spatial"
)

// DefaultMaxLineSize is the longest line decoded. Longer lines are skipped and counted as rejected.
const DefaultMaxLineSize = 16 << 20

// Source is a JSON lines source.
type Source struct {
	name        string
	pipeline    string
	reader      io.Reader
	closer      io.Closer
	decoder     *spatial.Decoder
	maxLineSize int
	counters    *metrics.Counters
	log         *zap.SugaredLogger
}

type Option func(*Source) error

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Source) error {
		s.log = l
		return nil
	}
}

// WithPipeline sets the pipeline name used in metrics.
func WithPipeline(name string) Option {
	return func(s *Source) error {
		s.pipeline = name
		return nil
	}
}

// WithDecoder sets the record decoder.
func WithDecoder(d *spatial.Decoder) Option {
	return func(s *Source) error {
		s.decoder = d
		return nil
	}
}

// WithMaxLineSize sets the longest line decoded.
func WithMaxLineSize(n int) Option {
	return func(s *Source) error {
		if n <= 0 {
			return fmt.Errorf("max line size must be positive, got %d", n)
		}
		s.maxLineSize = n
		return nil
	}
}

// WithCounters sets the counters undecodable records are counted in.
func WithCounters(c *metrics.Counters) Option {
	return func(s *Source) error {
		s.counters = c
		return nil
	}
}

// New returns a source reading r.
func New(r io.Reader, opts ...Option) (*Source, error) {
	s := &Source{name: "jsonl", reader: r, decoder: spatial.NewDecoder(""), maxLineSize: DefaultMaxLineSize}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if s.log == nil {
		s.log = logging.NewLogger()
	}
	return s, nil
}

// NewFromPath returns a source reading a file, or stdin for an empty path or "-".
func NewFromPath(path string, opts ...Option) (*Source, error) {
	if path == "" || path == "-" {
		return New(os.Stdin, opts...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s, err := New(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

func (s *Source) GetName() string {
	return s.name
}

func (s *Source) Read(ctx context.Context, out chan<- spatial.Record) error {
	br := bufio.NewReaderSize(s.reader, 64*1024)
	line := 0
	for {
		data, tooLong, err := s.readLine(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed reading line %d: %w", line+1, err)
		}
		line++
		if tooLong {
			s.reject(zap.Int("line", line), zap.Error(fmt.Errorf("line longer than %d bytes", s.maxLineSize)))
			continue
		}
		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			continue
		}
		r, err := s.decoder.Decode(data)
		if err != nil {
			s.reject(zap.Int("line", line), zap.Error(err))
			continue
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return nil
		}
	}
}

// readLine returns the next line without its line ending. A line longer than maxLineSize is consumed
// and reported as too long instead.
func (s *Source) readLine(br *bufio.Reader) ([]byte, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > s.maxLineSize {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, tooLong, nil
		}
	}
}

func (s *Source) reject(fields ...interface{}) {
	metrics.RecordsRejected.WithLabelValues(s.pipeline, metrics.ReasonDecode).Inc()
	if s.counters != nil {
		s.counters.Rejected.Inc()
	}
	s.log.Warnw("Skipping undecodable record", fields...)
}

func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
