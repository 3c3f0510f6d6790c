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

package spatial

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"
)

// Decoder decodes JSON records. String timestamps are parsed with the layout when one is set and
// with dateparse otherwise. Numeric timestamps are milliseconds since the epoch. Timestamps without
// a zone are UTC, and every decoded timestamp is returned in UTC.
type Decoder struct {
	layout string
}

// NewDecoder returns a Decoder for timestamps in the given time.Parse layout. An empty layout accepts
// any format dateparse recognizes.
func NewDecoder(layout string) *Decoder {
	return &Decoder{layout: layout}
}

type wireRecord struct {
	ID           string          `json:"id"`
	X            float64         `json:"x"`
	Y            float64         `json:"y"`
	Timestamp    json.RawMessage `json:"timestamp"`
	TrajectoryID string          `json:"trajectoryId,omitempty"`
	Stream       Stream          `json:"stream,omitempty"`
	Ring         [][2]float64    `json:"ring,omitempty"`
}

// Decode decodes one record.
func (d *Decoder) Decode(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, err
	}
	ts, err := d.timestamp(w.Timestamp)
	if err != nil {
		return Record{}, fmt.Errorf("record %q: %w", w.ID, err)
	}
	return Record{
		ID:           w.ID,
		X:            w.X,
		Y:            w.Y,
		Timestamp:    ts,
		TrajectoryID: w.TrajectoryID,
		Stream:       w.Stream,
		Ring:         w.Ring,
	}, nil
}

func (d *Decoder) timestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}
	if raw[0] != '"' {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", raw, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	var t time.Time
	var err error
	if d.layout != "" {
		t, err = time.ParseInLocation(d.layout, s, time.UTC)
	} else {
		t, err = dateparse.ParseIn(s, time.UTC)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
