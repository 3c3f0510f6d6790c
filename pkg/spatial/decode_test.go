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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Timestamps(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		data   string
		want   time.Time
	}{
		{name: "rfc3339", data: `{"id":"a","timestamp":"2024-01-01T00:00:00Z"}`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "offset", data: `{"id":"a","timestamp":"2024-01-01T08:00:00+08:00"}`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "no zone", data: `{"id":"a","timestamp":"2008-02-02 15:36:08"}`, want: time.Date(2008, 2, 2, 15, 36, 8, 0, time.UTC)},
		{name: "layout", layout: "02/01/2006 15:04", data: `{"id":"a","timestamp":"03/02/2008 15:36"}`, want: time.Date(2008, 2, 3, 15, 36, 0, 0, time.UTC)},
		{name: "epoch millis", data: `{"id":"a","timestamp":1700000000123}`, want: time.UnixMilli(1700000000123)},
		{name: "missing", data: `{"id":"a"}`},
		{name: "null", data: `{"id":"a","timestamp":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDecoder(tt.layout).Decode([]byte(tt.data))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(r.Timestamp), "got %v", r.Timestamp)
		})
	}
}

func TestDecoder_Fields(t *testing.T) {
	r, err := NewDecoder("").Decode([]byte(`{"id":"poly","x":1,"y":2,"trajectoryId":"t1","stream":"query","ring":[[0,0],[1,0],[1,1]]}`))
	require.NoError(t, err)
	assert.Equal(t, Record{ID: "poly", X: 1, Y: 2, TrajectoryID: "t1", Stream: StreamQuery, Ring: [][2]float64{{0, 0}, {1, 0}, {1, 1}}}, r)
}

func TestDecoder_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"malformed":    `{"id":`,
		"bad date":     `{"id":"a","timestamp":"2024-13-45"}`,
		"bad number":   `{"id":"a","timestamp":1.5e400}`,
		"wrong layout": `{"id":"a","timestamp":"2024-01-01T00:00:00Z"}`,
	} {
		t.Run(name, func(t *testing.T) {
			layout := ""
			if name == "wrong layout" {
				layout = "2006-01-02 15:04:05"
			}
			_, err := NewDecoder(layout).Decode([]byte(data))
			assert.Error(t, err)
		})
	}
}
