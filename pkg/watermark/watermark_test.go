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

package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/numaproj/geoflow/pkg/watermark/wmb"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(5 * time.Second)
	assert.Equal(t, wmb.InitialWatermark, tr.Watermark())
	tr.Observe(time.Unix(100, 0))
	assert.Equal(t, wmb.Watermark(time.Unix(95, 0)), tr.Watermark())
	// out of order records never move the watermark back
	tr.Observe(time.Unix(90, 0))
	assert.Equal(t, wmb.Watermark(time.Unix(95, 0)), tr.Watermark())
	tr.Observe(time.Unix(110, 0))
	assert.Equal(t, wmb.Watermark(time.Unix(105, 0)), tr.Watermark())
	assert.Equal(t, time.Unix(110, 0), tr.MaxEventTime())
}

func TestAligner(t *testing.T) {
	a := NewAligner(20*time.Second, 0)
	assert.False(t, a.Cross(wmb.InitialWatermark))
	assert.True(t, a.Cross(wmb.Watermark(time.Unix(5, 0))))
	assert.False(t, a.Cross(wmb.Watermark(time.Unix(19, 0))))
	assert.True(t, a.Cross(wmb.Watermark(time.Unix(20, 0))))
	assert.False(t, a.Cross(wmb.Watermark(time.Unix(39, 0))))
	assert.True(t, a.Cross(wmb.Watermark(time.Unix(61, 0))))
	assert.True(t, a.Cross(wmb.Infinite))
	assert.True(t, a.Cross(wmb.Watermark(time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC))))

	// windows of 60s sliding by 40s end at 20 + k*40
	s := NewAligner(40*time.Second, 20*time.Second)
	assert.True(t, s.Cross(wmb.Watermark(time.Unix(10, 0))))
	assert.True(t, s.Cross(wmb.Watermark(time.Unix(20, 0))))
	assert.False(t, s.Cross(wmb.Watermark(time.Unix(59, 0))))
	assert.True(t, s.Cross(wmb.Watermark(time.Unix(60, 0))))
}
