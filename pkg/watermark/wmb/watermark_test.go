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

package wmb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatermark(t *testing.T) {
	wm := Watermark(time.Unix(60, 0))
	assert.True(t, wm.Closes(time.Unix(60, 0)))
	assert.False(t, wm.Closes(time.Unix(61, 0)))
	assert.True(t, wm.AfterWatermark(InitialWatermark))
	assert.True(t, wm.BeforeWatermark(Infinite))
	assert.True(t, Infinite.Closes(time.Unix(1<<40, 0)))
	assert.True(t, Infinite.Closes(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Infinite.IsInfinite())
	assert.False(t, wm.IsInfinite())
	assert.False(t, Infinite.InNanoRange())
	assert.True(t, wm.InNanoRange())
	assert.True(t, InitialWatermark.InNanoRange())
	assert.False(t, Watermark(time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)).InNanoRange())
	assert.Equal(t, "1970-01-01T00:01:00Z", wm.String())
}
