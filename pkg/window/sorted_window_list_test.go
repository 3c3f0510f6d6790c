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

package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func win(start, end int64) Window {
	return NewWindow(time.Unix(start, 0), time.Unix(end, 0))
}

func TestSortedWindowList_InsertIfNotPresent(t *testing.T) {
	tests := []struct {
		name            string
		given           []Window
		input           Window
		expectedWindows []Window
		isPresent       bool
	}{
		{
			name:            "first_window",
			given:           []Window{},
			input:           win(0, 60),
			expectedWindows: []Window{win(0, 60)},
		},
		{
			name:            "late_window",
			given:           []Window{win(120, 180)},
			input:           win(60, 120),
			expectedWindows: []Window{win(60, 120), win(120, 180)},
		},
		{
			name:            "early_window",
			given:           []Window{win(120, 180)},
			input:           win(240, 300),
			expectedWindows: []Window{win(120, 180), win(240, 300)},
		},
		{
			name:            "middle_window",
			given:           []Window{win(60, 120), win(240, 300)},
			input:           win(120, 180),
			expectedWindows: []Window{win(60, 120), win(120, 180), win(240, 300)},
		},
		{
			name:            "existing_window",
			given:           []Window{win(60, 120), win(120, 180)},
			input:           win(120, 180),
			expectedWindows: []Window{win(60, 120), win(120, 180)},
			isPresent:       true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := NewSortedWindowList[Window]()
			for _, w := range tt.given {
				windows.InsertIfNotPresent(w)
			}
			ret, isPresent := windows.InsertIfNotPresent(tt.input)
			assert.Equal(t, tt.isPresent, isPresent)
			assert.True(t, ret.Equal(tt.input))
			assert.Equal(t, tt.expectedWindows, windows.Items())
		})
	}
}

func TestSortedWindowList_RemoveWindows(t *testing.T) {
	windows := NewSortedWindowList[Window]()
	for _, w := range []Window{win(60, 120), win(0, 60), win(120, 180)} {
		windows.InsertIfNotPresent(w)
	}
	assert.Empty(t, windows.RemoveWindows(time.Unix(59, 0)))
	assert.Equal(t, []Window{win(0, 60), win(60, 120)}, windows.RemoveWindows(time.Unix(120, 0)))
	assert.Equal(t, 1, windows.Len())
	assert.Equal(t, win(120, 180), windows.Front())
	assert.Equal(t, win(120, 180), windows.Back())
}

func TestSortedWindowList_Delete(t *testing.T) {
	windows := NewSortedWindowList[Window]()
	windows.InsertIfNotPresent(win(0, 60))
	windows.InsertIfNotPresent(win(60, 120))
	assert.False(t, windows.Delete(win(0, 30)))
	assert.True(t, windows.Delete(win(0, 60)))
	assert.Equal(t, []Window{win(60, 120)}, windows.Items())
}

func TestSortedWindowList_FindWindowForTime(t *testing.T) {
	windows := NewSortedWindowList[Window]()
	windows.InsertIfNotPresent(win(0, 60))
	windows.InsertIfNotPresent(win(30, 90))
	w, ok := windows.FindWindowForTime(time.Unix(45, 0))
	assert.True(t, ok)
	assert.Equal(t, win(0, 60), w)
	w, ok = windows.FindWindowForTime(time.Unix(60, 0))
	assert.True(t, ok)
	assert.Equal(t, win(30, 90), w)
	_, ok = windows.FindWindowForTime(time.Unix(90, 0))
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	w := win(60, 120)
	assert.True(t, w.Contains(time.Unix(60, 0)))
	assert.False(t, w.Contains(time.Unix(120, 0)))
	assert.Equal(t, "60000-120000", w.String())
	assert.Equal(t, time.Unix(0, 42), SequenceTime(42))
}

func TestAlignStart(t *testing.T) {
	assert.Equal(t, time.Unix(600, 0), AlignStart(time.Unix(610, 0), 20*time.Second))
	assert.Equal(t, time.Unix(-20, 0), AlignStart(time.Unix(-10, 0), 20*time.Second))
	assert.Equal(t, time.Unix(0, 6), AlignStart(SequenceTime(7), 3))
}
