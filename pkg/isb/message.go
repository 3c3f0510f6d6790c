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

// Package isb defines the messages exchanged between the router and the partition workers. Data
// messages and watermark barriers travel in-band on the same channel, so every worker observes them in
// the order the router produced them.
package isb

import (
	"time"

	"github.com/numaproj/geoflow/pkg/reduce/state"
	"github.com/numaproj/geoflow/pkg/spatial"
	"github.com/numaproj/geoflow/pkg/watermark/wmb"
)

// MessageType represents the message type of the payload.
type MessageType int16

const (
	Data MessageType = 1 << iota // Data payload
	WMB                          // Watermark Barrier
)

func (mt MessageType) String() string {
	switch mt {
	case Data:
		return "Data"
	case WMB:
		return "WMB"
	default:
		return "Unknown"
	}
}

// Header is the header of the message.
type Header struct {
	// Kind indicates the kind of Message
	Kind MessageType
	// Seq is the ingestion sequence number for Data, the barrier sequence number for WMB.
	Seq int64
	// EventTime is the time the object is windowed by: its event time, or its sequence time for count
	// windows. Ignored for WMB.
	EventTime time.Time
	// Keys are the partition keys of the object owned by the receiving worker.
	Keys []state.Key
	// Primary is set on exactly one of the copies of an object sent to several workers.
	Primary bool
}

// Message is a router to worker message.
type Message struct {
	Header
	Object  spatial.Object
	Barrier wmb.WMB
}

// NewDataMessage returns a Data message.
func NewDataMessage(seq int64, eventTime time.Time, o spatial.Object, keys []state.Key, primary bool) *Message {
	return &Message{
		Header: Header{Kind: Data, Seq: seq, EventTime: eventTime, Keys: keys, Primary: primary},
		Object: o,
	}
}

// NewWMBMessage returns a watermark barrier.
func NewWMBMessage(b wmb.WMB) *Message {
	return &Message{Header: Header{Kind: WMB, Seq: b.Seq}, Barrier: b}
}
