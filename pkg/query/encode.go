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

package query

import (
	"github.com/goccy/go-json"
)

// Envelope is the wire form of a result: the selector that produced it and the result itself.
type Envelope struct {
	Type   Type   `json:"type"`
	Result Result `json:"result"`
}

// Marshal encodes a result in its envelope.
func Marshal(r Result) ([]byte, error) {
	return json.Marshal(Envelope{Type: r.ResultType(), Result: r})
}
