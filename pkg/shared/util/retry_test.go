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

package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/util/wait"
)

func TestRetryBackoff(t *testing.T) {
	b := RetryBackoff(0, time.Millisecond)
	assert.Equal(t, 1, b.Steps)

	attempts := 0
	err := wait.ExponentialBackoffWithContext(context.Background(), RetryBackoff(3, time.Millisecond), func(context.Context) (bool, error) {
		attempts++
		return false, nil
	})
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}
