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
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaramaConfig(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		conf, err := SaramaConfig(`
admin:
  retry:
    max: 103
producer:
  maxMessageBytes: 600
consumer:
  fetch:
    min: 1
net:
  MaxOpenRequests: 5
`, "geoflow", nil)
		require.NoError(t, err)
		assert.Equal(t, 600, conf.Producer.MaxMessageBytes)
		assert.Equal(t, 103, conf.Admin.Retry.Max)
		assert.Equal(t, int32(1), conf.Consumer.Fetch.Min)
		assert.Equal(t, 5, conf.Net.MaxOpenRequests)
		assert.Equal(t, "geoflow", conf.ClientID)
		assert.True(t, conf.Producer.Return.Successes)
	})

	t.Run("empty", func(t *testing.T) {
		conf, err := SaramaConfig("", "", nil)
		require.NoError(t, err)
		defaults := sarama.NewConfig()
		assert.Equal(t, defaults.Producer.MaxMessageBytes, conf.Producer.MaxMessageBytes)
		assert.Equal(t, defaults.Admin.Retry.Max, conf.Admin.Retry.Max)
		assert.Equal(t, "sarama", conf.ClientID)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := SaramaConfig("welcome", "", nil)
		assert.Error(t, err)
	})
}
