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
	"strings"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
)

func TestConfigureSASL(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		cfg := sarama.NewConfig()
		require.NoError(t, ConfigureSASL(cfg, nil))
		assert.False(t, cfg.Net.SASL.Enable)
	})

	t.Run("plain", func(t *testing.T) {
		cfg, err := SaramaConfig("", "geoflow", &v1alpha1.SASL{Mechanism: v1alpha1.SASLTypePlaintext, User: "user", Password: "pencil"})
		require.NoError(t, err)
		assert.True(t, cfg.Net.SASL.Enable)
		assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypePlaintext), cfg.Net.SASL.Mechanism)
		assert.Equal(t, "pencil", cfg.Net.SASL.Password)
		assert.Nil(t, cfg.Net.SASL.SCRAMClientGeneratorFunc)
	})

	for _, m := range []v1alpha1.SASLMechanism{v1alpha1.SASLTypeSCRAMSHA256, v1alpha1.SASLTypeSCRAMSHA512} {
		t.Run(string(m), func(t *testing.T) {
			cfg, err := SaramaConfig("", "geoflow", &v1alpha1.SASL{Mechanism: m, User: "user", Password: "pencil"})
			require.NoError(t, err)
			assert.Equal(t, sarama.SASLMechanism(m), cfg.Net.SASL.Mechanism)
			require.NotNil(t, cfg.Net.SASL.SCRAMClientGeneratorFunc)

			client := cfg.Net.SASL.SCRAMClientGeneratorFunc()
			require.NoError(t, client.Begin("user", "pencil", ""))
			first, err := client.Step("")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(first, "n,,n=user,r="), first)
			assert.False(t, client.Done())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := SaramaConfig("", "geoflow", &v1alpha1.SASL{Mechanism: "GSSAPI", User: "user", Password: "pencil"})
		assert.Error(t, err)
	})
}
