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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/numaproj/geoflow/pkg/processor"
)

func NewValidateCommand() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pipeline and print it with the defaults applied",
		Example: `  geoflow validate --config pipeline.yaml
  geoflow validate --config pipeline.yaml --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := loadPipeline(cmd, configFile)
			if err != nil {
				return err
			}
			if _, err := processor.NewProcessor(pl); err != nil {
				return err
			}
			b, err := yaml.Marshal(pl)
			if err != nil {
				return fmt.Errorf("failed to marshal pipeline: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	addPipelineFlags(command, &configFile)
	return command
}
