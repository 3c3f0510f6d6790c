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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/numaproj/geoflow"
	"github.com/numaproj/geoflow/pkg/apis/geoflow/v1alpha1"
	"github.com/numaproj/geoflow/pkg/config"
	"github.com/numaproj/geoflow/pkg/metrics"
	"github.com/numaproj/geoflow/pkg/processor"
	"github.com/numaproj/geoflow/pkg/shared/logging"
)

// flagKeys maps run flags to the settings they override.
var flagKeys = map[string]string{
	"name":         "name",
	"workers":      "workers",
	"query":        "query.type",
	"source":       "source.type",
	"sink":         "sink.type",
	"flush-on-end": "window.flushOnEnd",
	"metrics":      "metrics.enabled",
	"metrics-addr": "metrics.addr",
}

func NewRunCommand() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline",
		Example: `  geoflow run --config pipeline.yaml
  geoflow run --config pipeline.yaml --workers 8 --sink jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger().Named("geoflow")
			pl, err := loadPipeline(cmd, configFile)
			if err != nil {
				return err
			}
			log = log.With("pipeline", pl.Name)
			log.Infow("Starting pipeline", "version", geoflow.GetVersion())

			proc, err := processor.NewProcessor(pl)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, log)

			if pl.Metrics.Enabled {
				ms := metrics.NewMetricsServer(metrics.WithAddr(pl.Metrics.Addr), metrics.WithHealthCheckers(ctx, proc))
				shutdown, err := ms.Start(ctx)
				if err != nil {
					return fmt.Errorf("failed to start metrics server, error: %w", err)
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						log.Warnw("Failed to shutdown metrics server", zap.Error(err))
					}
				}()
			}
			return proc.Run(ctx)
		},
	}
	addPipelineFlags(command, &configFile)
	return command
}

func addPipelineFlags(command *cobra.Command, configFile *string) {
	command.Flags().StringVarP(configFile, "config", "c", "", "Pipeline configuration file (YAML)")
	command.Flags().String("name", "", "Pipeline name")
	command.Flags().Int("workers", 0, "Number of partition workers")
	command.Flags().String("query", "", "Query type, e.g. range, knn, join, tfilter, trange, tstats, taggregate, tjoin, tknn")
	command.Flags().String("source", "", "Source type, 'generator', 'jsonl' or 'kafka'")
	command.Flags().String("sink", "", "Sink type, 'log', 'jsonl', 'kafka' or 'blackhole'")
	command.Flags().Bool("flush-on-end", false, "Evaluate the open windows when the source is exhausted")
	command.Flags().Bool("metrics", false, "Serve prometheus metrics")
	command.Flags().String("metrics-addr", "", "Metrics server listen address")
}

// loadPipeline loads the configuration file with the flags of the command on top.
func loadPipeline(cmd *cobra.Command, configFile string) (*v1alpha1.Pipeline, error) {
	v, err := config.NewViper()
	if err != nil {
		return nil, err
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return config.Load(v, configFile)
}
