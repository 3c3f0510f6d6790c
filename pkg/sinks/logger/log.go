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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/geoflow/pkg/query"
	"github.com/numaproj/geoflow/pkg/shared/logging"
)

// ToLog prints the results to the log.
type ToLog struct {
	name   string
	logger *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(opts ...Option) (*ToLog, error) {
	toLog := &ToLog{name: "log"}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.With("sinkType", "log")
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

// Write logs each result as JSON.
func (t *ToLog) Write(_ context.Context, results []query.Result) error {
	for _, r := range results {
		b, err := query.Marshal(r)
		if err != nil {
			return err
		}
		t.logger.Infow("Result", zap.String("type", string(r.ResultType())), zap.ByteString("payload", b))
	}
	return nil
}

func (t *ToLog) Close() error {
	// syncing stderr fails on some platforms
	_ = t.logger.Sync()
	return nil
}
