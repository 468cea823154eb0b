// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/cycle"
	"github.com/NVIDIA/section-broker/pkg/defaults"
	"github.com/NVIDIA/section-broker/pkg/serializer"
)

// Flag constructors return a fresh flag per command; parsed values live on
// the flag.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (supported values: %v)", serializer.SupportedFormats()),
	}
}

func sectionFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "section",
		Aliases: []string{"s"},
		Usage:   `Section name or wildcard pattern such as "df*" (can be repeated; default: all)`,
	}
}

func labelsDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "labels-dir",
		Usage:   "Directory holding persisted host labels",
		Sources: cli.EnvVars(envPrefix + "LABELS_DIR"),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported values: %v)", f, serializer.SupportedFormats())
	}
	return f, nil
}

// cycleConfig reads the global cycle flags.
func cycleConfig(cmd *cli.Command) cycle.Config {
	return cycle.Config{
		Location:     cmd.String("data"),
		PluginConfig: cmd.String("plugins"),
		Hosts:        cmd.StringSlice("host"),
		Concurrency:  int(cmd.Int("concurrency")),
		FetchTimeout: cmd.Duration("fetch-timeout"),
		Debug:        cmd.Bool("debug"),
	}
}

// runCycle builds the cycle from the global flags and runs it once.
func runCycle(ctx context.Context, cmd *cli.Command) (*cycle.Setup, *broker.Broker, error) {
	setup, err := cycleConfig(cmd).Build(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up cycle: %w", err)
	}
	b, err := setup.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cycle failed: %w", err)
	}
	return setup, b, nil
}

// withCycleTimeout bounds a command's cycle and section resolution.
func withCycleTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaults.CycleTimeout)
}

// writeOutput serializes v to --output in --format.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, v)
}
