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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/section-broker/pkg/cycle"
	"github.com/NVIDIA/section-broker/pkg/section"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve parsed sections for every host",
		Description: `Run one cycle and print the resolved sections of every host.

For each requested logical section, the plugins that supersede others are
tried first; the first plugin whose raw section parses wins. Sections that do
not resolve for a host are omitted.

# Examples

Resolve all sections of every host in a directory:
  sectionctl --data ./agent-output resolve

Resolve df-related sections of two hosts as a table:
  sectionctl --data ./agent-output --host node-1 --host node-2 resolve --section 'df*' --format table`,
		Flags: []cli.Flag{
			sectionFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			ctx, cancel := withCycleTimeout(ctx)
			defer cancel()

			_, b, err := runCycle(ctx, cmd)
			if err != nil {
				return err
			}

			var ids []section.ParsedSectionID
			if patterns := cmd.StringSlice("section"); len(patterns) > 0 {
				ids = section.Select(cycle.KnownSections(b), patterns)
				if len(ids) == 0 {
					return fmt.Errorf("no known section matches %v", patterns)
				}
			}

			report, err := cycle.BuildReport(ctx, b, ids, version)
			if err != nil {
				return fmt.Errorf("failed to resolve sections: %w", err)
			}
			return writeOutput(ctx, cmd, report)
		},
	}
}

func availableCmd() *cli.Command {
	return &cli.Command{
		Name:                  "available",
		EnableShellCompletion: true,
		Usage:                 "List the sections that resolve for a source type",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: string(section.SourceHost),
				Usage: fmt.Sprintf("Source type (supported values: %v)", section.SourceTypes),
			},
			sectionFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			sourceType, ok := section.ParseSourceType(cmd.String("source"))
			if !ok {
				return fmt.Errorf("invalid source type %q (supported values: %v)", cmd.String("source"), section.SourceTypes)
			}
			ctx, cancel := withCycleTimeout(ctx)
			defer cancel()

			_, b, err := runCycle(ctx, cmd)
			if err != nil {
				return err
			}
			doc, err := cycle.BuildAvailability(ctx, b, sourceType, cmd.StringSlice("section"), version)
			if err != nil {
				return fmt.Errorf("failed to compute availability: %w", err)
			}
			return writeOutput(ctx, cmd, doc)
		},
	}
}

func cacheInfoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "cache-info",
		EnableShellCompletion: true,
		Usage:                 "Show the oldest collection time and longest validity of the selected sections",
		Flags: []cli.Flag{
			sectionFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			ctx, cancel := withCycleTimeout(ctx)
			defer cancel()

			_, b, err := runCycle(ctx, cmd)
			if err != nil {
				return err
			}
			doc, err := cycle.BuildCacheInfo(ctx, b, cmd.StringSlice("section"), version)
			if err != nil {
				return fmt.Errorf("failed to aggregate cache info: %w", err)
			}
			return writeOutput(ctx, cmd, doc)
		},
	}
}

func errorsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "errors",
		EnableShellCompletion: true,
		Usage:                 "Resolve every section and list the parse failures",
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			ctx, cancel := withCycleTimeout(ctx)
			defer cancel()

			_, b, err := runCycle(ctx, cmd)
			if err != nil {
				return err
			}
			// parse failures are only recorded when a section is resolved
			if _, err := cycle.BuildReport(ctx, b, nil, version); err != nil {
				return fmt.Errorf("failed to resolve sections: %w", err)
			}
			return writeOutput(ctx, cmd, cycle.BuildErrorsReport(b, version))
		},
	}
}
