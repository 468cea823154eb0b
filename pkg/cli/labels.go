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

	"github.com/NVIDIA/section-broker/pkg/cycle"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
)

func labelsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "labels",
		EnableShellCompletion: true,
		Usage:                 "Discover host labels and diff them against the persisted ones",
		Description: `Run one cycle, discover host labels from the resolved sections of each
node, and compare them with the labels persisted in --labels-dir.

Labels present in both sets keep their persisted value; labels only
discovered now are new; persisted labels no longer discovered vanish.

With --save, the present labels (old and new) of every node replace the
persisted ones. With --cluster, the present labels of all nodes are merged,
later nodes winning per label name.

# Examples

  sectionctl --data ./agent-output labels --node node-1 --labels-dir ./labels
  sectionctl --data ./agent-output labels --labels-dir ./labels --save
  sectionctl --data ./agent-output labels --cluster --format table`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "node",
				Aliases: []string{"n"},
				Usage:   "Node to discover (can be repeated; default: every host in the cycle)",
			},
			labelsDirFlag(),
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Persist the present labels of each node to --labels-dir",
			},
			&cli.BoolFlag{
				Name:  "cluster",
				Usage: "Print the merged labels of all nodes",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			labelsDir := cmd.String("labels-dir")
			if cmd.Bool("save") && labelsDir == "" {
				return fmt.Errorf("--save requires --labels-dir")
			}

			ctx, cancel := withCycleTimeout(ctx)
			defer cancel()

			setup, b, err := runCycle(ctx, cmd)
			if err != nil {
				return err
			}

			nodes := cmd.StringSlice("node")
			if len(nodes) == 0 {
				nodes = cycle.Hostnames(b)
			}

			previous := map[string][]hostlabel.HostLabel{}
			var store *hostlabel.Store
			if labelsDir != "" {
				store = hostlabel.NewStore(labelsDir)
				if previous, err = store.LoadAll(nodes); err != nil {
					return fmt.Errorf("failed to load persisted labels: %w", err)
				}
			}

			discoverer := setup.Discoverer()
			reports := make([]*hostlabel.HostReport, 0, len(nodes))
			diffs := make([]hostlabel.DiffResult, 0, len(nodes))
			for _, node := range nodes {
				diff, err := discoverer.DiscoverHost(ctx, b, node, previous[node])
				if err != nil {
					return fmt.Errorf("failed to discover labels of %s: %w", node, err)
				}
				diffs = append(diffs, diff)
				reports = append(reports, hostlabel.NewHostReport(node, diff, version))
			}

			if cmd.Bool("save") {
				for i, node := range nodes {
					if err := store.Save(node, diffs[i].Present()); err != nil {
						return fmt.Errorf("failed to save labels of %s: %w", node, err)
					}
				}
				slog.Info("host labels saved", "nodes", len(nodes), "dir", labelsDir)
			}

			switch {
			case cmd.Bool("cluster"):
				return writeOutput(ctx, cmd, hostlabel.NewClusterReport(nodes, hostlabel.MergeNodes(diffs), version))
			case len(reports) == 1:
				return writeOutput(ctx, cmd, reports[0])
			default:
				return writeOutput(ctx, cmd, reports)
			}
		},
	}
}
