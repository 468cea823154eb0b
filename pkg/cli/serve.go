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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/section-broker/pkg/api"
	"github.com/NVIDIA/section-broker/pkg/defaults"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve resolved sections over HTTP, refreshing the cycle periodically",
		Description: `Start the section broker API server.

A cycle runs at startup and on every --refresh-interval. Requests are answered
from the most recent successful cycle; /ready reports 503 until the first
cycle completes. See the api package for the route list.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Listen address (default: all interfaces)",
				Sources: cli.EnvVars(envPrefix + "ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Listen port (default: $PORT or 8080)",
				Sources: cli.EnvVars(envPrefix + "PORT"),
			},
			&cli.DurationFlag{
				Name:    "refresh-interval",
				Value:   defaults.RefreshInterval,
				Usage:   "How often the cycle is replaced",
				Sources: cli.EnvVars(envPrefix + "REFRESH_INTERVAL"),
			},
			labelsDirFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.Serve(ctx, api.Config{
				Cycle:           cycleConfig(cmd),
				LabelsDir:       cmd.String("labels-dir"),
				RefreshInterval: cmd.Duration("refresh-interval"),
				Address:         cmd.String("address"),
				Port:            int(cmd.Int("port")),
				LogLevel:        cmd.String("log-level"),
			})
		},
	}
}
