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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/section-broker/pkg/defaults"
	"github.com/NVIDIA/section-broker/pkg/logging"
)

const (
	name           = "sectionctl"
	versionDefault = "dev"
	envPrefix      = "SECTION_BROKER_"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with os.Args and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Resolve monitoring agent sections across hosts",
		Description: fmt.Sprintf(`sectionctl - section broker CLI

Version: %s
Commit:  %s
Built:   %s

Reads stored or served agent output for a set of hosts, parses each raw
section through the configured section plugins, and resolves logical
sections, honoring supersedes declarations between plugins.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL", envPrefix+"LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Fail on the first parse or host label error instead of recording it",
				Sources: cli.EnvVars(envPrefix + "DEBUG"),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Value:   ".",
				Usage: `Directory or HTTP/HTTPS base URL holding agent output.
	Host output is read from <data>/<host>.txt, management board output from <data>/<host>.mgmt.txt.`,
				Sources: cli.EnvVars(envPrefix + "DATA"),
			},
			&cli.StringFlag{
				Name:    "plugins",
				Aliases: []string{"p"},
				Usage:   "Path/URL to a section plugin config (default: built-in plugins)",
				Sources: cli.EnvVars(envPrefix + "PLUGINS"),
			},
			&cli.StringSliceFlag{
				Name:    "host",
				Aliases: []string{"H"},
				Usage: `Host to include, as hostname or hostname/management (can be repeated).
	Required for URL data sources; defaults to every host in a data directory.`,
				Sources: cli.EnvVars(envPrefix + "HOSTS"),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Value:   defaults.FetchConcurrency,
				Usage:   "Number of hosts fetched in parallel",
				Sources: cli.EnvVars(envPrefix + "CONCURRENCY"),
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   defaults.FetchTimeout,
				Usage:   "Timeout for fetching the output of one host",
				Sources: cli.EnvVars(envPrefix + "FETCH_TIMEOUT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			resolveCmd(),
			availableCmd(),
			cacheInfoCmd(),
			errorsCmd(),
			labelsCmd(),
			serveCmd(),
		},
	}
}

