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

package api

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/section-broker/pkg/cycle"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
	"github.com/NVIDIA/section-broker/pkg/logging"
	"github.com/NVIDIA/section-broker/pkg/server"
)

const (
	name           = "sectiond"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/section-broker/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Config configures the API server.
type Config struct {
	Cycle cycle.Config

	// LabelsDir holds persisted host labels. Empty diffs against no labels.
	LabelsDir string

	// RefreshInterval is how often the cycle is replaced. Zero uses the default.
	RefreshInterval time.Duration

	Address string
	Port    int

	// LogLevel overrides LOG_LEVEL.
	LogLevel string
}

// Environment variables read by ConfigFromEnv.
const (
	EnvData            = "SECTION_BROKER_DATA"
	EnvPlugins         = "SECTION_BROKER_PLUGINS"
	EnvHosts           = "SECTION_BROKER_HOSTS"
	EnvLabelsDir       = "SECTION_BROKER_LABELS_DIR"
	EnvRefreshInterval = "SECTION_BROKER_REFRESH_INTERVAL"
	EnvDebug           = "SECTION_BROKER_DEBUG"
)

// ConfigFromEnv builds a Config from SECTION_BROKER_* variables. The data
// location defaults to the working directory; hosts are comma separated.
// The listen port comes from PORT via the server package.
func ConfigFromEnv() Config {
	cfg := Config{
		Cycle: cycle.Config{
			Location:     os.Getenv(EnvData),
			PluginConfig: os.Getenv(EnvPlugins),
		},
		LabelsDir: os.Getenv(EnvLabelsDir),
	}
	if cfg.Cycle.Location == "" {
		cfg.Cycle.Location = "."
	}
	for _, h := range strings.Split(os.Getenv(EnvHosts), ",") {
		if h = strings.TrimSpace(h); h != "" {
			cfg.Cycle.Hosts = append(cfg.Cycle.Hosts, h)
		}
	}
	if v := os.Getenv(EnvRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("ignoring invalid refresh interval", "value", v, "error", err)
		} else {
			cfg.RefreshInterval = d
		}
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvDebug)); err == nil {
		cfg.Cycle.Debug = v
	}
	return cfg
}

// Serve starts the API server and blocks until shutdown.
// The first cycle runs in the background; /ready reports 503 until it completes.
func Serve(ctx context.Context, cfg Config) error {
	level := cfg.LogLevel
	if level == "" {
		level = os.Getenv(logging.EnvLogLevel)
	}
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// New assembles the server and its backend without starting either.
func New(ctx context.Context, cfg Config) (*server.Server, error) {
	setup, err := cfg.Cycle.Build(ctx)
	if err != nil {
		return nil, err
	}

	opts := []BackendOption{
		WithDiscoverer(setup.Discoverer()),
		WithRefreshInterval(cfg.RefreshInterval),
		WithVersion(version),
	}
	if cfg.LabelsDir != "" {
		opts = append(opts, WithStore(hostlabel.NewStore(cfg.LabelsDir)))
	}
	backend := NewBackend(setup.Run, opts...)

	serverOpts := []server.Option{
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(backend.Routes()),
		server.WithReadiness(backend.Ready),
		server.WithBackground(backend.Run),
	}
	if cfg.Address != "" || cfg.Port > 0 {
		serverOpts = append(serverOpts, server.WithAddress(cfg.Address, cfg.Port))
	}
	return server.New(serverOpts...), nil
}

// Version returns the build version.
func Version() string {
	return version
}
