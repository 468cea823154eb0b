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

package cycle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/section-broker/pkg/broker"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
	"github.com/NVIDIA/section-broker/pkg/plugin"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// HostLister is implemented by sources that can enumerate their hosts.
type HostLister interface {
	Hosts() ([]section.HostKey, error)
}

// Config describes where a cycle reads from and which plugins it runs.
type Config struct {
	// Location is a data directory or an http(s) base URL.
	Location string

	// PluginConfig is a plugin config file or URL. Empty uses the built-in config.
	PluginConfig string

	// Hosts are "hostname" or "hostname/management" entries. Empty lists
	// every host the source holds.
	Hosts []string

	Concurrency  int
	FetchTimeout time.Duration
	Debug        bool
}

// Setup is a Config resolved into a runner and host label functions.
type Setup struct {
	Runner *Runner
	Labels []hostlabel.Function

	hosts []string
}

// Build loads the plugin config and assembles the Setup.
func (c Config) Build(ctx context.Context) (*Setup, error) {
	if c.Location == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "data location is required")
	}

	var (
		pcfg *plugin.Config
		err  error
	)
	if c.PluginConfig == "" {
		pcfg, err = plugin.DefaultConfig()
	} else {
		pcfg, err = plugin.LoadConfig(ctx, c.PluginConfig)
	}
	if err != nil {
		return nil, err
	}

	reg, err := pcfg.Registry()
	if err != nil {
		return nil, err
	}
	labels, err := pcfg.LabelFunctions()
	if err != nil {
		return nil, err
	}

	slog.Debug("cycle setup",
		slog.String("location", c.Location),
		slog.Int("plugins", reg.Count()),
		slog.Int("labelFunctions", len(labels)))

	return &Setup{
		Runner: &Runner{
			Source:       NewSource(c.Location),
			Plugins:      reg.Plugins(),
			Concurrency:  c.Concurrency,
			FetchTimeout: c.FetchTimeout,
			Debug:        c.Debug,
			Disabled:     pcfg.Disabled(),
		},
		Labels: labels,
		hosts:  c.Hosts,
	}, nil
}

// Run resolves the host list and runs one cycle.
func (s *Setup) Run(ctx context.Context) (*broker.Broker, error) {
	hosts, err := ResolveHosts(s.Runner.Source, s.hosts)
	if err != nil {
		return nil, err
	}
	return s.Runner.Run(ctx, hosts)
}

// Discoverer returns a host label discoverer over the configured functions.
func (s *Setup) Discoverer() *hostlabel.Discoverer {
	return &hostlabel.Discoverer{Functions: s.Labels, Debug: s.Runner.Debug}
}

// ResolveHosts parses names, or lists the hosts of src when names is empty.
func ResolveHosts(src Source, names []string) ([]section.HostKey, error) {
	if len(names) == 0 {
		lister, ok := src.(HostLister)
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "hosts must be listed explicitly for this source")
		}
		return lister.Hosts()
	}

	hosts := make([]section.HostKey, 0, len(names))
	for _, name := range names {
		host, err := ParseHostKey(name)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// ParseHostKey parses "hostname" or "hostname/sourcetype".
func ParseHostKey(s string) (section.HostKey, error) {
	name, st, found := strings.Cut(strings.TrimSpace(s), "/")
	if name == "" {
		return section.HostKey{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "empty hostname",
			map[string]any{"host": s})
	}
	if !found {
		return section.HostKey{Hostname: name, SourceType: section.SourceHost}, nil
	}
	sourceType, ok := section.ParseSourceType(st)
	if !ok {
		return section.HostKey{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid source type",
			map[string]any{"host": s, "supported": section.SourceTypes})
	}
	return section.HostKey{Hostname: name, SourceType: sourceType}, nil
}
