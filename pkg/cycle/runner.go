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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/defaults"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// Runner executes one monitoring cycle: it fetches the raw sections of every
// host and binds them to a fresh broker.
type Runner struct {
	// Source supplies raw sections.
	Source Source

	// Plugins are the section plugins in tie-break order.
	Plugins []section.Plugin

	// Concurrency limits parallel fetches. Zero uses defaults.FetchConcurrency.
	Concurrency int

	// FetchTimeout bounds each host fetch. Zero uses defaults.FetchTimeout.
	FetchTimeout time.Duration

	// Debug makes parse failures surface as errors.
	Debug bool

	// Disabled raw sections are treated as absent on every host.
	Disabled []section.RawSectionID
}

// Run fetches hosts concurrently and, once every fetch has finished, builds a
// broker with one parser/resolver pair per host that has data, in the order
// of hosts. Hosts without data are left out. Any other fetch error fails the
// cycle.
//
// The returned broker belongs to this cycle only and is not safe for
// concurrent use.
func (r *Runner) Run(ctx context.Context, hosts []section.HostKey) (*broker.Broker, error) {
	start := time.Now()
	defer func() {
		cycleDuration.Observe(time.Since(start).Seconds())
	}()

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = defaults.FetchConcurrency
	}
	fetchTimeout := r.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaults.FetchTimeout
	}

	cycleID := uuid.NewString()
	slog.Debug("starting cycle", slog.String("cycle", cycleID), slog.Int("hosts", len(hosts)), slog.Int("concurrency", concurrency))

	// Each goroutine owns one slot.
	raws := make([]*section.RawSections, len(hosts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, host := range hosts {
		g.Go(func() error {
			fetchStart := time.Now()
			fctx, cancel := context.WithTimeout(gctx, fetchTimeout)
			defer cancel()

			raw, err := r.Source.Fetch(fctx, host)
			switch {
			case errors.Is(err, ErrNoData):
				fetchDuration.WithLabelValues("absent").Observe(time.Since(fetchStart).Seconds())
				slog.Debug("no data for host", slog.String("host", host.String()))
				return nil
			case err != nil:
				fetchDuration.WithLabelValues("error").Observe(time.Since(fetchStart).Seconds())
				slog.Error("failed to fetch host", slog.String("cycle", cycleID), slog.String("host", host.String()), slog.String("error", err.Error()))
				return fmt.Errorf("failed to fetch %s: %w", host, err)
			}
			fetchDuration.WithLabelValues("success").Observe(time.Since(fetchStart).Seconds())
			raws[i] = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		cycleTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pairs := make([]broker.HostPair, 0, len(hosts))
	for i, host := range hosts {
		if raws[i] == nil {
			continue
		}
		pair := broker.NewHostPair(host, raws[i], r.Plugins, section.WithDebug(r.Debug))
		pair.Parser.Disable(r.Disabled...)
		pairs = append(pairs, pair)
	}

	cycleTotal.WithLabelValues("success").Inc()
	cycleHosts.Set(float64(len(pairs)))
	slog.Debug("cycle complete", slog.String("cycle", cycleID), slog.Int("hosts", len(pairs)))

	return broker.New(pairs...), nil
}
