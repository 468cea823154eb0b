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
	"sync"
	"time"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/defaults"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
)

// CycleFunc runs one monitoring cycle and returns its broker.
type CycleFunc func(ctx context.Context) (*broker.Broker, error)

// Backend owns the broker of the most recent successful cycle. The broker is
// not safe for concurrent use, so every call into it holds mu.
type Backend struct {
	cycle      CycleFunc
	discoverer *hostlabel.Discoverer
	store      *hostlabel.Store
	interval   time.Duration
	version    string

	mu        sync.Mutex
	broker    *broker.Broker
	refreshed time.Time
	lastErr   error
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithDiscoverer sets the host label discoverer. Without one, label routes
// report no labels.
func WithDiscoverer(d *hostlabel.Discoverer) BackendOption {
	return func(b *Backend) {
		b.discoverer = d
	}
}

// WithStore sets where previously persisted host labels are read from.
func WithStore(s *hostlabel.Store) BackendOption {
	return func(b *Backend) {
		b.store = s
	}
}

// WithRefreshInterval sets how often Run replaces the cycle.
func WithRefreshInterval(d time.Duration) BackendOption {
	return func(b *Backend) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithVersion sets the version stamped on served documents.
func WithVersion(v string) BackendOption {
	return func(b *Backend) {
		b.version = v
	}
}

// NewBackend creates a Backend that runs cycle on every refresh.
func NewBackend(cycle CycleFunc, opts ...BackendOption) *Backend {
	b := &Backend{
		cycle:      cycle,
		discoverer: &hostlabel.Discoverer{},
		interval:   defaults.RefreshInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Refresh runs a cycle and swaps in its broker. On failure the previous
// broker keeps serving.
func (b *Backend) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.CycleTimeout)
	defer cancel()

	next, err := b.cycle(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.lastErr = err
		return err
	}
	b.broker = next
	b.refreshed = time.Now()
	b.lastErr = nil
	return nil
}

// Run refreshes immediately and then on every interval until ctx is done.
// A failed refresh is logged and retried on the next tick.
func (b *Backend) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
			slog.Error("cycle refresh failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ready reports whether a cycle has completed.
func (b *Backend) Ready() (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broker != nil {
		return true, ""
	}
	if b.lastErr != nil {
		return false, "cycle failed: " + b.lastErr.Error()
	}
	return false, "first cycle pending"
}

// withBroker calls fn with the current broker while holding the lock.
func (b *Backend) withBroker(fn func(*broker.Broker) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broker == nil {
		return apperrors.New(apperrors.ErrCodeUnavailable, "no completed cycle")
	}
	return fn(b.broker)
}

func (b *Backend) previousLabels(hostnames ...string) (map[string][]hostlabel.HostLabel, error) {
	if b.store == nil {
		return map[string][]hostlabel.HostLabel{}, nil
	}
	return b.store.LoadAll(hostnames)
}
