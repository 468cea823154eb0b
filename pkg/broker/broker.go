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

package broker

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// HostPair binds the resolver and parser of one host for one cycle.
type HostPair struct {
	Host     section.HostKey
	Resolver *section.Resolver
	Parser   *section.Parser
}

// NewHostPair builds a fresh resolver/parser pair over raw.
func NewHostPair(host section.HostKey, raw *section.RawSections, plugins []section.Plugin, opts ...section.Option) HostPair {
	return HostPair{
		Host:     host,
		Resolver: section.NewResolver(plugins),
		Parser:   section.NewParser(host, raw, opts...),
	}
}

// Broker is the consumer-facing query surface over the resolver/parser pairs
// of every host in one cycle. Calls for the same host must not run
// concurrently.
type Broker struct {
	hosts []section.HostKey
	pairs map[section.HostKey]HostPair
}

// New creates a Broker over pairs. Host iteration order is the order given;
// a repeated host keeps its first pair.
func New(pairs ...HostPair) *Broker {
	b := &Broker{
		hosts: make([]section.HostKey, 0, len(pairs)),
		pairs: make(map[section.HostKey]HostPair, len(pairs)),
	}
	for _, p := range pairs {
		if _, exists := b.pairs[p.Host]; exists {
			slog.Warn("duplicate host pair ignored", slog.String("host", p.Host.String()))
			continue
		}
		b.hosts = append(b.hosts, p.Host)
		b.pairs[p.Host] = p
	}
	return b
}

// Hosts returns the known host keys in iteration order.
func (b *Broker) Hosts() []section.HostKey {
	return append([]section.HostKey(nil), b.hosts...)
}

// ParsedSectionIDs returns the logical sections the given host can resolve.
func (b *Broker) ParsedSectionIDs(host section.HostKey) []section.ParsedSectionID {
	p, ok := b.pairs[host]
	if !ok {
		return nil
	}
	return p.Resolver.ParsedSectionIDs()
}

// Resolve returns the resolved result for id on host, or nil when the host
// is unknown or nothing resolves.
func (b *Broker) Resolve(ctx context.Context, host section.HostKey, id section.ParsedSectionID) (*section.ResolvedResult, error) {
	p, ok := b.pairs[host]
	if !ok {
		return nil, nil
	}
	return p.Resolver.Resolve(ctx, p.Parser, id)
}

// ParsedSection returns the parsed data for id on host. ok is false when the
// host is unknown or nothing resolves.
func (b *Broker) ParsedSection(ctx context.Context, host section.HostKey, id section.ParsedSectionID) (data any, ok bool, err error) {
	res, err := b.Resolve(ctx, host, id)
	if err != nil || res == nil {
		return nil, false, err
	}
	return res.Parsed.Data, true, nil
}

// FilterAvailable returns the ids that resolve for at least one host of the
// given source type.
func (b *Broker) FilterAvailable(ctx context.Context, ids []section.ParsedSectionID, sourceType section.SourceType) (map[section.ParsedSectionID]struct{}, error) {
	available := make(map[section.ParsedSectionID]struct{})
	for _, host := range b.hosts {
		if host.SourceType != sourceType {
			continue
		}
		p := b.pairs[host]
		for _, id := range ids {
			res, err := p.Resolver.Resolve(ctx, p.Parser, id)
			if err != nil {
				return nil, err
			}
			if res != nil {
				available[id] = struct{}{}
			}
		}
	}
	return available, nil
}

// CacheInfo resolves every id on every host and aggregates the cache info of
// the backing raw sections into the oldest timestamp and the largest max
// age. It returns nil when no resolved section carries cache info.
func (b *Broker) CacheInfo(ctx context.Context, ids []section.ParsedSectionID) (*section.CacheInfo, error) {
	var agg *section.CacheInfo
	for _, host := range b.hosts {
		p := b.pairs[host]
		for _, id := range ids {
			res, err := p.Resolver.Resolve(ctx, p.Parser, id)
			if err != nil {
				return nil, err
			}
			if res == nil || res.Parsed.CacheInfo == nil {
				continue
			}
			ci := *res.Parsed.CacheInfo
			if agg == nil {
				agg = &ci
				continue
			}
			agg.Timestamp = min(agg.Timestamp, ci.Timestamp)
			agg.MaxAge = max(agg.MaxAge, ci.MaxAge)
		}
	}
	return agg, nil
}

// ParsingErrors concatenates the parse failures of every host in iteration order.
func (b *Broker) ParsingErrors() []string {
	var out []string
	for _, host := range b.hosts {
		out = append(out, b.pairs[host].Parser.ParsingErrors()...)
	}
	return out
}

// Errors returns the structured parse failures of every host in iteration order.
func (b *Broker) Errors() []*apperrors.StructuredError {
	var out []*apperrors.StructuredError
	for _, host := range b.hosts {
		out = append(out, b.pairs[host].Parser.Errors()...)
	}
	return out
}

// Get returns the parsed data for id on host as a T. A resolved value of a
// different type is reported as an error, not as absence.
func Get[T any](ctx context.Context, b *Broker, host section.HostKey, id section.ParsedSectionID) (T, bool, error) {
	var zero T
	data, ok, err := b.ParsedSection(ctx, host, id)
	if err != nil || !ok {
		return zero, false, err
	}
	typed, isT := data.(T)
	if !isT {
		return zero, false, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("section %s holds %T", id, data),
			map[string]any{"host": host.String(), "section": id.String()})
	}
	return typed, true, nil
}
