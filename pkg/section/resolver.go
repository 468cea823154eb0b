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

package section

import (
	"context"
	"slices"
)

// Resolver picks, for each logical section, the single producer whose data
// wins under the supersedes protocol, and memoizes the outcome. It is not
// safe for concurrent use; build one per host per cycle.
type Resolver struct {
	superseders map[RawSectionID][]Plugin
	producers   map[ParsedSectionID][]Plugin
	memo        map[ParsedSectionID]*ResolvedResult
}

// NewResolver indexes plugins. Plugin order is the tie-break between
// producers of the same logical section.
func NewResolver(plugins []Plugin) *Resolver {
	r := &Resolver{
		superseders: make(map[RawSectionID][]Plugin),
		producers:   make(map[ParsedSectionID][]Plugin),
		memo:        make(map[ParsedSectionID]*ResolvedResult),
	}
	for _, p := range plugins {
		for _, superseded := range p.Supersedes {
			r.superseders[superseded] = append(r.superseders[superseded], p)
		}
		produces := p.Produces()
		r.producers[produces] = append(r.producers[produces], p)
	}
	return r
}

// Produces returns the logical section the plugin supplies, defaulting to
// its raw section name.
func (p Plugin) Produces() ParsedSectionID {
	if p.ParsedName == "" {
		return ParsedSectionID(p.Name)
	}
	return p.ParsedName
}

// Resolve returns the winning producer's parsed data for id, or nil if no
// producer yields a result. Errors are only the fatal ones passed through
// from the parser; they are never memoized.
func (r *Resolver) Resolve(ctx context.Context, parser SectionParser, id ParsedSectionID) (*ResolvedResult, error) {
	if res, ok := r.memo[id]; ok {
		return res, nil
	}

	for _, producer := range r.producers[id] {
		// Superseders run first so a winning one disables producer before
		// producer gets a chance to parse.
		for _, superseder := range r.superseders[producer.Name] {
			parsed, err := parser.Parse(ctx, superseder)
			if err != nil {
				return nil, err
			}
			if parsed != nil {
				parser.Disable(superseder.Supersedes...)
				sectionSupersededTotal.Add(float64(len(superseder.Supersedes)))
			}
		}

		parsed, err := parser.Parse(ctx, producer)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			res := &ResolvedResult{Parsed: parsed, Producer: producer}
			r.memo[id] = res
			sectionResolveTotal.WithLabelValues(outcomeResolved).Inc()
			return res, nil
		}
	}

	r.memo[id] = nil
	sectionResolveTotal.WithLabelValues(outcomeUnresolved).Inc()
	return nil, nil
}

// ParsedSectionIDs returns every logical section some plugin produces, sorted.
func (r *Resolver) ParsedSectionIDs() []ParsedSectionID {
	ids := make([]ParsedSectionID, 0, len(r.producers))
	for id := range r.producers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Producers returns the registered producers of id in tie-break order.
func (r *Resolver) Producers(id ParsedSectionID) []Plugin {
	return slices.Clone(r.producers[id])
}
