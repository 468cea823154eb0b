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

package plugin

import (
	"fmt"
	"sync"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// Registry holds section plugins in registration order. The order is the
// tie-break order used when several plugins produce the same parsed section.
type Registry struct {
	plugins []section.Plugin
	byName  map[section.RawSectionID]int

	mu sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[section.RawSectionID]int),
	}
}

// Register adds p to the registry. ParsedName defaults to Name.
func (r *Registry) Register(p section.Plugin) error {
	if p.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidPlugin, "plugin name is required")
	}
	for _, s := range p.Supersedes {
		if s == p.Name {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidPlugin, "plugin supersedes itself",
				map[string]any{"plugin": p.Name.String()})
		}
	}
	if p.ParsedName == "" {
		p.ParsedName = section.ParsedSectionID(p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[p.Name]; ok {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidPlugin, "plugin already registered",
			map[string]any{"plugin": p.Name.String()})
	}
	r.byName[p.Name] = len(r.plugins)
	r.plugins = append(r.plugins, p)
	return nil
}

// MustRegister is Register that panics on error. Intended for built-in sets.
func (r *Registry) MustRegister(plugins ...section.Plugin) {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Get returns the plugin named name.
func (r *Registry) Get(name section.RawSectionID) (section.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return section.Plugin{}, false
	}
	return r.plugins[i], true
}

// Plugins returns a copy of the registered plugins in registration order.
func (r *Registry) Plugins() []section.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]section.Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ParsedSectionIDs returns every parsed section some plugin produces, sorted.
func (r *Registry) ParsedSectionIDs() []section.ParsedSectionID {
	return section.NewResolver(r.Plugins()).ParsedSectionIDs()
}

// Filter returns the parsed section ids matching any of patterns.
// An empty pattern list selects everything.
func (r *Registry) Filter(patterns []string) []section.ParsedSectionID {
	return section.Select(r.ParsedSectionIDs(), patterns)
}

// Validate checks that no chain of supersedes relations leads back to the
// plugin it started from. Supersedes entries naming unregistered sections
// are allowed.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[section.RawSectionID]int, len(r.plugins))

	var visit func(name section.RawSectionID, path []section.RawSectionID) error
	visit = func(name section.RawSectionID, path []section.RawSectionID) error {
		switch state[name] {
		case visiting:
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidPlugin, "supersedes cycle detected",
				map[string]any{"cycle": fmt.Sprint(append(path, name))})
		case done:
			return nil
		}
		i, ok := r.byName[name]
		if !ok {
			return nil
		}
		state[name] = visiting
		for _, next := range r.plugins[i].Supersedes {
			if err := visit(next, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, p := range r.plugins {
		if err := visit(p.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
