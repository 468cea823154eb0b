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
	"context"
	"fmt"
	"io"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
	"github.com/NVIDIA/section-broker/pkg/section"
	"github.com/NVIDIA/section-broker/pkg/serializer"
)

// Config describes section plugins and host label rules.
//
//	sections:
//	  - name: uname
//	    parser: kv
//	  - name: uname_v2
//	    parsed_name: uname
//	    parser: kv
//	    supersedes: [uname]
//	host_labels:
//	  - section: uname
//	    key: os
//	    label: cmk/os_family
type Config struct {
	Sections   []SectionConfig   `yaml:"sections" json:"sections"`
	HostLabels []HostLabelConfig `yaml:"host_labels,omitempty" json:"host_labels,omitempty"`

	// DisabledSections are never parsed on any host.
	DisabledSections []string `yaml:"disabled_sections,omitempty" json:"disabled_sections,omitempty"`
}

// SectionConfig declares one section plugin.
type SectionConfig struct {
	Name       string   `yaml:"name" json:"name"`
	ParsedName string   `yaml:"parsed_name,omitempty" json:"parsed_name,omitempty"`
	Supersedes []string `yaml:"supersedes,omitempty" json:"supersedes,omitempty"`
	Parser     string   `yaml:"parser,omitempty" json:"parser,omitempty"`
}

// HostLabelConfig derives label Label from the value of Key in the kv-parsed
// section Section.
type HostLabelConfig struct {
	Section string `yaml:"section" json:"section"`
	Key     string `yaml:"key" json:"key"`
	Label   string `yaml:"label" json:"label"`
}

// LoadConfig reads a plugin config from a local file or an HTTP(S) URL.
// The format (YAML or JSON) follows the extension. Unknown fields are rejected.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	cfg, err := serializer.FromFile[Config](ctx, path, serializer.WithStrict())
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidPlugin, "failed to load plugin config", err,
			map[string]any{"path": path})
	}
	return cfg, nil
}

// ParseConfig decodes a YAML plugin config. Unknown fields are rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	reader, err := serializer.NewReader(serializer.FormatYAML, r, serializer.WithStrict())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create config reader", err)
	}
	defer reader.Close()

	var cfg Config
	if err := reader.Deserialize(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPlugin, "invalid plugin config", err)
	}
	return &cfg, nil
}

// Registry builds a validated registry from the section declarations.
// A missing parser defaults to table.
func (c *Config) Registry() (*Registry, error) {
	reg := NewRegistry()
	for _, s := range c.Sections {
		parser := s.Parser
		if parser == "" {
			parser = ParserTable
		}
		fn, ok := ParserByName(parser)
		if !ok {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidPlugin, "unknown parser",
				map[string]any{"plugin": s.Name, "parser": parser, "available": ParserNames()})
		}

		p := section.Plugin{
			Name:       section.RawSectionID(s.Name),
			ParsedName: section.ParsedSectionID(s.ParsedName),
			Parse:      fn,
		}
		for _, sup := range s.Supersedes {
			p.Supersedes = append(p.Supersedes, section.RawSectionID(sup))
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Disabled returns the disabled raw section ids.
func (c *Config) Disabled() []section.RawSectionID {
	out := make([]section.RawSectionID, 0, len(c.DisabledSections))
	for _, name := range c.DisabledSections {
		out = append(out, section.RawSectionID(name))
	}
	return out
}

// LabelFunctions turns the host label rules into discovery functions.
func (c *Config) LabelFunctions() ([]hostlabel.Function, error) {
	fns := make([]hostlabel.Function, 0, len(c.HostLabels))
	for _, rule := range c.HostLabels {
		if rule.Section == "" || rule.Key == "" || rule.Label == "" {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidPlugin,
				"host label rule requires section, key and label",
				map[string]any{"section": rule.Section, "key": rule.Key, "label": rule.Label})
		}
		fns = append(fns, hostlabel.Function{
			Section: section.ParsedSectionID(rule.Section),
			Labels:  kvLabel(rule.Key, rule.Label),
		})
	}
	return fns, nil
}

func kvLabel(key, label string) hostlabel.LabelFunc {
	return func(parsed any) ([]hostlabel.HostLabel, error) {
		values, ok := parsed.(map[string]string)
		if !ok {
			return nil, fmt.Errorf("host label %s: expected kv section, got %T", label, parsed)
		}
		v, ok := values[key]
		if !ok {
			return nil, nil
		}
		return []hostlabel.HostLabel{{Name: label, Value: v}}, nil
	}
}
