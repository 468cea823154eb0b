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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/hostlabel"
	"github.com/NVIDIA/section-broker/pkg/section"
)

const testConfig = `
sections:
  - name: uname
    parser: kv
  - name: uname_v2
    parsed_name: uname
    parser: kv
    supersedes: [uname]
  - name: df
host_labels:
  - section: uname
    key: os
    label: os_family
disabled_sections: [df]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(testConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 3)
	require.Len(t, cfg.HostLabels, 1)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	plugins := reg.Plugins()
	require.Len(t, plugins, 3)
	assert.Equal(t, section.ParsedSectionID("uname"), plugins[1].ParsedName)
	assert.Equal(t, []section.RawSectionID{"uname"}, plugins[1].Supersedes)
	assert.NotNil(t, plugins[2].Parse, "parser defaults to table")
	assert.Equal(t, []section.RawSectionID{"df"}, cfg.Disabled())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "sections:\n  - name: a\n    colour: red\n"},
		{"malformed", "sections: [::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidPlugin, apperrors.CodeOf(err))
		})
	}
}

func TestConfig_RegistryErrors(t *testing.T) {
	cfg := &Config{Sections: []SectionConfig{{Name: "a", Parser: "xml"}}}
	_, err := cfg.Registry()
	require.Error(t, err)

	cfg = &Config{Sections: []SectionConfig{
		{Name: "a", Supersedes: []string{"b"}},
		{Name: "b", Supersedes: []string{"a"}},
	}}
	_, err = cfg.Registry()
	require.Error(t, err)
}

func TestConfig_LabelFunctions(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(testConfig))
	require.NoError(t, err)

	fns, err := cfg.LabelFunctions()
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Equal(t, section.ParsedSectionID("uname"), fns[0].Section)

	labels, err := fns[0].Labels(map[string]string{"os": "linux"})
	require.NoError(t, err)
	assert.Equal(t, []hostlabel.HostLabel{{Name: "os_family", Value: "linux"}}, labels)

	labels, err = fns[0].Labels(map[string]string{"kernel": "6.1"})
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = fns[0].Labels(section.StringTable{})
	require.Error(t, err)

	bad := &Config{HostLabels: []HostLabelConfig{{Section: "uname"}}}
	_, err = bad.LabelFunctions()
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := LoadConfig(t.Context(), path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sections, 3)

	jsonPath := filepath.Join(t.TempDir(), "plugins.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`{"sections":[{"name":"mem","parser":"kv"}],"host_labels":[{"section":"mem","key":"k","label":"l"}]}`), 0o600))
	cfg, err = LoadConfig(t.Context(), jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []SectionConfig{{Name: "mem", Parser: "kv"}}, cfg.Sections)
	assert.Len(t, cfg.HostLabels, 1)

	_, err = LoadConfig(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidPlugin, apperrors.CodeOf(err))
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Contains(t, reg.ParsedSectionIDs(), section.ParsedSectionID("df"))

	fns, err := cfg.LabelFunctions()
	require.NoError(t, err)
	assert.NotEmpty(t, fns)
}
