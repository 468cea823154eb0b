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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/section-broker/pkg/section"
)

func TestParseTable(t *testing.T) {
	rows := section.StringTable{{"a", "b"}, {"c"}}
	got, err := ParseTable(rows)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = ParseTable(nil)
	require.Error(t, err)
}

func TestParseKV(t *testing.T) {
	got, err := ParseKV(section.StringTable{
		{"Version:", "2.3.0"},
		{"AgentOS:", "linux"},
		{"Hostname", "node", "one"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Version":  "2.3.0",
		"AgentOS":  "linux",
		"Hostname": "node one",
	}, got)

	_, err = ParseKV(section.StringTable{{"lonely"}})
	require.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON(section.StringTable{{`{"gpus":`}, {`[1,`, `2]}`}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"gpus": []any{1.0, 2.0}}, got)

	_, err = ParseJSON(section.StringTable{{"{"}})
	require.Error(t, err)
}

func TestParserByName(t *testing.T) {
	for _, name := range ParserNames() {
		fn, ok := ParserByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	_, ok := ParserByName("xml")
	assert.False(t, ok)
	assert.Equal(t, []string{"json", "kv", "table"}, ParserNames())
}
