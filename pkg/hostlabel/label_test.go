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

package hostlabel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	existing := []HostLabel{
		{Name: "os", Value: "linux", ProducingSection: "uname"},
		{Name: "gpu", Value: "a100", ProducingSection: "nvidia"},
	}
	current := []HostLabel{
		{Name: "os", Value: "linux-6", ProducingSection: "uname"},
		{Name: "role", Value: "worker", ProducingSection: "k8s"},
	}

	got := Diff(existing, current)

	assert.Equal(t, []HostLabel{{Name: "gpu", Value: "a100", ProducingSection: "nvidia"}}, got.Vanished)
	// the persisted value wins for labels present in both sets
	assert.Equal(t, []HostLabel{{Name: "os", Value: "linux", ProducingSection: "uname"}}, got.Old)
	assert.Equal(t, []HostLabel{{Name: "role", Value: "worker", ProducingSection: "k8s"}}, got.New)
	assert.Equal(t, []HostLabel{
		{Name: "os", Value: "linux", ProducingSection: "uname"},
		{Name: "role", Value: "worker", ProducingSection: "k8s"},
	}, got.Present())
}

func TestDiff_KeepsOldValue(t *testing.T) {
	got := Diff([]HostLabel{{Name: "x", Value: "old"}}, []HostLabel{{Name: "x", Value: "new"}})

	assert.Equal(t, []HostLabel{{Name: "x", Value: "old"}}, got.Old)
	assert.Empty(t, got.New)
	assert.Empty(t, got.Vanished)
}

func TestDiff_Empty(t *testing.T) {
	got := Diff(nil, nil)
	assert.Empty(t, got.Vanished)
	assert.Empty(t, got.Old)
	assert.Empty(t, got.New)
	assert.Empty(t, got.Present())

	got = Diff(nil, []HostLabel{{Name: "a", Value: "1"}})
	assert.Equal(t, []HostLabel{{Name: "a", Value: "1"}}, got.New)

	got = Diff([]HostLabel{{Name: "a", Value: "1"}}, nil)
	assert.Equal(t, []HostLabel{{Name: "a", Value: "1"}}, got.Vanished)
}

func TestDiff_DuplicateNamesLastWins(t *testing.T) {
	current := []HostLabel{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "x"},
		{Name: "a", Value: "2"},
	}
	got := Diff(nil, current)
	assert.Equal(t, []HostLabel{{Name: "a", Value: "2"}, {Name: "b", Value: "x"}}, got.New)
}

func TestMergeNodes(t *testing.T) {
	node1 := DiffResult{
		Old: []HostLabel{{Name: "zone", Value: "a"}},
		New: []HostLabel{{Name: "gpu", Value: "a100"}},
	}
	node2 := DiffResult{
		Vanished: []HostLabel{{Name: "legacy", Value: "yes"}},
		New:      []HostLabel{{Name: "zone", Value: "b"}},
	}

	got := MergeNodes([]DiffResult{node1, node2})
	assert.Equal(t, []HostLabel{
		{Name: "zone", Value: "b"},
		{Name: "gpu", Value: "a100"},
	}, got)

	assert.Empty(t, MergeNodes(nil))
}
