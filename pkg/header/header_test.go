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

package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New(WithKind(KindCycleReport), WithVersion("v1.2.3"), WithMetadata("hosts", "3"))

	assert.Equal(t, KindCycleReport, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "v1.2.3", h.Metadata["version"])
	assert.Equal(t, "3", h.Metadata["hosts"])

	ts, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestWithVersion_Empty(t *testing.T) {
	h := New(WithVersion(""))
	_, ok := h.Metadata["version"]
	assert.False(t, ok)
}

func TestKind_IsValid(t *testing.T) {
	for _, k := range []Kind{KindCycleReport, KindSectionResult, KindAvailability, KindCacheInfo,
		KindParsingErrors, KindHostLabels, KindClusterLabels} {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, Kind("Recipe").IsValid())
}
