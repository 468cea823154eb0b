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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
)

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "labels"))

	labels, err := s.Load("n1")
	require.NoError(t, err)
	assert.Empty(t, labels)

	want := []HostLabel{{Name: "os", Value: "linux", ProducingSection: "uname"}}
	require.NoError(t, s.Save("n1", want))

	got, err := s.Load("n1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	all, err := s.LoadAll([]string{"n1", "n2"})
	require.NoError(t, err)
	assert.Equal(t, want, all["n1"])
	assert.Empty(t, all["n2"])

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_InvalidHostname(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, h := range []string{"", "..", "a/b", `a\b`} {
		err := s.Save(h, nil)
		require.Error(t, err, h)
		assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
	}
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "n1.yaml"), []byte("labels: [::"), 0o600))
	_, err := NewStore(dir).Load("n1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}
