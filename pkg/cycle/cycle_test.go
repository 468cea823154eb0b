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

package cycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/header"
	"github.com/NVIDIA/section-broker/pkg/section"
)

var (
	hostA = section.HostKey{Hostname: "a", SourceType: section.SourceHost}
	mgmtA = section.HostKey{Hostname: "a", SourceType: section.SourceManagement}
	hostB = section.HostKey{Hostname: "b", SourceType: section.SourceHost}
)

func rowsPlugin(name section.RawSectionID) section.Plugin {
	return section.Plugin{
		Name: name,
		Parse: func(rows section.StringTable) (any, error) {
			if len(rows) == 0 {
				return nil, errors.New("empty")
			}
			return rows, nil
		},
	}
}

type fakeSource struct {
	mu      sync.Mutex
	data    map[section.HostKey]*section.RawSections
	errs    map[section.HostKey]error
	fetched []section.HostKey

	inflight, peak atomic.Int32
}

func (f *fakeSource) Fetch(ctx context.Context, host section.HostKey) (*section.RawSections, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.fetched = append(f.fetched, host)
	f.mu.Unlock()

	if err := f.errs[host]; err != nil {
		return nil, err
	}
	raw, ok := f.data[host]
	if !ok {
		return nil, ErrNoData
	}
	return raw, nil
}

func rawOf(sections map[section.RawSectionID]section.StringTable) *section.RawSections {
	r := section.NewRawSections()
	for k, v := range sections {
		r.Sections[k] = v
	}
	return r
}

func TestRunner_Run(t *testing.T) {
	src := &fakeSource{data: map[section.HostKey]*section.RawSections{
		hostB: rawOf(map[section.RawSectionID]section.StringTable{"mem": {{"total", "1"}}}),
		hostA: rawOf(map[section.RawSectionID]section.StringTable{"mem": {{"total", "2"}}}),
	}}
	r := &Runner{Source: src, Plugins: []section.Plugin{rowsPlugin("mem")}, Concurrency: 1}

	b, err := r.Run(t.Context(), []section.HostKey{hostB, mgmtA, hostA})
	require.NoError(t, err)

	// mgmtA has no data and is left out; order follows the input
	assert.Equal(t, []section.HostKey{hostB, hostA}, b.Hosts())
	assert.Len(t, src.fetched, 3)
	assert.LessOrEqual(t, src.peak.Load(), int32(1))

	data, ok, err := b.ParsedSection(t.Context(), hostA, "mem")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, section.StringTable{{"total", "2"}}, data)
}

func TestRunner_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	src := &fakeSource{
		data: map[section.HostKey]*section.RawSections{hostA: section.NewRawSections()},
		errs: map[section.HostKey]error{hostB: boom},
	}
	r := &Runner{Source: src}

	_, err := r.Run(t.Context(), []section.HostKey{hostA, hostB})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRunner_Debug(t *testing.T) {
	src := &fakeSource{data: map[section.HostKey]*section.RawSections{
		hostA: rawOf(map[section.RawSectionID]section.StringTable{"mem": {}}),
	}}

	b, err := (&Runner{Source: src, Plugins: []section.Plugin{rowsPlugin("mem")}}).Run(t.Context(), []section.HostKey{hostA})
	require.NoError(t, err)
	_, ok, err := b.ParsedSection(t.Context(), hostA, "mem")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, b.ParsingErrors(), 1)

	b, err = (&Runner{Source: src, Plugins: []section.Plugin{rowsPlugin("mem")}, Debug: true}).Run(t.Context(), []section.HostKey{hostA})
	require.NoError(t, err)
	_, _, err = b.ParsedSection(t.Context(), hostA, "mem")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeParseFailed, apperrors.CodeOf(err))
}

func TestRunner_Disabled(t *testing.T) {
	src := &fakeSource{data: map[section.HostKey]*section.RawSections{
		hostA: rawOf(map[section.RawSectionID]section.StringTable{"mem": {{"total", "2"}}, "df": {{"/", "1"}}}),
	}}
	r := &Runner{
		Source:   src,
		Plugins:  []section.Plugin{rowsPlugin("mem"), rowsPlugin("df")},
		Disabled: []section.RawSectionID{"mem"},
	}
	b, err := r.Run(t.Context(), []section.HostKey{hostA})
	require.NoError(t, err)

	_, ok, err := b.ParsedSection(t.Context(), hostA, "mem")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = b.ParsedSection(t.Context(), hostA, "df")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, b.ParsingErrors())
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("<<<mem>>>\ntotal 2\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mgmt.txt"), []byte("<<<ipmi:sep(124)>>>\nfan|ok\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(""), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	src := NewFileSource(dir)

	hosts, err := src.Hosts()
	require.NoError(t, err)
	assert.Equal(t, []section.HostKey{hostA, mgmtA, hostB}, hosts)

	raw, err := src.Fetch(t.Context(), hostA)
	require.NoError(t, err)
	assert.Equal(t, section.StringTable{{"total", "2"}}, raw.Sections["mem"])

	raw, err = src.Fetch(t.Context(), mgmtA)
	require.NoError(t, err)
	assert.Equal(t, section.StringTable{{"fan", "ok"}}, raw.Sections["ipmi"])

	_, err = src.Fetch(t.Context(), section.HostKey{Hostname: "missing", SourceType: section.SourceHost})
	require.ErrorIs(t, err, ErrNoData)

	_, err = src.Fetch(t.Context(), section.HostKey{Hostname: "../etc", SourceType: section.SourceHost})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = src.Fetch(ctx, hostA)
	require.ErrorIs(t, err, context.Canceled)

	_, err = NewFileSource(filepath.Join(dir, "nope")).Hosts()
	require.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	rawA := rawOf(map[section.RawSectionID]section.StringTable{
		"mem": {{"total", "2"}},
		"df":  {},
	})
	rawA.CacheInfo["mem"] = section.CacheInfo{Timestamp: 100, MaxAge: 60}
	src := &fakeSource{data: map[section.HostKey]*section.RawSections{
		hostA: rawA,
		hostB: rawOf(map[section.RawSectionID]section.StringTable{"mem": {{"total", "1"}}}),
	}}
	r := &Runner{Source: src, Plugins: []section.Plugin{rowsPlugin("mem"), rowsPlugin("df")}}
	b, err := r.Run(t.Context(), []section.HostKey{hostA, hostB})
	require.NoError(t, err)

	report, err := BuildReport(t.Context(), b, nil, "v0.1.0")
	require.NoError(t, err)

	assert.Equal(t, header.KindCycleReport, report.Kind)
	assert.Equal(t, "v0.1.0", report.Metadata["version"])
	assert.Equal(t, "2", report.Metadata["hosts"])
	require.Len(t, report.Hosts, 2)
	assert.Equal(t, "a", report.Hosts[0].Host)
	require.Len(t, report.Hosts[0].Sections, 1)
	assert.Equal(t, section.ParsedSectionID("mem"), report.Hosts[0].Sections[0].Name)
	assert.Equal(t, section.RawSectionID("mem"), report.Hosts[0].Sections[0].Producer)
	assert.Equal(t, &section.CacheInfo{Timestamp: 100, MaxAge: 60}, report.CacheInfo)
	assert.Len(t, report.ParsingErrors, 1)

	assert.Equal(t, []string{"HOST", "SOURCE", "SECTION", "PRODUCER", "CACHED"}, report.TableHeader())
	assert.Equal(t, [][]string{
		{"a", "host", "mem", "mem", "1970-01-01T00:01:40Z"},
		{"b", "host", "mem", "mem", "-"},
	}, report.TableRows())

	report, err = BuildReport(t.Context(), b, []section.ParsedSectionID{"df"}, "")
	require.NoError(t, err)
	for _, h := range report.Hosts {
		assert.Empty(t, h.Sections)
	}
	assert.Nil(t, report.CacheInfo)
}
