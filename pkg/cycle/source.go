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
	"sort"
	"strings"

	"github.com/NVIDIA/section-broker/pkg/agent"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// ErrNoData reports that a source holds no agent output for a host.
var ErrNoData = errors.New("no agent data")

// Source supplies the raw sections of a host for one cycle.
type Source interface {
	Fetch(ctx context.Context, host section.HostKey) (*section.RawSections, error)
}

const (
	hostFileSuffix       = ".txt"
	managementFileSuffix = ".mgmt.txt"
)

// FileSource reads stored agent output from a directory. Host data lives in
// <dir>/<host>.txt, management board data in <dir>/<host>.mgmt.txt.
type FileSource struct {
	Dir string
}

// NewFileSource returns a FileSource reading from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Path returns the file holding the agent output of host.
func (s *FileSource) Path(host section.HostKey) (string, error) {
	name := host.Hostname
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid hostname",
			map[string]any{"host": name})
	}
	switch host.SourceType {
	case section.SourceHost:
		return filepath.Join(s.Dir, name+hostFileSuffix), nil
	case section.SourceManagement:
		return filepath.Join(s.Dir, name+managementFileSuffix), nil
	default:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown source type",
			map[string]any{"sourceType": host.SourceType.String()})
	}
}

// Fetch decodes the stored output of host. A missing file yields ErrNoData.
func (s *FileSource) Fetch(ctx context.Context, host section.HostKey) (*section.RawSections, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}
	path, err := s.Path(host)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoData
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to read agent output", err,
			map[string]any{"path": path})
	}
	return agent.DecodeBytes(data)
}

// Hosts lists the hosts with stored output, sorted by hostname with the
// host source before the management source.
func (s *FileSource) Hosts() ([]section.HostKey, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to list data directory", err,
			map[string]any{"dir": s.Dir})
	}

	var hosts []section.HostKey
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, managementFileSuffix):
			hosts = append(hosts, section.HostKey{
				Hostname:   strings.TrimSuffix(name, managementFileSuffix),
				SourceType: section.SourceManagement,
			})
		case strings.HasSuffix(name, hostFileSuffix):
			hosts = append(hosts, section.HostKey{
				Hostname:   strings.TrimSuffix(name, hostFileSuffix),
				SourceType: section.SourceHost,
			})
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Hostname != hosts[j].Hostname {
			return hosts[i].Hostname < hosts[j].Hostname
		}
		return hosts[i].SourceType == section.SourceHost && hosts[j].SourceType != section.SourceHost
	})
	return hosts, nil
}
