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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
)

const storeFileExt = ".yaml"

// Store persists the labels of each host as one YAML document per host.
type Store struct {
	Dir string
}

type storeFile struct {
	Host   string      `yaml:"host"`
	Labels []HostLabel `yaml:"labels"`
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(hostname string) (string, error) {
	if hostname == "" || strings.ContainsAny(hostname, `/\`) || hostname == "." || hostname == ".." {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid hostname",
			map[string]any{"host": hostname})
	}
	return filepath.Join(s.Dir, hostname+storeFileExt), nil
}

// Load returns the persisted labels of hostname. A host that was never saved
// has no labels.
func (s *Store) Load(hostname string) ([]HostLabel, error) {
	p, err := s.path(hostname)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to read host labels", err)
	}

	var f storeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "corrupt host label file", err,
			map[string]any{"path": p})
	}
	return f.Labels, nil
}

// LoadAll loads the persisted labels of each host in hostnames.
func (s *Store) LoadAll(hostnames []string) (map[string][]HostLabel, error) {
	out := make(map[string][]HostLabel, len(hostnames))
	for _, h := range hostnames {
		labels, err := s.Load(h)
		if err != nil {
			return nil, err
		}
		out[h] = labels
	}
	return out, nil
}

// Save replaces the persisted labels of hostname.
func (s *Store) Save(hostname string, labels []HostLabel) error {
	p, err := s.path(hostname)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create host label directory", err)
	}

	data, err := yaml.Marshal(storeFile{Host: hostname, Labels: labels})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode host labels", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+hostname+"-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write host labels", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write host labels", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to store labels for %s", hostname), err)
	}
	return nil
}
