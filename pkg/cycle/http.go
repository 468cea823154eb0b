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
	"net/url"
	"strings"

	"github.com/NVIDIA/section-broker/pkg/agent"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/section"
	"github.com/NVIDIA/section-broker/pkg/serializer"
)

// HTTPSource fetches agent output from a web server using the same layout as
// FileSource: <base>/<host>.txt and <base>/<host>.mgmt.txt. A 404 means the
// host has no data.
type HTTPSource struct {
	BaseURL string
	Reader  *serializer.HttpReader
}

// NewHTTPSource returns an HTTPSource for baseURL with a default reader.
func NewHTTPSource(baseURL string, opts ...serializer.HttpReaderOption) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Reader:  serializer.NewHttpReader(opts...),
	}
}

// URL returns the location of the agent output of host.
func (s *HTTPSource) URL(host section.HostKey) (string, error) {
	if host.Hostname == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "hostname is required")
	}
	suffix := hostFileSuffix
	switch host.SourceType {
	case section.SourceHost:
	case section.SourceManagement:
		suffix = managementFileSuffix
	default:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown source type",
			map[string]any{"sourceType": host.SourceType.String()})
	}
	return s.BaseURL + "/" + url.PathEscape(host.Hostname) + suffix, nil
}

// Fetch downloads and decodes the agent output of host.
func (s *HTTPSource) Fetch(ctx context.Context, host section.HostKey) (*section.RawSections, error) {
	u, err := s.URL(host)
	if err != nil {
		return nil, err
	}
	data, err := s.Reader.ReadWithContext(ctx, u)
	if err != nil {
		if errors.Is(err, serializer.ErrNotFound) {
			return nil, ErrNoData
		}
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to fetch agent output", err,
			map[string]any{"url": u})
	}
	return agent.DecodeBytes(data)
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location)
	}
	return NewFileSource(location)
}
