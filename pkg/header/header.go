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
	"time"
)

// APIVersion is the API group and version of every document this module emits.
const APIVersion = "sectionbroker.nvidia.com/v1alpha1"

// Kind represents the type of an emitted document.
type Kind string

const (
	KindCycleReport   Kind = "CycleReport"
	KindSectionResult Kind = "SectionResult"
	KindAvailability  Kind = "Availability"
	KindCacheInfo     Kind = "CacheInfo"
	KindParsingErrors Kind = "ParsingErrors"
	KindHostLabels    Kind = "HostLabels"
	KindClusterLabels Kind = "ClusterLabels"
)

const (
	metadataTimestamp = "timestamp"
	metadataVersion   = "version"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindCycleReport, KindSectionResult, KindAvailability, KindCacheInfo,
		KindParsingErrors, KindHostLabels, KindClusterLabels:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata sets a metadata key.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the document kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithVersion records the version of the tool that produced the document.
func WithVersion(version string) Option {
	return func(h *Header) {
		if version == "" {
			return
		}
		WithMetadata(metadataVersion, version)(h)
	}
}

// New creates a Header stamped with APIVersion and the current UTC time.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata: map[string]string{
			metadataTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header is embedded inline at the top of every emitted document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as the creation timestamp.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
