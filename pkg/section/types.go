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

package section

import (
	"fmt"
	"slices"
)

// RawSectionID names one concrete, physically collected section.
type RawSectionID string

// String returns the string representation of the RawSectionID.
func (id RawSectionID) String() string {
	return string(id)
}

// ParsedSectionID names a logical data product that one or more raw
// sections can produce.
type ParsedSectionID string

// String returns the string representation of the ParsedSectionID.
func (id ParsedSectionID) String() string {
	return string(id)
}

// SourceType distinguishes the data sources of a single host.
type SourceType string

// String returns the string representation of the SourceType.
func (st SourceType) String() string {
	return string(st)
}

const (
	// SourceHost is data collected from the host itself.
	SourceHost SourceType = "host"
	// SourceManagement is data collected from an out-of-band management board.
	SourceManagement SourceType = "management"
)

// SourceTypes is the list of all supported source types.
var SourceTypes = []SourceType{
	SourceHost,
	SourceManagement,
}

// ParseSourceType parses a string into a SourceType.
// Returns the SourceType and true if parsing succeeds, or empty SourceType and false if the string is invalid.
func ParseSourceType(s string) (SourceType, bool) {
	for _, st := range SourceTypes {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// HostKey partitions all per-host resolution state.
type HostKey struct {
	Hostname   string     `json:"hostname" yaml:"hostname"`
	SourceType SourceType `json:"sourceType" yaml:"sourceType"`
}

// String renders the key as "hostname/sourcetype".
func (k HostKey) String() string {
	return fmt.Sprintf("%s/%s", k.Hostname, k.SourceType)
}

// StringTable is the raw row data of one section.
type StringTable [][]string

// Clone returns a deep copy of the table.
func (t StringTable) Clone() StringTable {
	if t == nil {
		return nil
	}
	out := make(StringTable, len(t))
	for i, row := range t {
		out[i] = slices.Clone(row)
	}
	return out
}

// CacheInfo describes when data was collected and for how long it stays valid.
type CacheInfo struct {
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	MaxAge    int64 `json:"maxAge" yaml:"maxAge"`
}

// RawSections is everything collected for one host in one cycle. It is
// populated completely before a Parser is built on top of it and must not be
// modified afterwards.
type RawSections struct {
	Sections           map[RawSectionID]StringTable `json:"sections" yaml:"sections"`
	CacheInfo          map[RawSectionID]CacheInfo   `json:"cacheInfo,omitempty" yaml:"cacheInfo,omitempty"`
	PiggybackedRawData map[string][][]byte          `json:"-" yaml:"-"`
}

// NewRawSections creates an empty RawSections with initialized maps.
func NewRawSections() *RawSections {
	return &RawSections{
		Sections:           make(map[RawSectionID]StringTable),
		CacheInfo:          make(map[RawSectionID]CacheInfo),
		PiggybackedRawData: make(map[string][][]byte),
	}
}

// SectionNames returns the collected raw section names in sorted order.
func (r *RawSections) SectionNames() []RawSectionID {
	names := make([]RawSectionID, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseFunc turns the rows of a raw section into a consumer-defined value.
type ParseFunc func(StringTable) (any, error)

// Plugin registers a parse function for one raw section and declares which
// logical section it produces and which raw sections it overrides.
type Plugin struct {
	Name       RawSectionID
	ParsedName ParsedSectionID
	Supersedes []RawSectionID
	Parse      ParseFunc
}

// String returns the plugin name.
func (p Plugin) String() string {
	return string(p.Name)
}

// ParsingResult is the outcome of successfully parsing one raw section.
type ParsingResult struct {
	Data      any        `json:"data" yaml:"data"`
	CacheInfo *CacheInfo `json:"cacheInfo,omitempty" yaml:"cacheInfo,omitempty"`
}

// ResolvedResult is the outcome of resolving one logical section: the
// winning parsed data and the plugin that produced it.
type ResolvedResult struct {
	Parsed   *ParsingResult
	Producer Plugin
}
