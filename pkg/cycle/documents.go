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
	"fmt"
	"slices"

	"github.com/NVIDIA/section-broker/pkg/broker"
	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/header"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// SectionResult is one resolved section of one host.
type SectionResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Host       string        `json:"host" yaml:"host"`
	SourceType string        `json:"sourceType" yaml:"sourceType"`
	Section    SectionReport `json:"section" yaml:"section"`
}

// Availability lists the sections that resolve for at least one host of a
// source type.
type Availability struct {
	header.Header `json:",inline" yaml:",inline"`

	SourceType string                    `json:"sourceType" yaml:"sourceType"`
	Sections   []section.ParsedSectionID `json:"sections" yaml:"sections"`
}

// CacheInfoReport is the aggregated cache information of a set of sections.
type CacheInfoReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Sections  []section.ParsedSectionID `json:"sections" yaml:"sections"`
	CacheInfo *section.CacheInfo        `json:"cacheInfo,omitempty" yaml:"cacheInfo,omitempty"`
}

// ErrorsReport lists the parse failures recorded so far in a cycle.
type ErrorsReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Errors []string `json:"errors" yaml:"errors"`
}

// TableHeader implements serializer.Tabular.
func (r *ErrorsReport) TableHeader() []string {
	return []string{"ERROR"}
}

// TableRows implements serializer.Tabular.
func (r *ErrorsReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		rows = append(rows, []string{e})
	}
	return rows
}

// ResolveSection resolves id on host. Nothing resolving is a NOT_FOUND error.
func ResolveSection(ctx context.Context, b *broker.Broker, host section.HostKey, id section.ParsedSectionID, version string) (*SectionResult, error) {
	res, err := b.Resolve(ctx, host, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			fmt.Sprintf("section %s not available for %s", id, host),
			map[string]any{"host": host.String(), "section": id.String()})
	}
	return &SectionResult{
		Header:     *header.New(header.WithKind(header.KindSectionResult), header.WithVersion(version)),
		Host:       host.Hostname,
		SourceType: host.SourceType.String(),
		Section: SectionReport{
			Name:      id,
			Producer:  res.Producer.Name,
			CacheInfo: res.Parsed.CacheInfo,
			Data:      res.Parsed.Data,
		},
	}, nil
}

// BuildAvailability reports which of the known sections matching patterns
// resolve for sourceType.
func BuildAvailability(ctx context.Context, b *broker.Broker, sourceType section.SourceType, patterns []string, version string) (*Availability, error) {
	ids := section.Select(KnownSections(b), patterns)
	available, err := b.FilterAvailable(ctx, ids, sourceType)
	if err != nil {
		return nil, err
	}

	out := make([]section.ParsedSectionID, 0, len(available))
	for _, id := range ids {
		if _, ok := available[id]; ok {
			out = append(out, id)
		}
	}
	return &Availability{
		Header:     *header.New(header.WithKind(header.KindAvailability), header.WithVersion(version)),
		SourceType: sourceType.String(),
		Sections:   out,
	}, nil
}

// BuildCacheInfo aggregates the cache information of the known sections
// matching patterns across every host.
func BuildCacheInfo(ctx context.Context, b *broker.Broker, patterns []string, version string) (*CacheInfoReport, error) {
	ids := section.Select(KnownSections(b), patterns)
	ci, err := b.CacheInfo(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &CacheInfoReport{
		Header:    *header.New(header.WithKind(header.KindCacheInfo), header.WithVersion(version)),
		Sections:  ids,
		CacheInfo: ci,
	}, nil
}

// BuildErrorsReport returns the parse failures recorded by b so far.
func BuildErrorsReport(b *broker.Broker, version string) *ErrorsReport {
	errs := b.ParsingErrors()
	if errs == nil {
		errs = []string{}
	}
	return &ErrorsReport{
		Header: *header.New(header.WithKind(header.KindParsingErrors), header.WithVersion(version)),
		Errors: errs,
	}
}

// KnownSections returns every logical section some host of b can produce,
// sorted.
func KnownSections(b *broker.Broker) []section.ParsedSectionID {
	var ids []section.ParsedSectionID
	for _, host := range b.Hosts() {
		for _, id := range b.ParsedSectionIDs(host) {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

// Hostnames returns the distinct hostnames of b in host order.
func Hostnames(b *broker.Broker) []string {
	var names []string
	for _, host := range b.Hosts() {
		if !slices.Contains(names, host.Hostname) {
			names = append(names, host.Hostname)
		}
	}
	return names
}
