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
	"strconv"
	"time"

	"github.com/NVIDIA/section-broker/pkg/broker"
	"github.com/NVIDIA/section-broker/pkg/header"
	"github.com/NVIDIA/section-broker/pkg/section"
)

// Report is the serializable outcome of a cycle.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Hosts []HostReport `json:"hosts" yaml:"hosts"`

	// CacheInfo aggregates the cache information of every reported section.
	CacheInfo *section.CacheInfo `json:"cacheInfo,omitempty" yaml:"cacheInfo,omitempty"`

	ParsingErrors []string `json:"parsingErrors,omitempty" yaml:"parsingErrors,omitempty"`
}

// HostReport lists the resolved sections of one host.
type HostReport struct {
	Host       string          `json:"host" yaml:"host"`
	SourceType string          `json:"sourceType" yaml:"sourceType"`
	Sections   []SectionReport `json:"sections" yaml:"sections"`
}

// SectionReport is one resolved logical section.
type SectionReport struct {
	Name      section.ParsedSectionID `json:"name" yaml:"name"`
	Producer  section.RawSectionID    `json:"producer" yaml:"producer"`
	CacheInfo *section.CacheInfo      `json:"cacheInfo,omitempty" yaml:"cacheInfo,omitempty"`
	Data      any                     `json:"data" yaml:"data"`
}

// BuildReport resolves ids on every host of b. With no ids, each host reports
// every section its plugins can produce. Unresolved sections are omitted.
func BuildReport(ctx context.Context, b *broker.Broker, ids []section.ParsedSectionID, version string) (*Report, error) {
	report := &Report{
		Header: *header.New(header.WithKind(header.KindCycleReport), header.WithVersion(version)),
		Hosts:  make([]HostReport, 0, len(b.Hosts())),
	}

	reported := make(map[section.ParsedSectionID]struct{})
	for _, host := range b.Hosts() {
		hostIDs := ids
		if len(hostIDs) == 0 {
			hostIDs = b.ParsedSectionIDs(host)
		}

		hr := HostReport{
			Host:       host.Hostname,
			SourceType: host.SourceType.String(),
			Sections:   make([]SectionReport, 0, len(hostIDs)),
		}
		for _, id := range hostIDs {
			res, err := b.Resolve(ctx, host, id)
			if err != nil {
				return nil, err
			}
			if res == nil {
				continue
			}
			reported[id] = struct{}{}
			hr.Sections = append(hr.Sections, SectionReport{
				Name:      id,
				Producer:  res.Producer.Name,
				CacheInfo: res.Parsed.CacheInfo,
				Data:      res.Parsed.Data,
			})
		}
		report.Hosts = append(report.Hosts, hr)
	}

	reportedIDs := make([]section.ParsedSectionID, 0, len(reported))
	for id := range reported {
		reportedIDs = append(reportedIDs, id)
	}
	ci, err := b.CacheInfo(ctx, reportedIDs)
	if err != nil {
		return nil, err
	}
	report.CacheInfo = ci
	report.ParsingErrors = b.ParsingErrors()
	report.Metadata["hosts"] = strconv.Itoa(len(report.Hosts))

	return report, nil
}

// TableHeader implements serializer.Tabular.
func (r *Report) TableHeader() []string {
	return []string{"HOST", "SOURCE", "SECTION", "PRODUCER", "CACHED"}
}

// TableRows implements serializer.Tabular. Data is left to JSON and YAML.
func (r *Report) TableRows() [][]string {
	var rows [][]string
	for _, h := range r.Hosts {
		for _, s := range h.Sections {
			cached := "-"
			if s.CacheInfo != nil {
				cached = time.Unix(s.CacheInfo.Timestamp, 0).UTC().Format(time.RFC3339)
			}
			rows = append(rows, []string{h.Host, h.SourceType, s.Name.String(), s.Producer.String(), cached})
		}
	}
	return rows
}
