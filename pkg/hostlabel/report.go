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
	"github.com/NVIDIA/section-broker/pkg/header"
)

// HostReport is the label diff of one host.
type HostReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Host       string `json:"host" yaml:"host"`
	DiffResult `json:",inline" yaml:",inline"`
}

// NewHostReport wraps the diff of host in a HostLabels document.
func NewHostReport(host string, diff DiffResult, version string) *HostReport {
	return &HostReport{
		Header:     *header.New(header.WithKind(header.KindHostLabels), header.WithVersion(version)),
		Host:       host,
		DiffResult: diff,
	}
}

// TableHeader implements serializer.Tabular.
func (r *HostReport) TableHeader() []string {
	return []string{"STATE", "NAME", "VALUE", "SECTION"}
}

// TableRows implements serializer.Tabular.
func (r *HostReport) TableRows() [][]string {
	var rows [][]string
	add := func(state string, labels []HostLabel) {
		for _, l := range labels {
			rows = append(rows, []string{state, l.Name, l.Value, l.ProducingSection.String()})
		}
	}
	add("old", r.Old)
	add("new", r.New)
	add("vanished", r.Vanished)
	return rows
}

// ClusterReport is the merged label set of a cluster's nodes.
type ClusterReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Nodes  []string    `json:"nodes" yaml:"nodes"`
	Labels []HostLabel `json:"labels" yaml:"labels"`
}

// NewClusterReport wraps merged labels in a ClusterLabels document.
func NewClusterReport(nodes []string, labels []HostLabel, version string) *ClusterReport {
	return &ClusterReport{
		Header: *header.New(header.WithKind(header.KindClusterLabels), header.WithVersion(version)),
		Nodes:  nodes,
		Labels: labels,
	}
}

// TableHeader implements serializer.Tabular.
func (r *ClusterReport) TableHeader() []string {
	return []string{"NAME", "VALUE", "SECTION"}
}

// TableRows implements serializer.Tabular.
func (r *ClusterReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		rows = append(rows, []string{l.Name, l.Value, l.ProducingSection.String()})
	}
	return rows
}
