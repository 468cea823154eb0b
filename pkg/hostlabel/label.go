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
	"github.com/NVIDIA/section-broker/pkg/section"
)

// HostLabel is a name/value pair attached to a host. ProducingSection records
// which raw section the label was discovered from and takes no part in
// diffing, which is keyed by Name.
type HostLabel struct {
	Name             string               `json:"name" yaml:"name"`
	Value            string               `json:"value" yaml:"value"`
	ProducingSection section.RawSectionID `json:"producingSection,omitempty" yaml:"producingSection,omitempty"`
}

// DiffResult classifies labels by comparing a persisted set with a freshly
// discovered one.
type DiffResult struct {
	Vanished []HostLabel `json:"vanished" yaml:"vanished"`
	Old      []HostLabel `json:"old" yaml:"old"`
	New      []HostLabel `json:"new" yaml:"new"`
}

// Present returns the labels the host carries after discovery: Old followed by New.
func (r DiffResult) Present() []HostLabel {
	out := make([]HostLabel, 0, len(r.Old)+len(r.New))
	out = append(out, r.Old...)
	return append(out, r.New...)
}

// Diff compares the persisted labels with the current ones by name.
//
// A label present in both sets is reported in Old with its persisted value;
// a changed value is not adopted until the label is removed and re-added.
func Diff(existing, current []HostLabel) DiffResult {
	existingOrder, existingByName := index(existing)
	currentOrder, currentByName := index(current)

	var result DiffResult
	for _, name := range existingOrder {
		if _, ok := currentByName[name]; ok {
			result.Old = append(result.Old, existingByName[name])
		} else {
			result.Vanished = append(result.Vanished, existingByName[name])
		}
	}
	for _, name := range currentOrder {
		if _, ok := existingByName[name]; !ok {
			result.New = append(result.New, currentByName[name])
		}
	}
	return result
}

// MergeNodes combines the diff results of a cluster's nodes, in node order.
// Each node's present labels overwrite earlier ones with the same name.
func MergeNodes(nodes []DiffResult) []HostLabel {
	var present []HostLabel
	for _, node := range nodes {
		present = append(present, node.Present()...)
	}
	order, byName := index(present)

	out := make([]HostLabel, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// index keys labels by name. The last label of a name wins; order keeps the
// position of each name's first occurrence.
func index(labels []HostLabel) ([]string, map[string]HostLabel) {
	order := make([]string, 0, len(labels))
	byName := make(map[string]HostLabel, len(labels))
	for _, l := range labels {
		if _, seen := byName[l.Name]; !seen {
			order = append(order, l.Name)
		}
		byName[l.Name] = l
	}
	return order, byName
}
