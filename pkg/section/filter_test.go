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
	"reflect"
	"testing"
)

func TestSelect(t *testing.T) {
	ids := []ParsedSectionID{
		"mem",
		"mem_win",
		"winperf_mem",
		"df",
		"df_netapp",
		"lnx_if",
	}

	tests := []struct {
		name     string
		patterns []string
		want     []ParsedSectionID
	}{
		{
			name:     "exact match",
			patterns: []string{"mem"},
			want:     []ParsedSectionID{"mem"},
		},
		{
			name:     "prefix wildcard",
			patterns: []string{"mem*"},
			want:     []ParsedSectionID{"mem", "mem_win"},
		},
		{
			name:     "suffix wildcard",
			patterns: []string{"*mem"},
			want:     []ParsedSectionID{"mem", "winperf_mem"},
		},
		{
			name:     "contains wildcard",
			patterns: []string{"*_*"},
			want:     []ParsedSectionID{"mem_win", "winperf_mem", "df_netapp", "lnx_if"},
		},
		{
			name:     "multiple patterns keep input order",
			patterns: []string{"df*", "mem"},
			want:     []ParsedSectionID{"mem", "df", "df_netapp"},
		},
		{
			name:     "no patterns selects all",
			patterns: nil,
			want:     ids,
		},
		{
			name:     "non-matching pattern",
			patterns: []string{"nonexistent*"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(ids, tt.patterns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%v) = %v, want %v", tt.patterns, got, tt.want)
			}
		})
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"abc", "abc", true},
		{"abc", "ab", false},
		{"abc", "*", true},
		{"abc", "a*", true},
		{"abc", "*c", true},
		{"abc", "*b*", true},
		{"aXbYc", "a*b*c", true},
		{"acb", "a*b*c", false},
		{"ab", "ab*b", false},
		{"abb", "ab*b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"~"+tt.pattern, func(t *testing.T) {
			if got := MatchPattern(tt.name, tt.pattern); got != tt.want {
				t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
			}
		})
	}
}
