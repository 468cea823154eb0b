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

import "strings"

// Select returns the ids matching at least one pattern, preserving input order.
// Supports wildcard patterns:
//   - "prefix*" matches ids starting with "prefix"
//   - "*suffix" matches ids ending with "suffix"
//   - "*contains*" matches ids containing "contains"
//   - "exact" matches ids exactly
//
// No patterns selects every id.
func Select(ids []ParsedSectionID, patterns []string) []ParsedSectionID {
	if len(patterns) == 0 {
		return append([]ParsedSectionID(nil), ids...)
	}

	var out []ParsedSectionID
	for _, id := range ids {
		for _, pattern := range patterns {
			if MatchPattern(string(id), pattern) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// MatchPattern checks if a name matches a wildcard pattern.
// Supports multiple wildcard segments, e.g., "a*b*c" matches "aXbYc".
func MatchPattern(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	segments := strings.Split(pattern, "*")

	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		// First segment is anchored unless the pattern starts with *
		if i == 0 {
			if !strings.HasPrefix(name, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// Last segment is anchored unless the pattern ends with *
		if i == len(segments)-1 {
			return strings.HasSuffix(name[pos:], segment)
		}

		idx := strings.Index(name[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
