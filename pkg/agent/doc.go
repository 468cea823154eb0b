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

// Package agent decodes monitoring agent output into raw sections.
//
// The output is line based. A header line starts a section:
//
//	<<<df:sep(124):cached(1700000000,300)>>>
//
// Options follow the name separated by colons:
//   - sep(N): split rows at the character with code N instead of whitespace
//   - cached(ts,age): the section came from a cache written at ts, valid for age seconds
//
// Unknown options are ignored. "<<<>>>" closes the current section and lines
// outside any section are dropped. A section header may repeat; its rows
// accumulate.
//
// Data for other hosts is framed by "<<<<host>>>>" and "<<<<>>>>" and kept
// verbatim in RawSections.PiggybackedRawData.
package agent
