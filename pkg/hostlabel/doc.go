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

// Package hostlabel discovers host labels from parsed sections and tracks
// how they change between discovery runs.
//
// Label functions read one logical section through a broker.Broker. Each
// discovered label remembers the raw section it came from. Diff compares a
// persisted label set with a fresh one:
//
//	result := hostlabel.Diff(previous, current)
//	result.Vanished // persisted, no longer discovered
//	result.Old      // persisted and still discovered (persisted value kept)
//	result.New      // discovered for the first time
//
// For clusters, MergeNodes combines per-node results so that later nodes
// override earlier ones per label name.
//
// Store persists label sets as YAML files, one per host.
package hostlabel
