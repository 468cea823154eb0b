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

// Package header provides the common header embedded in every document the
// section broker emits (cycle reports, section results, host labels).
//
// # Header Structure
//
//	kind: CycleReport
//	apiVersion: sectionbroker.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.3.0
//
// # Usage
//
//	type Report struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    Hosts []HostReport `json:"hosts" yaml:"hosts"`
//	}
//
//	r := Report{Header: *header.New(header.WithKind(header.KindCycleReport), header.WithVersion(v))}
//
// Timestamps use RFC3339 in UTC. Custom metadata keys are added with
// WithMetadata.
package header
