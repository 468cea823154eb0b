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

// Package defaults provides centralized configuration constants for the section broker.
//
// This package defines timeout values, concurrency limits, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Categories
//
//   - Cycle: fetch concurrency and the overall per-cycle deadline
//   - Handler timeouts: for HTTP request processing
//   - Server timeouts: for HTTP server configuration
//   - HTTP client timeouts: for fetching agent output over HTTP
//
// # Usage
//
//	import "github.com/NVIDIA/section-broker/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CycleTimeout)
//	defer cancel()
//
// The cycle deadline doubles as the cooperative timeout observed by the
// section parser: once it expires, no further parse function is invoked.
package defaults
