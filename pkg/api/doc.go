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

// Package api serves the section broker over HTTP.
//
// A Backend runs a monitoring cycle on every refresh interval and swaps in
// the resulting broker. Requests are answered from the broker of the last
// successful cycle; a failed refresh keeps the previous broker serving.
// Broker calls are serialized because a broker is not safe for concurrent
// use.
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET /v1/hosts/{host}/sections/{section}?source=host|management
//   - GET /v1/hosts/{host}/labels
//   - GET /v1/available?source=host|management&section=PATTERN...
//   - GET /v1/cache-info?section=PATTERN...
//   - GET /v1/errors
//   - GET /v1/cluster/labels?node=NAME...
//
// System endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - 503 until the first cycle completes
//   - GET /metrics - Prometheus metrics
//
// Section patterns accept a leading or trailing "*" wildcard. Every response
// is a document carrying kind, apiVersion, and metadata.
//
// Example:
//
//	curl -s "http://localhost:8080/v1/hosts/node-1/sections/df" | jq .
//
// Host label routes diff freshly discovered labels against the labels
// persisted in the labels directory without writing anything back.
package api
