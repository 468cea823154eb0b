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

// Package server provides the HTTP server that hosts the section broker API.
//
// It supplies the production plumbing shared by every API route:
//
//   - Rate limiting using a token bucket (golang.org/x/time/rate)
//   - Request ID tracking via X-Request-Id
//   - API version negotiation via the Accept header
//   - Panic recovery
//   - Per-request deadlines
//   - Prometheus metrics on /metrics
//   - Health and readiness probes
//   - Graceful shutdown on SIGINT and SIGTERM
//
// # Usage
//
//	s := server.New(
//	    server.WithName("sectiond"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "GET /v1/available": h.Available,
//	    }),
//	    server.WithReadiness(backend.Ready),
//	    server.WithBackground(backend.Run),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Environment
//
//   - PORT: listen port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown budget (default 30)
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFrom. The body is:
//
//	{
//	  "code": "NOT_FOUND",
//	  "message": "section not available",
//	  "details": {"host": "node-1/host", "section": "df"},
//	  "requestId": "...",
//	  "timestamp": "...",
//	  "retryable": false
//	}
package server
