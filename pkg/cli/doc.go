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

// Package cli implements the sectionctl command-line interface.
//
// # Overview
//
// sectionctl runs one monitoring cycle over stored or served agent output and
// queries the resulting section broker. Each host's raw sections are parsed
// lazily by the configured section plugins; a logical section resolves to the
// first plugin whose raw section parses, trying superseding plugins first.
//
// # Commands
//
// resolve - Print the resolved sections of every host:
//
//	sectionctl --data ./out resolve [--section PATTERN...]
//
// available - List the sections that resolve for a source type:
//
//	sectionctl --data ./out available --source management
//
// cache-info - Aggregate the cache information of the selected sections:
//
//	sectionctl --data ./out cache-info --section 'df*'
//
// errors - Resolve every section and list the parse failures:
//
//	sectionctl --data ./out errors --format table
//
// labels - Discover host labels and diff them against the persisted ones:
//
//	sectionctl --data ./out labels --labels-dir ./labels [--save] [--cluster]
//
// serve - Serve the broker over HTTP:
//
//	sectionctl --data https://agents.example.com/output --host node-1 serve --port 8080
//
// # Global Flags
//
//	--data, -d        Directory or http(s) base URL holding agent output
//	--host, -H        hostname or hostname/management (repeatable)
//	--plugins, -p     Section plugin config (default: built-in)
//	--debug           Fail on the first parse error
//	--log-level       debug, info, warn, error
//	--concurrency     Parallel host fetches
//	--fetch-timeout   Per-host fetch timeout
//
// Output commands also accept --output/-o (default: stdout) and
// --format/-t (yaml, json, table; default: yaml).
//
// # Environment Variables
//
// Every global flag can be set with a SECTION_BROKER_ variable, e.g.
// SECTION_BROKER_DATA, SECTION_BROKER_HOSTS, SECTION_BROKER_DEBUG.
// LOG_LEVEL is also honored.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/section-broker/pkg/cli.version=1.0.0'"
package cli
