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

// Package broker aggregates the per-host section resolvers of one monitoring
// cycle behind a single query surface.
//
// Consumers (discovery, checking, inventory, host labels) ask the Broker for
// parsed sections by host and logical section id, test which sections are
// available for a source type, aggregate cache ages, and collect parse errors:
//
//	b := broker.New(
//	    broker.NewHostPair(hostKey, raw, plugins, section.WithDebug(debug)),
//	)
//	mem, ok, err := broker.Get[map[string]string](ctx, b, hostKey, "mem")
//
// Absence is never an error: an unknown host or an unresolvable section
// yields ok == false. The only errors are the fatal ones raised while parsing
// (operator interrupt, cooperative timeout) and, in debug mode, parse failures.
//
// A Broker lives for one cycle. It never mutates its host map after New; the
// pairs it holds memoize on every call, so concurrent calls are only safe when
// they target different hosts.
package broker
