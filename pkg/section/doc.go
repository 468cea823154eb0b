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

// Package section parses raw monitoring sections and resolves logical
// sections among competing producers.
//
// # Overview
//
// A host delivers raw sections (RawSections), each a StringTable keyed by a
// RawSectionID. Plugins register a parse function for one raw section and
// declare the logical section (ParsedSectionID) it produces. Several plugins
// may produce the same logical section; a plugin may also supersede other raw
// sections, overriding them whenever it parses successfully.
//
// # Parser
//
// Parser invokes each raw section's parse function at most once and memoizes
// the outcome, including absence. A failing parse function is recorded as a
// structured error, available through ParsingErrors, and the section is
// treated as absent:
//
//	parser := section.NewParser(host, raw, section.WithDebug(false))
//	res, err := parser.Parse(ctx, plugin)
//
// Operator interrupts (ErrInterrupted) and cooperative timeouts (a cancelled
// or expired ctx) are never recorded; they are returned as errors in every
// mode. With WithDebug(true), parse failures are returned as well.
//
// # Resolver
//
// Resolver walks the producers of a logical section in registration order.
// Before trying a producer it parses every plugin that supersedes it; each
// superseder that parses disables all raw sections it supersedes for the rest
// of the cycle. The first producer that still parses wins:
//
//	resolver := section.NewResolver(plugins)
//	resolved, err := resolver.Resolve(ctx, parser, "mem")
//	if resolved != nil {
//	    fmt.Println(resolved.Producer.Name, resolved.Parsed.Data)
//	}
//
// # Concurrency
//
// Parser and Resolver own mutable memo tables and are meant for one goroutine
// within one cycle. Build a fresh pair per host per cycle, after the host's
// RawSections are complete.
package section
