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

// Package cycle runs one monitoring cycle over a set of hosts.
//
// A cycle fetches the raw sections of every host from a Source, waits for all
// fetches to finish, and only then binds each host's data to a fresh
// section.Parser and section.Resolver inside a broker.Broker. Brokers are
// never reused across cycles.
//
//	runner := &cycle.Runner{Source: cycle.NewFileSource(dir), Plugins: reg.Plugins()}
//	b, err := runner.Run(ctx, hosts)
//	report, err := cycle.BuildReport(ctx, b, nil, version)
//
// FileSource reads stored agent output (<host>.txt and <host>.mgmt.txt).
// A host without a file is absent from the cycle rather than an error.
package cycle
