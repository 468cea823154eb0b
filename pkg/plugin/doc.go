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

// Package plugin registers section plugins and loads them from YAML.
//
// A Registry keeps plugins in registration order; that order decides which
// producer wins when several plugins yield the same parsed section. Plugins
// are usually declared in a config file rather than in code:
//
//	cfg, err := plugin.LoadConfig(ctx, "plugins.yaml")
//	reg, err := cfg.Registry()
//	fns, err := cfg.LabelFunctions()
//
// Built-in parse functions:
//   - table: rows unchanged
//   - kv: first column key, rest of the row the value
//   - json: the section body decoded as a JSON document
//
// DefaultConfig returns the configuration embedded in the binary.
package plugin
