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

// Package logging configures log/slog for the section broker binaries.
//
// Loggers write JSON to stderr and carry "module" and "version" attributes.
// Debug level also records the source location of each call.
//
// The level is read from LOG_LEVEL unless given explicitly. Level names are
// case-insensitive: debug, info, warn (or warning), error. Anything else,
// including an empty value, means info.
//
// Binaries install the default logger once at startup and log through the
// package-level slog functions afterwards:
//
//	logging.SetDefaultStructuredLoggerWithLevel("sectionctl", version, cmd.String("log-level"))
//	slog.Debug("cycle complete", slog.Int("hosts", n))
//
// NewLogLogger adapts the default handler for APIs that need a *log.Logger,
// such as http.Server.ErrorLog.
package logging
