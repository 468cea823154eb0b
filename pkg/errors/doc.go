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

// Package errors provides structured error types for the section broker.
//
// StructuredError carries an ErrorCode for programmatic handling, a message,
// the wrapped cause, and free-form context. Parse failures recorded by the
// section parser are StructuredErrors with ErrCodeParseFailed and the host,
// section, and offending rows in their context:
//
//	err := errors.WrapWithContext(errors.ErrCodeParseFailed,
//	    "parsing of section df failed", cause,
//	    map[string]any{
//	        "host":    "web01/host",
//	        "section": "df",
//	    },
//	)
//
// Use CodeOf to classify an error chain without a type assertion.
package errors
