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

// Package serializer renders section broker documents and fetches remote
// payloads.
//
// Output formats:
//   - JSON: indented, machine readable
//   - YAML: human readable
//   - Table: columns for documents implementing Tabular, otherwise
//     flattened FIELD/VALUE pairs
//
// Usage:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// HttpReader fetches raw bytes over HTTP with pooled connections and
// bounded timeouts; a 404 is reported as ErrNotFound. Reader and FromFile
// decode JSON or YAML documents from local files or URLs.
package serializer
