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

package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NVIDIA/section-broker/pkg/section"
)

// Names of the built-in parse functions.
const (
	ParserTable = "table"
	ParserKV    = "kv"
	ParserJSON  = "json"
)

var builtinParsers = map[string]section.ParseFunc{
	ParserTable: ParseTable,
	ParserKV:    ParseKV,
	ParserJSON:  ParseJSON,
}

// ParserByName returns the built-in parse function called name.
func ParserByName(name string) (section.ParseFunc, bool) {
	fn, ok := builtinParsers[name]
	return fn, ok
}

// ParserNames lists the built-in parse functions, sorted.
func ParserNames() []string {
	names := make([]string, 0, len(builtinParsers))
	for n := range builtinParsers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseTable returns the rows unchanged. An empty section is an error.
func ParseTable(rows section.StringTable) (any, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty section")
	}
	return rows.Clone(), nil
}

// ParseKV reads rows as key/value pairs: the first column is the key and the
// remaining columns, joined by a single space, the value. Later keys
// overwrite earlier ones.
func ParseKV(rows section.StringTable) (any, error) {
	out := make(map[string]string, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected key and value, got %d column(s)", i, len(row))
		}
		out[strings.TrimSuffix(row[0], ":")] = strings.Join(row[1:], " ")
	}
	return out, nil
}

// ParseJSON joins all cells of all rows and decodes the result as one JSON
// document.
func ParseJSON(rows section.StringTable) (any, error) {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	var out any
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return out, nil
}
