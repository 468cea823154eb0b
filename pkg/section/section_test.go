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

package section

import (
	"errors"
	"fmt"
)

var testHost = HostKey{Hostname: "web01", SourceType: SourceHost}

// countingPlugin returns a plugin whose parse function records each call
// and returns the rows unchanged.
func countingPlugin(name RawSectionID, parsed ParsedSectionID, calls map[RawSectionID]int, supersedes ...RawSectionID) Plugin {
	return Plugin{
		Name:       name,
		ParsedName: parsed,
		Supersedes: supersedes,
		Parse: func(rows StringTable) (any, error) {
			calls[name]++
			return rows, nil
		},
	}
}

func failingPlugin(name RawSectionID, parsed ParsedSectionID, err error) Plugin {
	return Plugin{
		Name:       name,
		ParsedName: parsed,
		Parse: func(StringTable) (any, error) {
			return nil, err
		},
	}
}

func panickingPlugin(name RawSectionID, value any) Plugin {
	return Plugin{
		Name: name,
		Parse: func(StringTable) (any, error) {
			panic(value)
		},
	}
}

func rawWith(sections map[RawSectionID]StringTable) *RawSections {
	raw := NewRawSections()
	for k, v := range sections {
		raw.Sections[k] = v
	}
	return raw
}

var errBoom = errors.New("boom")

func wrapInterrupt() error {
	return fmt.Errorf("agent read: %w", ErrInterrupted)
}
