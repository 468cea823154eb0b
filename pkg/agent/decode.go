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

package agent

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"strconv"
	"strings"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
	"github.com/NVIDIA/section-broker/pkg/section"
)

const (
	sectionOpen    = "<<<"
	sectionClose   = ">>>"
	piggybackOpen  = "<<<<"
	piggybackClose = ">>>>"

	maxLineSize = 16 * 1024 * 1024
)

type header struct {
	name      section.RawSectionID
	sep       rune
	cacheInfo *section.CacheInfo
}

// Decode reads agent output from r.
func Decode(r io.Reader) (*section.RawSections, error) {
	raw := section.NewRawSections()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		current   *header
		piggyback string
	)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if host, ok := piggybackHost(line); ok {
			piggyback = host
			current = nil
			continue
		}
		if piggyback != "" {
			raw.PiggybackedRawData[piggyback] = append(raw.PiggybackedRawData[piggyback], []byte(line))
			continue
		}

		if h, ok := parseHeader(line); ok {
			current = h
			if current == nil {
				continue
			}
			if _, exists := raw.Sections[h.name]; !exists {
				raw.Sections[h.name] = section.StringTable{}
			}
			if h.cacheInfo != nil {
				raw.CacheInfo[h.name] = *h.cacheInfo
			}
			continue
		}

		if current == nil || line == "" {
			continue
		}
		raw.Sections[current.name] = append(raw.Sections[current.name], splitRow(line, current.sep))
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParseFailed, "failed to read agent output", err)
	}
	return raw, nil
}

// DecodeBytes decodes agent output held in memory.
func DecodeBytes(data []byte) (*section.RawSections, error) {
	return Decode(bytes.NewReader(data))
}

// piggybackHost recognizes "<<<<host>>>>". An empty host ends piggybacked data.
func piggybackHost(line string) (string, bool) {
	if !strings.HasPrefix(line, piggybackOpen) || !strings.HasSuffix(line, piggybackClose) ||
		len(line) < len(piggybackOpen)+len(piggybackClose) {
		return "", false
	}
	return strings.TrimSpace(line[len(piggybackOpen) : len(line)-len(piggybackClose)]), true
}

// parseHeader recognizes "<<<name:opt:opt>>>". The returned header is nil for
// "<<<>>>", which closes the current section.
func parseHeader(line string) (*header, bool) {
	if !strings.HasPrefix(line, sectionOpen) || !strings.HasSuffix(line, sectionClose) ||
		len(line) < len(sectionOpen)+len(sectionClose) {
		return nil, false
	}
	inner := line[len(sectionOpen) : len(line)-len(sectionClose)]
	if inner == "" {
		return nil, true
	}

	parts := strings.Split(inner, ":")
	h := &header{name: section.RawSectionID(parts[0])}
	for _, opt := range parts[1:] {
		key, args, ok := splitOption(opt)
		if !ok {
			continue
		}
		switch key {
		case "sep":
			n, err := strconv.Atoi(args)
			if err != nil || n <= 0 {
				slog.Debug("ignoring invalid sep option", slog.String("section", parts[0]), slog.String("value", args))
				continue
			}
			h.sep = rune(n)
		case "cached":
			ci, err := parseCached(args)
			if err != nil {
				slog.Debug("ignoring invalid cached option", slog.String("section", parts[0]), slog.String("value", args))
				continue
			}
			h.cacheInfo = ci
		}
	}
	return h, true
}

func splitOption(opt string) (key, args string, ok bool) {
	open := strings.IndexByte(opt, '(')
	if open <= 0 || !strings.HasSuffix(opt, ")") {
		return "", "", false
	}
	return opt[:open], opt[open+1 : len(opt)-1], true
}

func parseCached(args string) (*section.CacheInfo, error) {
	tsStr, ageStr, found := strings.Cut(args, ",")
	if !found {
		return nil, strconv.ErrSyntax
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(tsStr), 10, 64)
	if err != nil {
		return nil, err
	}
	age, err := strconv.ParseInt(strings.TrimSpace(ageStr), 10, 64)
	if err != nil {
		return nil, err
	}
	return &section.CacheInfo{Timestamp: ts, MaxAge: age}, nil
}

func splitRow(line string, sep rune) []string {
	if sep == 0 {
		return strings.Fields(line)
	}
	return strings.Split(line, string(sep))
}
