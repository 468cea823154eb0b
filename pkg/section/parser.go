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
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
)

// ErrInterrupted signals that the operator stopped the run. Parse functions
// may return or panic with it (wrapped or not); it is never recorded as a
// parse failure.
var ErrInterrupted = errors.New("interrupted by operator")

// IsFatal reports whether err must abort the run instead of being recorded
// as a parse failure: operator interrupts and cooperative timeouts.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// SectionParser is the parsing surface the Resolver depends on.
type SectionParser interface {
	Parse(ctx context.Context, plugin Plugin) (*ParsingResult, error)
	Disable(names ...RawSectionID)
}

// Option configures a Parser.
type Option func(*Parser)

// WithDebug makes parse failures fatal: they are returned to the caller
// instead of being recorded.
func WithDebug(debug bool) Option {
	return func(p *Parser) {
		p.debug = debug
	}
}

// Parser parses the raw sections of one host, invoking each raw section's
// parse function at most once. It is not safe for concurrent use and must
// not outlive the cycle its RawSections belong to.
type Parser struct {
	host   HostKey
	raw    *RawSections
	debug  bool
	memo   map[RawSectionID]*ParsingResult
	errors []*apperrors.StructuredError
}

// NewParser creates a Parser over the raw sections of host. A nil raw is
// treated as a host that delivered no sections.
func NewParser(host HostKey, raw *RawSections, opts ...Option) *Parser {
	if raw == nil {
		raw = NewRawSections()
	}
	p := &Parser{
		host: host,
		raw:  raw,
		memo: make(map[RawSectionID]*ParsingResult),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Host returns the host this parser belongs to.
func (p *Parser) Host() HostKey {
	return p.host
}

// Parse returns the parsed result for plugin's raw section, or nil if the
// section was not collected, failed to parse, or has been disabled.
//
// The returned error is non-nil only for fatal signals (see IsFatal) and,
// in debug mode, for parse failures.
func (p *Parser) Parse(ctx context.Context, plugin Plugin) (*ParsingResult, error) {
	if res, ok := p.memo[plugin.Name]; ok {
		return res, nil
	}

	rows, ok := p.raw.Sections[plugin.Name]
	if !ok {
		p.memo[plugin.Name] = nil
		sectionParseTotal.WithLabelValues(outcomeAbsent).Inc()
		return nil, nil
	}

	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	data, err := invoke(plugin.Parse, rows)
	if err != nil {
		if IsFatal(err) {
			return nil, err
		}
		perr := apperrors.WrapWithContext(apperrors.ErrCodeParseFailed,
			fmt.Sprintf("parsing of section %s failed", plugin.Name), err,
			map[string]any{
				"host":    p.host.String(),
				"section": plugin.Name.String(),
				"rows":    rows,
			})
		if p.debug {
			return nil, perr
		}
		slog.Warn("section parse failed",
			slog.String("host", p.host.String()),
			slog.String("section", plugin.Name.String()),
			slog.String("error", err.Error()))
		sectionParseTotal.WithLabelValues(outcomeFailed).Inc()
		p.errors = append(p.errors, perr)
		p.memo[plugin.Name] = nil
		return nil, nil
	}

	res := &ParsingResult{Data: data}
	if ci, ok := p.raw.CacheInfo[plugin.Name]; ok {
		res.CacheInfo = &ci
	}
	p.memo[plugin.Name] = res
	sectionParseTotal.WithLabelValues(outcomeSuccess).Inc()
	return res, nil
}

// Disable memoizes absence for every given raw section without invoking its
// parse function, replacing any earlier result.
func (p *Parser) Disable(names ...RawSectionID) {
	for _, name := range names {
		p.memo[name] = nil
	}
	if len(names) > 0 {
		sectionParseTotal.WithLabelValues(outcomeDisabled).Add(float64(len(names)))
		slog.Debug("sections disabled",
			slog.String("host", p.host.String()),
			slog.Any("sections", names))
	}
}

// ParsingErrors returns the descriptions of all recorded parse failures.
func (p *Parser) ParsingErrors() []string {
	out := make([]string, len(p.errors))
	for i, e := range p.errors {
		out[i] = e.Error()
	}
	return out
}

// Errors returns the recorded parse failures with their context.
func (p *Parser) Errors() []*apperrors.StructuredError {
	out := make([]*apperrors.StructuredError, len(p.errors))
	copy(out, p.errors)
	return out
}

// invoke calls fn, turning a panic into an error. A nil fn yields the rows
// unchanged.
func invoke(fn ParseFunc, rows StringTable) (data any, err error) {
	if fn == nil {
		return rows, nil
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("parse function panicked: %w", e)
				return
			}
			err = fmt.Errorf("parse function panicked: %v", r)
		}
	}()
	return fn(rows)
}
