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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/section-broker/pkg/errors"
)

func TestParser_ParseMemoizes(t *testing.T) {
	calls := map[RawSectionID]int{}
	rows := StringTable{{"a", "1"}, {"b", "2"}}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{"s1": rows}))
	plugin := countingPlugin("s1", "p1", calls)

	first, err := parser.Parse(t.Context(), plugin)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := parser.Parse(t.Context(), plugin)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls["s1"])
	assert.Equal(t, rows, first.Data)
}

func TestParser_MemoKeyIsRawName(t *testing.T) {
	calls := map[RawSectionID]int{}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{
		"a": {{"1"}},
		"b": {{"2"}},
	}))

	resA, err := parser.Parse(t.Context(), countingPlugin("a", "x", calls))
	require.NoError(t, err)
	resB, err := parser.Parse(t.Context(), countingPlugin("b", "x", calls))
	require.NoError(t, err)

	assert.Equal(t, StringTable{{"1"}}, resA.Data)
	assert.Equal(t, StringTable{{"2"}}, resB.Data)
	assert.Equal(t, 1, calls["a"])
	assert.Equal(t, 1, calls["b"])
}

func TestParser_AbsentSection(t *testing.T) {
	calls := map[RawSectionID]int{}
	parser := NewParser(testHost, NewRawSections())

	res, err := parser.Parse(t.Context(), countingPlugin("missing", "missing", calls))
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, calls["missing"])
	assert.Empty(t, parser.ParsingErrors())
}

func TestParser_NilRawSections(t *testing.T) {
	parser := NewParser(testHost, nil)
	res, err := parser.Parse(t.Context(), Plugin{Name: "any"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParser_NilParseFuncReturnsRows(t *testing.T) {
	rows := StringTable{{"x"}}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{"s": rows}))

	res, err := parser.Parse(t.Context(), Plugin{Name: "s"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, rows, res.Data)
}

func TestParser_CacheInfoAttached(t *testing.T) {
	raw := rawWith(map[RawSectionID]StringTable{"s": {{"x"}}, "t": {{"y"}}})
	raw.CacheInfo["s"] = CacheInfo{Timestamp: 10, MaxAge: 60}
	parser := NewParser(testHost, raw)

	res, err := parser.Parse(t.Context(), Plugin{Name: "s"})
	require.NoError(t, err)
	require.NotNil(t, res.CacheInfo)
	assert.Equal(t, CacheInfo{Timestamp: 10, MaxAge: 60}, *res.CacheInfo)

	res, err = parser.Parse(t.Context(), Plugin{Name: "t"})
	require.NoError(t, err)
	assert.Nil(t, res.CacheInfo)
}

func TestParser_FailureRecorded(t *testing.T) {
	rows := StringTable{{"garbage"}}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{"df": rows}))
	plugin := failingPlugin("df", "df", errBoom)

	res, err := parser.Parse(t.Context(), plugin)
	require.NoError(t, err)
	assert.Nil(t, res)

	msgs := parser.ParsingErrors()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "df")
	assert.Contains(t, msgs[0], "boom")

	recorded := parser.Errors()
	require.Len(t, recorded, 1)
	assert.Equal(t, apperrors.ErrCodeParseFailed, recorded[0].Code)
	assert.Equal(t, "web01/host", recorded[0].Context["host"])
	assert.Equal(t, "df", recorded[0].Context["section"])
	assert.Equal(t, rows, recorded[0].Context["rows"])
	assert.ErrorIs(t, recorded[0], errBoom)

	// memoized: no second error entry
	res, err = parser.Parse(t.Context(), plugin)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Len(t, parser.ParsingErrors(), 1)
}

func TestParser_PanicRecorded(t *testing.T) {
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{"s": {{"1"}}}))

	res, err := parser.Parse(t.Context(), panickingPlugin("s", "index out of range"))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.Len(t, parser.ParsingErrors(), 1)
	assert.Contains(t, parser.ParsingErrors()[0], "index out of range")
}

func TestParser_DebugModeReturnsFailure(t *testing.T) {
	parser := NewParser(testHost,
		rawWith(map[RawSectionID]StringTable{"df": {{"x"}}}),
		WithDebug(true))

	res, err := parser.Parse(t.Context(), failingPlugin("df", "df", errBoom))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, apperrors.ErrCodeParseFailed, apperrors.CodeOf(err))
	assert.Empty(t, parser.ParsingErrors())
}

func TestParser_FatalSignalsPropagate(t *testing.T) {
	tests := []struct {
		name   string
		plugin Plugin
		want   error
	}{
		{
			name:   "returned interrupt",
			plugin: failingPlugin("s", "s", ErrInterrupted),
			want:   ErrInterrupted,
		},
		{
			name:   "wrapped interrupt",
			plugin: failingPlugin("s", "s", wrapInterrupt()),
			want:   ErrInterrupted,
		},
		{
			name:   "returned timeout",
			plugin: failingPlugin("s", "s", context.DeadlineExceeded),
			want:   context.DeadlineExceeded,
		},
		{
			name:   "panicked interrupt",
			plugin: panickingPlugin("s", ErrInterrupted),
			want:   ErrInterrupted,
		},
	}

	for _, debug := range []bool{false, true} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				parser := NewParser(testHost,
					rawWith(map[RawSectionID]StringTable{"s": {{"1"}}}),
					WithDebug(debug))

				res, err := parser.Parse(t.Context(), tt.plugin)
				assert.Nil(t, res)
				assert.ErrorIs(t, err, tt.want)
				assert.Empty(t, parser.ParsingErrors())
			})
		}
	}
}

func TestParser_CancelledContextStopsParsing(t *testing.T) {
	calls := map[RawSectionID]int{}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{"s": {{"1"}}}))

	ctx, cancel := context.WithCancelCause(t.Context())
	cancel(ErrInterrupted)

	res, err := parser.Parse(ctx, countingPlugin("s", "s", calls))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Zero(t, calls["s"])

	// not memoized: a live context parses normally
	res, err = parser.Parse(t.Context(), countingPlugin("s", "s", calls))
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestParser_Disable(t *testing.T) {
	calls := map[RawSectionID]int{}
	parser := NewParser(testHost, rawWith(map[RawSectionID]StringTable{
		"a": {{"1"}},
		"b": {{"2"}},
	}))

	// b was parsed before being disabled, a never was
	_, err := parser.Parse(t.Context(), countingPlugin("b", "b", calls))
	require.NoError(t, err)

	parser.Disable("a", "b")

	for _, name := range []RawSectionID{"a", "b"} {
		res, err := parser.Parse(t.Context(), countingPlugin(name, ParsedSectionID(name), calls))
		require.NoError(t, err)
		assert.Nil(t, res, "section %s should be disabled", name)
	}
	assert.Zero(t, calls["a"])
	assert.Equal(t, 1, calls["b"])
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrInterrupted))
	assert.True(t, IsFatal(wrapInterrupt()))
	assert.True(t, IsFatal(context.Canceled))
	assert.True(t, IsFatal(context.DeadlineExceeded))
	assert.False(t, IsFatal(errBoom))
	assert.False(t, IsFatal(errors.New("deadline")))
	assert.False(t, IsFatal(nil))
}

func TestParser_Host(t *testing.T) {
	assert.Equal(t, testHost, NewParser(testHost, nil).Host())
}
