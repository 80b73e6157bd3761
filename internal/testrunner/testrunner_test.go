// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package testrunner

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlain() *Runner {
	r := New()
	r.Styles = PlainStyles()

	return r
}

func TestRunner_AllPassed(t *testing.T) {
	r := newPlain()

	assert.True(t, r.AssertEqual([]any{1, 4, 9}, []any{1, 4, 9}, "squares"))
	assert.True(t, r.AssertTrue(true, "true"))
	assert.True(t, r.AssertFalse(false, "false"))

	assert.Equal(t, 3, r.Passed())
	assert.Equal(t, 0, r.Failed())
	assert.False(t, r.HasFailures())
	assert.Empty(t, r.Failures())

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	assert.Equal(t, "✓ All tests passed! (3/3)\n", buf.String())
}

func TestRunner_Failures(t *testing.T) {
	r := newPlain()

	r.AssertEqual(1, 1, "one")
	assert.False(t, r.AssertEqual([]any{1, 4}, []any{1, 5}, "squares"))
	assert.False(t, r.AssertTrue(false, "must hold"))

	assert.Equal(t, 1, r.Passed())
	assert.Equal(t, 2, r.Failed())
	assert.Equal(t, 3, r.Total())
	assert.True(t, r.HasFailures())

	fs := r.Failures()
	require.Len(t, fs, 2)
	assert.Equal(t, "squares", fs[0].Message)
	assert.NotEmpty(t, fs[0].Diff)
	assert.Equal(t, true, fs[1].Expected)
	assert.Equal(t, false, fs[1].Actual)
	assert.Empty(t, fs[1].Diff)

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "✗ 2 test(s) failed! (1/3 passed)\n")
	assert.Contains(t, out, "Failure 1: squares\n")
	assert.Contains(t, out, "  Expected: [1,4]\n")
	assert.Contains(t, out, "  Actual:   [1,5]\n")
	assert.Contains(t, out, "Failure 2: must hold\n")
	assert.Contains(t, out, "  Expected: true\n")
}

func TestRunner_StrictTypes(t *testing.T) {
	r := newPlain()

	assert.False(t, r.AssertEqual(int64(1), 1, "int64 vs int"))
	assert.False(t, r.AssertEqual("1", 1, "string vs int"))
}

func TestRunner_FailuresIsCopy(t *testing.T) {
	r := newPlain()
	r.AssertTrue(false, "x")

	fs := r.Failures()
	fs[0].Message = "changed"

	assert.Equal(t, "x", r.Failures()[0].Message)
}

func TestRunner_UncomparableValues(t *testing.T) {
	type hidden struct{ v int }

	r := newPlain()

	assert.False(t, r.AssertEqual(hidden{1}, hidden{1}, "unexported"))
	assert.Empty(t, r.Failures()[0].Diff)
}

func TestFormat(t *testing.T) {
	tcs := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{42, "42"},
		{"abc", "abc"},
		{[]int{1, 2}, "[1,2]"},
		{map[string]int{"a": 1}, `{"a":1}`},
	}

	for _, tc := range tcs {
		assert.Equal(t, tc.want, Format(tc.in))
	}
}
