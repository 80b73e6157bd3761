// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WorkerMode(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	in := filepath.Join(dir, "chunk-1.in")
	out := filepath.Join(dir, "chunk-1.out")
	c := Chunk{Index: 1, Start: 3, End: 6}

	require.NoError(t, writePayload(fs, in, c, []int{4, 5, 6}))
	require.NoError(t, createChannel(fs, out))

	t.Setenv(envTask, squareTask.Name())
	t.Setenv(envInput, in)
	t.Setenv(envOutput, out)
	t.Setenv(envChunk, "1")

	code := -1
	stubs := gostub.Stub(&workerExit, func(c int) { code = c })
	defer stubs.Reset()

	Init()
	require.Equal(t, 0, code)

	res, err := readChannel[int](fs, out)
	require.NoError(t, err)
	assert.False(t, res.Failed)

	got := make([]int, 6)
	require.NoError(t, res.merge(c, got))
	assert.Equal(t, []int{0, 0, 0, 16, 25, 36}, got)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "channel should be removed once read")
}

func TestServeProcess_UnknownTask(t *testing.T) {
	code := serveProcess(context.Background(), "no-such-task", "in", "out")
	assert.Equal(t, workerFailureExitCode, code)
}

func TestServeProcess_MissingChannel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chunk-0.in")

	require.NoError(t, writePayload(afero.NewOsFs(), in, Chunk{End: 1}, []int{2}))

	code := serveProcess(context.Background(), squareTask.Name(), in, filepath.Join(dir, "chunk-0.out"))
	assert.Equal(t, workerFailureExitCode, code, "a worker must not create its own channel")
}

func TestServe_StopsAtFirstFailure(t *testing.T) {
	var in, out bytes.Buffer

	c := Chunk{Index: 2, Start: 10, End: 14}
	require.NoError(t, writeGob(&in, chunkPayload[int]{Chunk: c, Items: []int{1, -2, 3, -4}}))
	require.NoError(t, failNegativeTask.serve(context.Background(), &in, &out))

	var res chunkResult[int]
	require.NoError(t, readGob(&out, &res))
	assert.True(t, res.Failed)
	assert.Equal(t, 11, res.FailedIndex)
	assert.Equal(t, errNegative.Error(), res.Failure)
	assert.Equal(t, map[int]int{10: 1}, res.Values)
}

func TestServe_BadPayload(t *testing.T) {
	var out bytes.Buffer

	err := squareTask.serve(context.Background(), bytes.NewBufferString("garbage"), &out)
	require.ErrorIs(t, err, ErrDecode)
}

func TestChunkResultMerge(t *testing.T) {
	c := Chunk{Index: 0, Start: 0, End: 2}

	tests := []struct {
		name    string
		res     chunkResult[int]
		wantErr string
	}{
		{name: "complete", res: chunkResult[int]{Chunk: c, Values: map[int]int{0: 1, 1: 2}}},
		{name: "wrong chunk", res: chunkResult[int]{Chunk: Chunk{Index: 1, End: 2}, Values: map[int]int{0: 1, 1: 2}}, wantErr: "expected chunk 0"},
		{name: "short", res: chunkResult[int]{Chunk: c, Values: map[int]int{0: 1}}, wantErr: "got 1 values"},
		{name: "wrong index", res: chunkResult[int]{Chunk: c, Values: map[int]int{0: 1, 5: 2}}, wantErr: "missing value for item 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]int, 2)

			err := tt.res.merge(c, out)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, out)
		})
	}
}

func TestRegister(t *testing.T) {
	assert.Contains(t, Tasks(), squareTask.Name())
	assert.IsNonDecreasing(t, Tasks())

	assert.PanicsWithValue(t, `parallel: task "test-square" registered twice`, func() {
		Register("test-square", Pure(func(x int) int { return x }))
	})
	assert.Panics(t, func() { Register("", Pure(func(x int) int { return x })) })
	assert.Panics(t, func() { Register[int, int]("test-nil", nil) })
}
