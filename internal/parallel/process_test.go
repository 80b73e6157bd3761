// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireProcessWorkers(t *testing.T) {
	t.Helper()

	if !NewProcessSpawner().Supported() {
		t.Skip("process workers are not supported on this platform")
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "channel directory should be removed")
}

func TestProcessSpawner_Map(t *testing.T) {
	requireProcessWorkers(t)

	dir := t.TempDir()
	items := seq(11)

	e := New(WithWorkers(4), WithTempDir(dir))

	got, err := Map(context.Background(), e, squareTask, items)
	require.NoError(t, err)
	assert.Equal(t, squares(items), got)
	assertDirEmpty(t, dir)
}

func TestProcessSpawner_MatchesSequential(t *testing.T) {
	requireProcessWorkers(t)

	items := []string{"north", "pole", "elves", "sleigh", "reindeer"}

	want, err := Map(context.Background(), New(WithSpawner(SequentialSpawner{})), upperTask, items)
	require.NoError(t, err)

	for _, w := range []int{1, 2, len(items)} {
		got, err := Run(context.Background(), upperTask, items, w)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", w)
	}

	got, err := Run(context.Background(), upperTask, items, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got, "probed workers")
}

func TestProcessSpawner_WorkersAreSeparateProcesses(t *testing.T) {
	requireProcessWorkers(t)

	got, err := Map(context.Background(), New(WithWorkers(3)), pidTask, seq(3))
	require.NoError(t, err)

	pids := make(map[int]struct{})
	for _, pid := range got {
		assert.NotEqual(t, os.Getpid(), pid)
		pids[pid] = struct{}{}
	}

	assert.Len(t, pids, 3, "one process per chunk")
}

func TestProcessSpawner_CannotMutateCaller(t *testing.T) {
	requireProcessWorkers(t)

	got, err := Map(context.Background(), New(WithWorkers(2)), mutateTask, []int{1, 2, 3, 4})
	require.NoError(t, err)

	// Each worker starts from a fresh copy of the package state.
	assert.Equal(t, []int{1, 3, 3, 7}, got)
	assert.Zero(t, sideEffects)
}

func TestProcessSpawner_ItemFailure(t *testing.T) {
	requireProcessWorkers(t)

	dir := t.TempDir()

	_, err := Map(context.Background(), New(WithWorkers(3), WithTempDir(dir)), failNegativeTask, []int{1, 2, 3, 4, 5, -6})
	require.ErrorIs(t, err, ErrItemProcessing)

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 5, itemErr.Index)
	assert.Equal(t, errNegative.Error(), itemErr.Err.Error())
	assertDirEmpty(t, dir)
}

func TestProcessSpawner_SpawnFailureStopsRunningWorkers(t *testing.T) {
	requireProcessWorkers(t)

	calls := 0
	stubs := gostub.Stub(&startProcess, func(name string, argv []string, attr *os.ProcAttr) (*os.Process, error) {
		calls++
		if calls == 3 {
			return nil, errors.New("fork/exec: resource temporarily unavailable")
		}

		return os.StartProcess(name, argv, attr)
	})
	defer stubs.Reset()

	dir := t.TempDir()
	items := []time.Duration{10 * time.Second, 10 * time.Second, 10 * time.Second, 10 * time.Second}

	start := time.Now()
	_, err := Map(context.Background(), New(WithWorkers(4), WithTempDir(dir)), sleepTask, items)

	require.ErrorIs(t, err, ErrSpawnFailure)
	assert.Less(t, time.Since(start), 5*time.Second, "running workers should have been killed")
	assert.Equal(t, 3, calls)
	assertDirEmpty(t, dir)
}

func TestProcessSpawner_ContextCancelKillsWorkers(t *testing.T) {
	requireProcessWorkers(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	dir := t.TempDir()
	items := []time.Duration{10 * time.Second, 10 * time.Second}

	start := time.Now()
	_, err := Map(ctx, New(WithWorkers(2), WithTempDir(dir)), sleepTask, items)

	require.ErrorIs(t, err, ErrCollectionFailure)
	require.ErrorIs(t, err, ErrWorkerExit)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assertDirEmpty(t, dir)
}

func TestProcessSpawner_UnsupportedWithoutExecutable(t *testing.T) {
	stubs := gostub.Stub(&executable, func() (string, error) {
		return "", errors.New("executable not found")
	})
	defer stubs.Reset()

	assert.False(t, NewProcessSpawner().Supported())

	var states []State

	e := New(WithWorkers(4), WithStateObserver(func(s State) { states = append(states, s) }))

	got, err := Map(context.Background(), e, squareTask, seq(6))
	require.NoError(t, err)
	assert.Equal(t, squares(seq(6)), got)
	assert.Contains(t, states, StateSequential)
}

func TestProcessSpawner_OutOfOrderCompletionKeepsInputOrder(t *testing.T) {
	requireProcessWorkers(t)

	dir := t.TempDir()
	items := []time.Duration{800 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond}

	got, err := Map(context.Background(), New(WithWorkers(3), WithTempDir(dir)), sleepTask, items)
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assertDirEmpty(t, dir)
}

func TestProcessSpawner_UnencodableResultFailsBeforeSpawn(t *testing.T) {
	requireProcessWorkers(t)

	var started int

	stubs := gostub.Stub(&startProcess, func(name string, argv []string, attr *os.ProcAttr) (*os.Process, error) {
		started++
		return os.StartProcess(name, argv, attr)
	})
	defer stubs.Reset()

	dir := t.TempDir()

	_, err := Map(context.Background(), New(WithWorkers(2), WithTempDir(dir)), opaqueResultTask, []int{1, 2})
	require.ErrorIs(t, err, ErrEncode)
	assert.NotErrorIs(t, err, ErrCollectionFailure)
	assert.Zero(t, started)
	assertDirEmpty(t, dir)
}
