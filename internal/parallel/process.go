// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// Replaced in tests.
	executable   = os.Executable
	startProcess = os.StartProcess
)

// ProcessSpawner runs each worker in a re-executed copy of the current binary.
// The binary must call Init at the start of main.
type ProcessSpawner struct {
	// Env is appended to the environment inherited by workers.
	Env []string
}

var _ Spawner = (*ProcessSpawner)(nil)

// NewProcessSpawner returns a ProcessSpawner.
func NewProcessSpawner() *ProcessSpawner {
	return &ProcessSpawner{}
}

// Supported implements Spawner. Process workers need Init to have run, a
// resolvable executable and a platform that can start processes.
func (s *ProcessSpawner) Supported() bool {
	switch runtime.GOOS {
	case "js", "wasip1", "ios":
		return false
	}

	if !initialised.Load() {
		return false
	}

	_, err := executable()

	return err == nil
}

// Fs implements Spawner. Workers are separate processes, so channels live on the OS filesystem.
func (s *ProcessSpawner) Fs() afero.Fs {
	return afero.NewOsFs()
}

// Spawn implements Spawner.
func (s *ProcessSpawner) Spawn(ctx context.Context, spec WorkerSpec) (Handle, error) {
	exe, err := executable()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	env := append(os.Environ(), s.Env...)
	env = append(env,
		envTask+"="+spec.Task,
		envInput+"="+spec.Input,
		envOutput+"="+spec.Output,
		envChunk+"="+strconv.Itoa(spec.Chunk.Index),
	)

	// Workers must not write to stdout, which belongs to the caller's results.
	ps, err := startProcess(exe, []string{exe}, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, os.Stderr, os.Stderr},
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	ctxlog.Debug(ctx, "worker process started", "chunk", spec.Chunk.Index, "pid", ps.Pid)

	h := &processHandle{
		ps:   ps,
		done: make(chan struct{}),
	}

	go h.watch(ctx)

	return h, nil
}

type processHandle struct {
	ps     *os.Process
	done   chan struct{}
	killed atomic.Bool
	ctxErr error
}

// watch kills the process when ctx is cancelled before the process has been reaped.
func (h *processHandle) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		h.ctxErr = ctx.Err()
		h.killed.Store(true)
		killPs(ctx, h.ps)
		<-h.done
	case <-h.done:
	}
}

// Wait implements Handle.
func (h *processHandle) Wait() error {
	state, err := h.ps.Wait()
	close(h.done)

	if err != nil {
		return errors.Join(ErrWorkerExit, err)
	}

	if state.Success() {
		return nil
	}

	err = fmt.Errorf("%w: pid %d: %s", ErrWorkerExit, h.ps.Pid, state.String())
	if h.killed.Load() {
		err = errors.Join(err, h.ctxErr)
	}

	return err
}

// killPs kills the process, tolerating one that has already finished.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "worker process killed", "pid", ps.Pid)
}
