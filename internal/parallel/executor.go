// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/spf13/afero"
)

// Executor runs Map calls. The zero value is not usable; create one with New.
// An Executor holds no per-call state and may be used concurrently.
type Executor struct {
	workers  int
	spawner  Spawner
	prober   CoreProber
	tempDir  string
	observer func(State)
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the number of workers. Zero or less means one per CPU core.
// The count is clamped to the number of items on every call.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		e.workers = n
	}
}

// WithSpawner sets how workers are isolated. The default is a ProcessSpawner.
func WithSpawner(s Spawner) Option {
	return func(e *Executor) {
		e.spawner = s
	}
}

// WithCoreProber sets the probe used when no worker count is configured.
func WithCoreProber(p CoreProber) Option {
	return func(e *Executor) {
		e.prober = p
	}
}

// WithTempDir sets the directory under which each call creates its private
// channel directory. The default is the system temporary directory.
func WithTempDir(dir string) Option {
	return func(e *Executor) {
		e.tempDir = dir
	}
}

// WithStateObserver registers fn to be called synchronously on every state change of a call.
func WithStateObserver(fn func(State)) Option {
	return func(e *Executor) {
		e.observer = fn
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		spawner: NewProcessSpawner(),
		prober:  DefaultProber(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run maps task over items with a default Executor.
// workers <= 0 means one worker per CPU core.
func Run[T, R any](ctx context.Context, task *Task[T, R], items []T, workers int) ([]R, error) {
	return Map(ctx, New(WithWorkers(workers)), task, items)
}

// Map applies task to every item and returns the results in input order.
//
// The items are split into contiguous chunks, one per worker, and the workers run
// concurrently. Map returns once every worker has terminated and its channel has been
// removed. It either returns a result for every item or an error; never a partial result.
//
// Errors match ErrSpawnFailure, ErrCollectionFailure or ErrItemProcessing. Use
// errors.As with *ItemError to find the failing item. If the spawner is not supported
// in this environment the items are processed sequentially instead.
//
// Before any worker starts, Map checks that the item and result types can be copied
// to and from a worker; if not it returns ErrEncode. A nil task returns ErrNilTask.
func Map[T, R any](ctx context.Context, e *Executor, task *Task[T, R], items []T) ([]R, error) {
	if task == nil {
		return nil, ErrNilTask
	}

	if e == nil {
		e = New()
	}

	ctx = ctxlog.With(ctx, "task", task.Name(), "items", len(items))
	e.enter(ctx, StateInit)

	if len(items) == 0 {
		e.enter(ctx, StateReturned)
		return []R{}, nil
	}

	if !e.spawner.Supported() {
		ctxlog.Debug(ctx, "worker isolation not supported, running sequentially")
		return mapSequential(ctx, e, task, items)
	}

	workers := e.workerCount(ctx, len(items))
	if workers == 1 {
		return mapSequential(ctx, e, task, items)
	}

	return mapParallel(ctx, e, task, items, workers)
}

func (e *Executor) enter(ctx context.Context, s State) {
	ctxlog.Debug(ctx, "state change", "state", s.String())

	if e.observer != nil {
		e.observer(s)
	}
}

func (e *Executor) abort(ctx context.Context, err error) error {
	ctxlog.Debug(ctx, "call aborted", "error", err)
	e.enter(ctx, StateAborted)

	return err
}

// workerCount returns the configured or probed worker count clamped to [1, n].
func (e *Executor) workerCount(ctx context.Context, n int) int {
	w := e.workers
	if w <= 0 {
		w = detectCores(ctx, e.prober)
	}

	return max(1, min(w, n))
}

func mapSequential[T, R any](ctx context.Context, e *Executor, task *Task[T, R], items []T) ([]R, error) {
	e.enter(ctx, StateSequential)

	out := make([]R, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, e.abort(ctx, err)
		}

		v, err := task.apply(ctx, item)
		if err != nil {
			return nil, e.abort(ctx, &ItemError{Index: i, Err: err})
		}

		out[i] = v
	}

	e.enter(ctx, StateReturned)

	return out, nil
}

// worker is the coordinator's record of one spawned worker.
type worker struct {
	spec   WorkerSpec
	handle Handle
}

func mapParallel[T, R any](ctx context.Context, e *Executor, task *Task[T, R], items []T, workers int) ([]R, error) {
	chunks := Partition(len(items), workers)

	if err := checkEncodable[T, R](chunks[0], items[:1]); err != nil {
		return nil, e.abort(ctx, err)
	}

	e.enter(ctx, StateDispatching)

	fs := e.spawner.Fs()

	dir, err := afero.TempDir(fs, e.tempDir, "aoc-parallel-")
	if err != nil {
		return nil, e.abort(ctx, errors.Join(ErrSpawnFailure, err))
	}

	defer func() {
		if err := fs.RemoveAll(dir); err != nil {
			ctxlog.Warn(ctx, "failed to remove channel directory", "dir", dir, "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	spawned := make([]worker, 0, len(chunks))

	for _, c := range chunks {
		w, err := dispatch(ctx, e.spawner, fs, dir, task, c, items[c.Start:c.End])
		if err != nil {
			// Tear down what is already running before reporting the failure.
			cancel()
			join(spawned)

			return nil, e.abort(ctx, errors.Join(ErrSpawnFailure, fmt.Errorf("%s: %w", c, err)))
		}

		spawned = append(spawned, w)
	}

	ctxlog.Debug(ctx, "all workers spawned", "workers", len(spawned))
	e.enter(ctx, StateAllSpawned)

	e.enter(ctx, StateJoining)

	var merr *multierror.Error

	for i, err := range join(spawned) {
		if err != nil {
			merr = multierror.Append(merr, errors.Join(ErrCollectionFailure, fmt.Errorf("%s: %w", spawned[i].spec.Chunk, err)))
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, e.abort(ctx, err)
	}

	e.enter(ctx, StateCollecting)

	out := make([]R, len(items))

	for _, w := range spawned {
		if err := collect(fs, w.spec, out); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, e.abort(ctx, err)
	}

	e.enter(ctx, StateMerged)
	e.enter(ctx, StateReturned)

	return out, nil
}

// dispatch writes the chunk's payload, creates its channel and spawns its worker.
func dispatch[T, R any](
	ctx context.Context,
	s Spawner,
	fs afero.Fs,
	dir string,
	task *Task[T, R],
	c Chunk,
	items []T,
) (worker, error) {
	spec := WorkerSpec{
		Chunk:  c,
		Task:   task.Name(),
		Input:  filepath.Join(dir, fmt.Sprintf("chunk-%d.in", c.Index)),
		Output: filepath.Join(dir, fmt.Sprintf("chunk-%d.out", c.Index)),
		runner: task,
	}

	if err := writePayload(fs, spec.Input, c, items); err != nil {
		return worker{}, err
	}

	if err := createChannel(fs, spec.Output); err != nil {
		return worker{}, err
	}

	h, err := s.Spawn(ctx, spec)
	if err != nil {
		return worker{}, err //nolint:wrapcheck
	}

	return worker{spec: spec, handle: h}, nil
}

// join waits for every worker in spawn order and returns their errors in the same order.
func join(workers []worker) []error {
	errs := make([]error, len(workers))
	for i, w := range workers {
		errs[i] = w.handle.Wait()
	}

	return errs
}

// collect reads one worker's channel and merges it into out.
func collect[R any](fs afero.Fs, spec WorkerSpec, out []R) error {
	res, err := readChannel[R](fs, spec.Output)
	if err != nil {
		return errors.Join(ErrCollectionFailure, fmt.Errorf("%s: %w", spec.Chunk, err))
	}

	if res.Failed {
		return &ItemError{Index: res.FailedIndex, Err: errors.New(res.Failure)}
	}

	if err := res.merge(spec.Chunk, out); err != nil {
		return errors.Join(ErrCollectionFailure, err)
	}

	return nil
}
