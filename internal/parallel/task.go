// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
)

// Func transforms a single item. It runs inside an isolated worker, so anything it
// writes outside its return value is invisible to the caller.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Pure adapts an infallible function to a Func.
func Pure[T, R any](fn func(T) R) Func[T, R] {
	return func(_ context.Context, item T) (R, error) {
		return fn(item), nil
	}
}

// Task is a transformation registered under a name, so that a worker process
// can find it again after re-executing the binary.
type Task[T, R any] struct {
	name string
	fn   Func[T, R]
}

// Name returns the registered name of the task.
func (t *Task[T, R]) Name() string {
	return t.name
}

// Register adds fn to the task registry under name and returns the task.
// It must be called during package initialisation, before Init, so that worker
// processes register the same tasks. Register panics if name is empty, fn is nil
// or the name is already taken.
func Register[T, R any](name string, fn Func[T, R]) *Task[T, R] {
	if name == "" {
		panic("parallel: Register with empty task name")
	}

	if fn == nil {
		panic("parallel: Register with nil function for task " + name)
	}

	t := &Task[T, R]{name: name, fn: fn}
	defaultRegistry.add(name, t)

	return t
}

// Tasks returns the names of all registered tasks, sorted.
func Tasks() []string {
	return defaultRegistry.names()
}

// apply runs the transformation for one item, turning a panic into an error.
func (t *Task[T, R]) apply(ctx context.Context, item T) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewPanicError(p)
		}
	}()

	return t.fn(ctx, item)
}

// serve is the worker body: decode a chunk from r, transform every item in order
// and encode the index-keyed results to w. Processing stops at the first failing item.
func (t *Task[T, R]) serve(ctx context.Context, r io.Reader, w io.Writer) error {
	var in chunkPayload[T]
	if err := readGob(r, &in); err != nil {
		return err
	}

	out := chunkResult[R]{
		Chunk:  in.Chunk,
		Values: make(map[int]R, len(in.Items)),
	}

	for i, item := range in.Items {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		idx := in.Chunk.Start + i

		v, err := t.apply(ctx, item)
		if err != nil {
			out.Failed = true
			out.FailedIndex = idx
			out.Failure = err.Error()

			break
		}

		out.Values[idx] = v
	}

	return writeGob(w, out)
}

// runner is the type-erased view of a Task used on the worker side.
type runner interface {
	Name() string
	serve(ctx context.Context, r io.Reader, w io.Writer) error
}

type registry struct {
	mu    sync.RWMutex
	tasks map[string]runner
}

var defaultRegistry = &registry{tasks: make(map[string]runner)}

func (r *registry) add(name string, rn runner) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[name]; exists {
		panic(fmt.Sprintf("parallel: task %q registered twice", name))
	}

	r.tasks[name] = rn
}

func (r *registry) lookup(name string) (runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rn, ok := r.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}

	return rn, nil
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
