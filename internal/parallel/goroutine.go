// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/spf13/afero"
)

// GoroutineSpawner runs each worker in its own goroutine.
//
// Workers still receive a decoded copy of their chunk and hand back an encoded copy
// of their results through a private file on Fs, so they share no memory with the
// caller or with each other. A transformation that mutates package-level state is
// not isolated, which is the price of not starting processes.
type GoroutineSpawner struct {
	fs afero.Fs
}

var _ Spawner = (*GoroutineSpawner)(nil)

// NewGoroutineSpawner returns a GoroutineSpawner keeping channels on fs.
// A nil fs uses an in-memory filesystem.
func NewGoroutineSpawner(fs afero.Fs) *GoroutineSpawner {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}

	return &GoroutineSpawner{fs: fs}
}

// Supported implements Spawner and always returns true.
func (s *GoroutineSpawner) Supported() bool {
	return true
}

// Fs implements Spawner.
func (s *GoroutineSpawner) Fs() afero.Fs {
	return s.fs
}

// Spawn implements Spawner.
func (s *GoroutineSpawner) Spawn(ctx context.Context, spec WorkerSpec) (Handle, error) {
	rn := spec.runner
	if rn == nil {
		var err error

		if rn, err = defaultRegistry.lookup(spec.Task); err != nil {
			return nil, err
		}
	}

	h := &goroutineHandle{done: make(chan struct{})}

	go func() {
		defer close(h.done)

		defer func() {
			if r := recover(); r != nil {
				ctxlog.Error(ctx, "worker goroutine panicked", "chunk", spec.Chunk.Index, "panic", r)
				h.err = errors.Join(ErrWorkerExit, NewPanicError(r))
			}
		}()

		if err := serveFiles(ctx, s.fs, rn, spec.Input, spec.Output); err != nil {
			h.err = errors.Join(ErrWorkerExit, err)
		}
	}()

	return h, nil
}

type goroutineHandle struct {
	done chan struct{}
	err  error
}

// Wait implements Handle.
func (h *goroutineHandle) Wait() error {
	<-h.done
	return h.err
}
