// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"

	"github.com/spf13/afero"
)

// WorkerSpec describes a single worker to spawn.
type WorkerSpec struct {
	Chunk  Chunk  // The items the worker is responsible for
	Task   string // Registered name of the transformation
	Input  string // Path of the encoded chunk, on the spawner's filesystem
	Output string // Path of the result channel, on the spawner's filesystem

	runner runner
}

// Handle is a running worker.
type Handle interface {
	// Wait blocks until the worker has terminated and reports abnormal termination.
	// It must be called exactly once.
	Wait() error
}

// Spawner creates isolated workers.
type Spawner interface {
	// Supported reports whether the spawner can create workers in this environment.
	// It is a permanent property of the host, checked once per call.
	Supported() bool
	// Fs is the filesystem on which worker payloads and channels live.
	Fs() afero.Fs
	// Spawn starts a worker. It must not wait for the worker to finish.
	// The worker must be stopped when ctx is cancelled.
	Spawn(ctx context.Context, spec WorkerSpec) (Handle, error)
}

// SequentialSpawner never spawns workers, which makes every call run sequentially.
type SequentialSpawner struct{}

var _ Spawner = SequentialSpawner{}

// Supported implements Spawner and always returns false.
func (SequentialSpawner) Supported() bool {
	return false
}

// Fs implements Spawner.
func (SequentialSpawner) Fs() afero.Fs {
	return afero.NewMemMapFs()
}

// Spawn implements Spawner and always fails.
func (SequentialSpawner) Spawn(context.Context, WorkerSpec) (Handle, error) {
	return nil, ErrEnvironmentUnsupported
}
