// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/spf13/afero"
)

// Environment variables that turn a re-executed binary into a worker.
const (
	envTask   = "AOC_PARALLEL_TASK"
	envInput  = "AOC_PARALLEL_INPUT"
	envOutput = "AOC_PARALLEL_OUTPUT"
	envChunk  = "AOC_PARALLEL_CHUNK"
)

// workerFailureExitCode is used when a worker could not produce a result file.
// A worker that produced a result, even one reporting a failed item, exits 0.
const workerFailureExitCode = 3

// initialised records that Init ran in this process, which is what makes
// process workers available.
var initialised atomic.Bool

// workerExit is replaced in tests.
var workerExit = os.Exit

// Init must be the first call in main (or TestMain) of any binary that uses
// process workers.
//
// In a worker process Init runs the requested chunk and exits; it never returns.
// In any other process it enables process isolation and returns immediately.
func Init() {
	name, ok := os.LookupEnv(envTask)
	if !ok {
		initialised.Store(true)
		return
	}

	workerExit(serveProcess(context.Background(), name, os.Getenv(envInput), os.Getenv(envOutput)))
}

// serveProcess is the body of a worker process. It returns the process exit code.
func serveProcess(ctx context.Context, task, inPath, outPath string) int {
	ctx = ctxlog.With(ctx, "task", task, "chunk", os.Getenv(envChunk), "pid", strconv.Itoa(os.Getpid()))

	rn, err := defaultRegistry.lookup(task)
	if err != nil {
		ctxlog.Error(ctx, "worker cannot run task", "error", err)
		return workerFailureExitCode
	}

	ctxlog.Debug(ctx, "worker started")

	if err := serveFiles(ctx, afero.NewOsFs(), rn, inPath, outPath); err != nil {
		ctxlog.Error(ctx, "worker failed", "error", err)
		return workerFailureExitCode
	}

	ctxlog.Debug(ctx, "worker finished")

	return 0
}

// serveFiles runs rn with input read from inPath and results written to outPath.
// outPath must already exist: the coordinator owns the channel's creation.
func serveFiles(ctx context.Context, fs afero.Fs, rn runner, inPath, outPath string) (err error) {
	in, err := fs.Open(inPath)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer in.Close() //nolint:errcheck

	out, err := fs.OpenFile(outPath, os.O_WRONLY|os.O_TRUNC, channelPerm)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() {
		err = errors.Join(err, out.Close())
	}()

	return rn.serve(ctx, in, out)
}
