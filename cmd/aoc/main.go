// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the aoc command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/aoc"
	"github.com/matt-FFFFFF/aoc/cmd/mapcmd"
	"github.com/matt-FFFFFF/aoc/cmd/tasklist"
	"github.com/matt-FFFFFF/aoc/cmd/verify"
	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
	"github.com/matt-FFFFFF/aoc/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		mapcmd.MapCmd,
		verify.VerifyCmd,
		tasklist.TasksCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "aoc",
	Description: `aoc runs puzzle solver tasks over lists of inputs. The inputs are split
into contiguous chunks and each chunk is solved in its own worker process, so a slow
solver uses every CPU core. Results are printed in input order.`,
	Usage:     "aoc map --task square --file items.yaml",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	// Worker processes stop here.
	parallel.Init()

	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer close(sigCh)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", aoc.Version, aoc.Commit)

	err := rootCmd.Run(ctx, os.Args)

	if ctx.Err() != nil {
		ctxlog.Error(ctx, "command terminated due to cancellation", "error", ctx.Err())
		return 1
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)
		return 1
	}

	ctxlog.Info(ctx, "command completed successfully")

	return 0
}
