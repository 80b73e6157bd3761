// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify contains the verify subcommand.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/aoc/cmd/cmdstate"
	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
	"github.com/matt-FFFFFF/aoc/internal/testrunner"
	"github.com/urfave/cli/v3"
)

var (
	// ErrVerify is returned when at least one check failed.
	ErrVerify = errors.New("verification failed")
	// ErrWriteSummary is returned when the summary cannot be written.
	ErrWriteSummary = errors.New("failed to write summary")
)

// VerifyCmd checks that the parallel results of a task match the sequential ones,
// and the expected results of the items file if it has any.
var VerifyCmd = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check parallel results against sequential and expected results",
		Description: `Run a task over the items of a YAML file twice, once sequentially and once
with the configured workers. The run passes when both agree and, if the file has an
expect list, when the results match it.`,
		Flags:  cmdstate.Flags(),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	st, err := cmdstate.Load(ctx, cmd)
	if err != nil {
		return err
	}

	seq := parallel.New(parallel.WithSpawner(parallel.SequentialSpawner{}))

	want, err := st.Binding.Run(ctx, seq, st.Items.Items)
	if err != nil {
		return fmt.Errorf("sequential run: %w", err)
	}

	got, err := st.Run(ctx)
	if err != nil {
		return fmt.Errorf("parallel run: %w", err)
	}

	r := testrunner.New()
	r.AssertEqual(len(st.Items.Items), len(got), "one result per item")
	r.AssertEqual(want, got, "parallel results match sequential results")

	if st.Items.HasExpect() {
		exp, err := st.Binding.Results(st.Items.Expect)
		if err != nil {
			return err
		}

		r.AssertEqual(exp, got, "results match the expect list")
	}

	if err := r.Print(cmd.Root().Writer); err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	ctxlog.Debug(ctx, "verification done", "passed", r.Passed(), "failed", r.Failed())

	if r.HasFailures() {
		return fmt.Errorf("%w: %d of %d checks", ErrVerify, r.Failed(), r.Total())
	}

	return nil
}
