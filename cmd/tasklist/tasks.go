// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tasklist contains the tasks subcommand.
package tasklist

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/aoc/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TasksCmd lists the tasks that map and verify can run.
var TasksCmd = &cli.Command{
	Name:   "tasks",
	Usage:  "List the available tasks",
	Action: actionFunc,
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	for _, b := range tasks.All() {
		if _, err := fmt.Fprintf(w, "%-18s %s\n", b.Name(), b.Description()); err != nil {
			return err
		}
	}

	return nil
}
