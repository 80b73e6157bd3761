// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mapcmd contains the map subcommand.
package mapcmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/matt-FFFFFF/aoc/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

// ErrWriteResults is returned when the results cannot be written.
var ErrWriteResults = errors.New("failed to write results")

// MapCmd runs a task over the items of a file and prints one JSON value per result.
var MapCmd = newCommand()

func newCommand() *cli.Command {
	return &cli.Command{
		Name:        "map",
		Usage:       "Run a task over every item of a file",
		Description: "Run a task over the items of a YAML file in parallel workers and print one JSON encoded result per line, in item order.",
		Flags:       cmdstate.Flags(),
		Action:      actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	st, err := cmdstate.Load(ctx, cmd)
	if err != nil {
		return err
	}

	out, err := st.Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	for _, v := range out {
		if err := enc.Encode(v); err != nil {
			return errors.Join(ErrWriteResults, err)
		}
	}

	return nil
}
