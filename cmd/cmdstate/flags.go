// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate builds the executor and task state shared by the subcommands
// from their command line flags.
package cmdstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/aoc/internal/config"
	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
	"github.com/matt-FFFFFF/aoc/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	TaskFlag      = "task"
	FileFlag      = "file"
	WorkersFlag   = "workers"
	IsolationFlag = "isolation"
	ConfigFlag    = "config"
)

// ErrConfig is returned when the configuration cannot be built.
var ErrConfig = errors.New("failed to build configuration")

// Flags returns the flags of a subcommand that runs a task over an items file.
// Every call returns new flags, so commands do not share parsed values.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     TaskFlag,
			Aliases:  []string{"t"},
			Usage:    "Name of the task to run, see 'aoc tasks'",
			Required: true,
		},
		&cli.StringFlag{
			Name:      FileFlag,
			Aliases:   []string{"f"},
			Usage:     "YAML file with an items list and an optional expect list",
			Required:  true,
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:        WorkersFlag,
			Aliases:     []string{"w"},
			Usage:       "Number of workers, 0 uses one per CPU core",
			DefaultText: "from config, or 0",
		},
		&cli.StringFlag{
			Name:        IsolationFlag,
			Aliases:     []string{"i"},
			Usage:       "Worker isolation: process, goroutine or sequential",
			DefaultText: "from config, or process",
		},
		&cli.StringFlag{
			Name:      ConfigFlag,
			Aliases:   []string{"c"},
			Usage:     "YAML configuration file",
			TakesFile: true,
		},
	}
}

// State is what a subcommand needs to run a task.
type State struct {
	Config  config.Config
	Binding tasks.Binding
	Items   config.Items
}

// Load reads the configuration and items file named by the flags of cmd.
// Flags that are set override the configuration file.
func Load(ctx context.Context, cmd *cli.Command) (*State, error) {
	cfg, err := config.Load(cmd.String(ConfigFlag))
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	if cmd.IsSet(WorkersFlag) {
		cfg.Workers = cmd.Int(WorkersFlag)
	}

	if cmd.IsSet(IsolationFlag) {
		cfg.Isolation = config.Isolation(cmd.String(IsolationFlag))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	b, err := tasks.Lookup(cmd.String(TaskFlag))
	if err != nil {
		return nil, err
	}

	items, err := config.LoadItems(cmd.String(FileFlag))
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "loaded items",
		"task", b.Name(),
		"items", len(items.Items),
		"workers", cfg.Workers,
		"isolation", string(cfg.Isolation),
	)

	return &State{Config: cfg, Binding: b, Items: items}, nil
}

// Executor returns an executor for the configuration.
func (s *State) Executor() (*parallel.Executor, error) {
	opts, err := s.Config.ExecutorOptions()
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	return parallel.New(opts...), nil
}

// Run maps the task over the items with the configured executor.
func (s *State) Run(ctx context.Context) ([]any, error) {
	e, err := s.Executor()
	if err != nil {
		return nil, err
	}

	out, err := s.Binding.Run(ctx, e, s.Items.Items)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", s.Binding.Name(), err)
	}

	return out, nil
}
