// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads the harness configuration and item files.
package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidIsolation is returned for an unknown isolation mode.
	ErrInvalidIsolation = errors.New("invalid isolation, must be one of process, goroutine or sequential")
	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("workers must not be negative")
	// ErrInvalidYaml is returned when a file cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrReadFile is returned when a file cannot be read.
	ErrReadFile = errors.New("failed to read file")
)

// Isolation selects how workers are isolated from the caller.
type Isolation string

const (
	// IsolationProcess runs each chunk in a re-executed copy of the binary.
	IsolationProcess Isolation = "process"
	// IsolationGoroutine runs each chunk in a goroutine on copied data.
	IsolationGoroutine Isolation = "goroutine"
	// IsolationSequential runs every item in the caller.
	IsolationSequential Isolation = "sequential"
)

// Valid reports whether i is a known isolation mode.
func (i Isolation) Valid() bool {
	switch i {
	case IsolationProcess, IsolationGoroutine, IsolationSequential:
		return true
	}

	return false
}

// Spawner returns the parallel spawner for the isolation mode.
func (i Isolation) Spawner() (parallel.Spawner, error) {
	switch i {
	case IsolationProcess:
		return parallel.NewProcessSpawner(), nil
	case IsolationGoroutine:
		return parallel.NewGoroutineSpawner(nil), nil
	case IsolationSequential:
		return parallel.SequentialSpawner{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidIsolation, string(i))
}

// Config is the harness configuration.
type Config struct {
	Workers   int       `yaml:"workers"`   // 0 probes the number of CPU cores
	Isolation Isolation `yaml:"isolation"` // process, goroutine or sequential
	TempDir   string    `yaml:"tempDir"`   // parent of the per-call channel directories
}

// Default returns the default configuration.
func Default() Config {
	return Config{Isolation: IsolationProcess}
}

// Load reads the configuration at path. An empty path returns the defaults.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return cfg, errors.Join(ErrReadFile, err)
	}

	if err := yaml.UnmarshalWithOptions(b, &cfg, yaml.DisallowUnknownField()); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidYaml, path, err)
	}

	if cfg.Isolation == "" {
		cfg.Isolation = IsolationProcess
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var err error

	if c.Workers < 0 {
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers))
	}

	if !c.Isolation.Valid() {
		err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidIsolation, string(c.Isolation)))
	}

	return err
}

// ExecutorOptions returns the parallel options for the configuration.
func (c Config) ExecutorOptions() ([]parallel.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, err := c.Isolation.Spawner()
	if err != nil {
		return nil, err
	}

	opts := []parallel.Option{
		parallel.WithWorkers(c.Workers),
		parallel.WithSpawner(s),
	}

	if c.TempDir != "" {
		opts = append(opts, parallel.WithTempDir(c.TempDir))
	}

	return opts, nil
}
