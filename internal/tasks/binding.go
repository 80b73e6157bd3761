// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
)

// ErrValues is returned when values cannot be converted to the item or result type of a task.
var ErrValues = errors.New("values do not match the task type")

// Binding runs a task on untyped values.
type Binding interface {
	// Name returns the registered task name.
	Name() string
	// Description returns a one line summary of the task.
	Description() string
	// Run converts items to the task's item type and maps the task over them.
	Run(ctx context.Context, e *parallel.Executor, items []any) ([]any, error)
	// Results converts values to the task's result type, so they compare equal
	// to what Run returns.
	Results(values []any) ([]any, error)
}

type binding[T, R any] struct {
	task *parallel.Task[T, R]
	desc string
}

func bind[T, R any](task *parallel.Task[T, R], desc string) Binding {
	return &binding[T, R]{task: task, desc: desc}
}

func (b *binding[T, R]) Name() string {
	return b.task.Name()
}

func (b *binding[T, R]) Description() string {
	return b.desc
}

func (b *binding[T, R]) Run(ctx context.Context, e *parallel.Executor, items []any) ([]any, error) {
	in, err := convert[T](items)
	if err != nil {
		return nil, fmt.Errorf("task %q items: %w", b.Name(), err)
	}

	out, err := parallel.Map(ctx, e, b.task, in)
	if err != nil {
		return nil, err
	}

	return erase(out), nil
}

func (b *binding[T, R]) Results(values []any) ([]any, error) {
	out, err := convert[R](values)
	if err != nil {
		return nil, fmt.Errorf("task %q results: %w", b.Name(), err)
	}

	return erase(out), nil
}

// convert round-trips values through YAML so that numbers decoded as any end up
// in the concrete type V.
func convert[V any](values []any) ([]V, error) {
	if len(values) == 0 {
		return []V{}, nil
	}

	b, err := yaml.Marshal(values)
	if err != nil {
		return nil, errors.Join(ErrValues, err)
	}

	var out []V
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, errors.Join(ErrValues, err)
	}

	if len(out) != len(values) {
		return nil, fmt.Errorf("%w: decoded %d of %d values", ErrValues, len(out), len(values))
	}

	return out, nil
}

func erase[V any](values []V) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}

var bindings = index(
	bind(Square, "square an integer"),
	bind(Collatz, "count Collatz steps from a positive integer down to 1"),
	bind(Digest, "hex encoded SHA-256 of a string"),
	bind(FailOnNegative, "return an integer unchanged, failing on negative values"),
)

func index(bs ...Binding) map[string]Binding {
	m := make(map[string]Binding, len(bs))
	for _, b := range bs {
		m[b.Name()] = b
	}

	return m
}

// Lookup returns the binding of the named task.
func Lookup(name string) (Binding, error) {
	b, ok := bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", parallel.ErrUnknownTask, name)
	}

	return b, nil
}

// All returns every binding, sorted by name.
func All() []Binding {
	names := slices.Sorted(maps.Keys(bindings))
	out := make([]Binding, len(names))

	for i, n := range names {
		out[i] = bindings[n]
	}

	return out
}
