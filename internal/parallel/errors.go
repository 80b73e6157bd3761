// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"errors"
	"fmt"
)

var (
	// ErrEnvironmentUnsupported is returned by spawners that cannot create isolated workers.
	// Map never returns it; it falls back to sequential execution instead.
	ErrEnvironmentUnsupported = errors.New("process isolation is not supported")
	// ErrSpawnFailure is returned when a worker could not be created.
	ErrSpawnFailure = errors.New("failed to spawn worker")
	// ErrCollectionFailure is returned when a worker's results could not be collected.
	ErrCollectionFailure = errors.New("failed to collect worker results")
	// ErrItemProcessing is returned when the transformation failed for an item.
	ErrItemProcessing = errors.New("item processing failed")
	// ErrWorkerExit is returned when a worker process terminated abnormally.
	ErrWorkerExit = errors.New("worker exited abnormally")
	// ErrUnknownTask is returned when a worker is asked to run a task that is not registered.
	ErrUnknownTask = errors.New("unknown task")
	// ErrEncode is returned when a chunk or its results cannot be serialised.
	ErrEncode = errors.New("failed to encode worker data")
	// ErrDecode is returned when a chunk or its results cannot be deserialised.
	ErrDecode = errors.New("failed to decode worker data")
	// ErrNilTask is returned when Map is called without a task.
	ErrNilTask = errors.New("task must not be nil")
)

// ItemError reports the item for which the transformation failed.
// It matches ErrItemProcessing with errors.Is.
//
// When the item ran in a worker process the original error value does not survive
// the process boundary; Err then only carries its message.
type ItemError struct {
	Index int   // Index of the item in the input slice
	Err   error // Error returned by the transformation
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: item %d: %v", ErrItemProcessing, e.Index, e.Err)
}

// Unwrap returns ErrItemProcessing and the underlying error.
func (e *ItemError) Unwrap() []error {
	return []error{ErrItemProcessing, e.Err}
}

// PanicError is the error recorded when the transformation panics.
type PanicError struct {
	v any
}

// NewPanicError creates a PanicError for the recovered value v.
func NewPanicError(v any) error {
	return &PanicError{v: v}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	const prefix = "transformation panic:"

	switch x := e.v.(type) {
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.v.(error); ok {
		return err
	}

	return nil
}
