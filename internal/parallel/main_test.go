// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// Tasks are registered at package level so that re-executed test binaries,
// acting as worker processes, know them too.
var (
	errNegative = errors.New("negative input")

	squareTask = Register("test-square", Pure(func(x int) int { return x * x }))
	upperTask  = Register("test-upper", Pure(strings.ToUpper))
	pidTask    = Register("test-pid", Pure(func(int) int { return os.Getpid() }))
	sleepTask  = Register("test-sleep", Pure(func(d time.Duration) time.Duration {
		time.Sleep(d)
		return d
	}))
	failNegativeTask = Register("test-fail-negative", func(_ context.Context, x int) (int, error) {
		if x < 0 {
			return 0, errNegative
		}

		return x, nil
	})
	panicTask = Register("test-panic", Pure(func(x int) int {
		if x == 3 {
			panic("three is not allowed")
		}

		return x
	}))
)

// opaque has no exported fields, so gob cannot copy it.
type opaque struct{ v int }

var (
	opaqueResultTask = Register("test-opaque-result", Pure(func(x int) opaque { return opaque{v: x} }))
	opaqueItemTask   = Register("test-opaque-item", Pure(func(o opaque) int { return o.v }))
	emptySliceTask   = Register("test-empty-slice", Pure(func(int) []int { return []int{} }))
)

// sideEffects is written by mutateTask to show that worker processes cannot
// change the caller's memory.
var sideEffects int

var mutateTask = Register("test-mutate", Pure(func(x int) int {
	sideEffects += x
	return sideEffects
}))

func TestMain(m *testing.M) {
	Init()
	os.Exit(m.Run())
}
