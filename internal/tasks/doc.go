// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tasks contains the built-in tasks of the aoc harness.
//
// Every task is registered with the parallel package when this package is
// initialised, so a binary that imports it can run the tasks in worker processes.
// A Binding drives a task from untyped values, as read from an items file.
package tasks
