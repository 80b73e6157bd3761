// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a structured slog logger in a context.Context.
//
// The default logger writes human-readable lines to stderr using PrettyHandler.
// Its level is read from an environment variable named after the executable,
// e.g. AOC_LOG_LEVEL for a binary called "aoc". Worker processes are re-executed
// copies of the same binary, so they pick up the same setting.
package ctxlog
