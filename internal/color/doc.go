// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for console output.
//
// Output is coloured only when the destination is a terminal, unless the
// NO_COLOR or FORCE_COLOR environment variables say otherwise. NO_COLOR always wins.
// Diagnostics are written to stderr and results to stdout, so detection is done
// per stream.
package color
