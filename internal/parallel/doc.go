// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parallel maps a named transformation over a list of items using isolated workers.
//
// The items are split into contiguous chunks and every chunk is handed to its own worker.
// By default a worker is a re-executed copy of the running binary, so solvers get real
// OS-level parallelism and no worker can touch the memory of the caller or of a sibling.
// Items are copied into the worker and results are copied out through a private file
// that is created before the worker starts and removed once its results are merged.
// The returned slice is always in input order.
//
// Because a Go closure cannot cross a process boundary, transformations are registered
// by name at package initialisation:
//
//	var square = parallel.Register("square", parallel.Pure(func(x int) int { return x * x }))
//
// and the host binary must call Init first thing in main (and in TestMain for tests):
//
//	func main() {
//		parallel.Init()
//		...
//		out, err := parallel.Map(ctx, parallel.New(), square, []int{1, 2, 3})
//	}
//
// When Init was not called, or the platform cannot start processes, Map silently runs
// the transformation sequentially in the calling goroutine. The result is the same, within the copying
// limits described below.
//
// Item and result types must be encodable with encoding/gob. When workers are used,
// Map encodes a sample item and an empty result before starting any of them and
// returns ErrEncode if either fails, for example for a struct with only unexported
// fields. The sequential path copies nothing and has no such requirement.
//
// Values that cross a worker boundary lose what gob does not transmit: an empty
// slice or map comes back nil, and pointers are dereferenced into fresh values.
// Compare results with that in mind when mixing isolation modes.
package parallel
