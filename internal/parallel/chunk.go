// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import "fmt"

// Chunk is the contiguous range of items [Start, End) handled by one worker.
type Chunk struct {
	Index int // Position of the chunk, which is also the worker's spawn order
	Start int // First item index, inclusive
	End   int // Last item index, exclusive
}

// Len returns the number of items in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// String implements fmt.Stringer.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d [%d,%d)", c.Index, c.Start, c.End)
}

// Partition splits n items into contiguous chunks of ceil(n/workers) items.
// The last chunk may be smaller, and there may be fewer chunks than workers:
// 5 items over 4 workers gives chunks of 2, 2 and 1.
// workers is clamped to [1, n]. Partition returns nil when n is zero.
func Partition(n, workers int) []Chunk {
	if n <= 0 {
		return nil
	}

	workers = max(1, min(workers, n))
	size := (n + workers - 1) / workers

	chunks := make([]Chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   min(start+size, n),
		})
	}

	return chunks
}
