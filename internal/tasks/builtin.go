// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/aoc/internal/parallel"
)

var (
	// ErrNotPositive is returned by Collatz for items smaller than 1.
	ErrNotPositive = errors.New("value must be positive")
	// ErrNegative is returned by FailOnNegative for negative items.
	ErrNegative = errors.New("negative value")
)

var (
	// Square squares an integer.
	Square = parallel.Register("square", parallel.Pure(square))
	// Collatz counts the steps of the Collatz sequence from an integer down to 1.
	Collatz = parallel.Register("collatz", collatz)
	// Digest returns the hex encoded SHA-256 sum of a string.
	Digest = parallel.Register("digest", parallel.Pure(digest))
	// FailOnNegative returns its input unchanged and fails for negative integers.
	FailOnNegative = parallel.Register("fail-on-negative", failOnNegative)
)

func square(n int) int {
	return n * n
}

func collatz(_ context.Context, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrNotPositive, n)
	}

	steps := 0

	for n != 1 {
		if n%2 == 0 {
			n /= 2
		} else {
			n = 3*n + 1
		}

		steps++
	}

	return steps, nil
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func failOnNegative(_ context.Context, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegative, n)
	}

	return n, nil
}
