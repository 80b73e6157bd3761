// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
)

// Watch cancels the context on the first signal received on sigCh.
// A second signal of the same type exits the process with ForcedExitCode.
// Watch returns when sigCh is closed or, once cancelled, when ctx is done and no
// repeat signal is pending.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Error(ctx, "received second signal, forcing exit", "signal", sig.String())
				exit(ForcedExitCode)

				return
			}

			seen[sig] = struct{}{}

			ctxlog.Warn(ctx, "received signal, aborting", "signal", sig.String())
			cancel()

		case <-ctx.Done():
			if len(seen) == 0 {
				return
			}

			// Keep listening so a repeated signal can still force an exit
			// while cancellation is being processed.
			ctx = context.WithoutCancel(ctx)
		}
	}
}
