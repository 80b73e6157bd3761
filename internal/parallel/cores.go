// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/aoc/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrCoreProbe is returned when the number of CPU cores cannot be determined.
var ErrCoreProbe = errors.New("failed to detect CPU cores")

// CoreProber detects how many CPU cores are available.
type CoreProber interface {
	Cores(ctx context.Context) (int, error)
}

// ProbeFunc adapts a function to a CoreProber.
type ProbeFunc func(ctx context.Context) (int, error)

// Cores implements CoreProber.
func (f ProbeFunc) Cores(ctx context.Context) (int, error) {
	return f(ctx)
}

// commandOutput runs a command and returns its stdout. Replaced in tests.
var commandOutput = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CPUInfoProbe counts the "processor" entries of a Linux cpuinfo file.
type CPUInfoProbe struct {
	Fs   afero.Fs
	Path string // Defaults to /proc/cpuinfo
}

// Cores implements CoreProber.
func (p CPUInfoProbe) Cores(_ context.Context) (int, error) {
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	path := p.Path
	if path == "" {
		path = "/proc/cpuinfo"
	}

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, errors.Join(ErrCoreProbe, err)
	}

	n := 0

	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "processor") {
			n++
		}
	}

	if err := sc.Err(); err != nil {
		return 0, errors.Join(ErrCoreProbe, err)
	}

	return n, nil
}

// SysctlProbe asks `sysctl -n hw.ncpu`, which works on macOS and the BSDs.
type SysctlProbe struct{}

// Cores implements CoreProber.
func (SysctlProbe) Cores(ctx context.Context) (int, error) {
	out, err := commandOutput(ctx, "sysctl", "-n", "hw.ncpu")
	if err != nil {
		return 0, errors.Join(ErrCoreProbe, err)
	}

	return parseCount(firstLine(out))
}

// WMICProbe asks `wmic cpu get NumberOfCores` on Windows.
// The first line of the output is a header.
type WMICProbe struct{}

// Cores implements CoreProber.
func (WMICProbe) Cores(ctx context.Context) (int, error) {
	out, err := commandOutput(ctx, "wmic", "cpu", "get", "NumberOfCores")
	if err != nil {
		return 0, errors.Join(ErrCoreProbe, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(out), "\r", ""), "\n")
	if len(lines) < 2 { //nolint:mnd
		return 0, fmt.Errorf("%w: unexpected wmic output %q", ErrCoreProbe, out)
	}

	return parseCount(lines[1])
}

// DefaultProber returns the probe for the current platform.
func DefaultProber() CoreProber {
	switch runtime.GOOS {
	case "linux", "android":
		return CPUInfoProbe{}
	case "darwin", "freebsd", "openbsd", "netbsd", "dragonfly":
		return SysctlProbe{}
	case "windows":
		return WMICProbe{}
	default:
		return ProbeFunc(func(context.Context) (int, error) {
			return 0, fmt.Errorf("%w: no probe for %s", ErrCoreProbe, runtime.GOOS)
		})
	}
}

// detectCores returns the number of cores reported by p, or 1 if it fails.
func detectCores(ctx context.Context, p CoreProber) int {
	if p == nil {
		return 1
	}

	n, err := p.Cores(ctx)
	if err != nil || n < 1 {
		ctxlog.Debug(ctx, "core detection failed, using one worker", "cores", n, "error", err)
		return 1
	}

	return n
}

func firstLine(b []byte) string {
	s, _, _ := strings.Cut(string(b), "\n")
	return s
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Join(ErrCoreProbe, err)
	}

	return n, nil
}
