// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package mapcmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/matt-FFFFFF/aoc/internal/config"
	"github.com/matt-FFFFFF/aoc/internal/parallel"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestMain(m *testing.M) {
	parallel.Init()
	os.Exit(m.Run())
}

func stubFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&config.FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func runMap(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	root := &cli.Command{
		Name:     "aoc",
		Writer:   &buf,
		Commands: []*cli.Command{newCommand()},
	}

	err := root.Run(context.Background(), append([]string{"aoc", "map"}, args...))

	return buf.String(), err
}

func TestMap(t *testing.T) {
	stubFs(t, map[string]string{"/items.yaml": "items: [1, 2, 3, 4, 5]\n"})

	for _, iso := range []string{"process", "goroutine", "sequential"} {
		t.Run(iso, func(t *testing.T) {
			out, err := runMap(t, "--task", "square", "--file", "/items.yaml", "--workers", "2", "--isolation", iso)
			require.NoError(t, err)
			assert.Equal(t, "1\n4\n9\n16\n25\n", out)
		})
	}
}

func TestMap_Strings(t *testing.T) {
	stubFs(t, map[string]string{"/items.yaml": "items: [abc]\n"})

	out, err := runMap(t, "-t", "digest", "-f", "/items.yaml", "-i", "goroutine")
	require.NoError(t, err)
	assert.Equal(t, "\"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\"\n", out)
}

func TestMap_ConfigFile(t *testing.T) {
	stubFs(t, map[string]string{
		"/aoc.yaml":   "workers: 3\nisolation: goroutine\n",
		"/items.yaml": "items: [1, 6, 27]\n",
	})

	out, err := runMap(t, "--task", "collatz", "--file", "/items.yaml", "--config", "/aoc.yaml")
	require.NoError(t, err)
	assert.Equal(t, "0\n8\n111\n", out)
}

func TestMap_Errors(t *testing.T) {
	stubFs(t, map[string]string{"/items.yaml": "items: [1, -2, 3]\n"})

	tcs := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "unknown task",
			args:    []string{"--task", "nope", "--file", "/items.yaml"},
			wantErr: parallel.ErrUnknownTask,
		},
		{
			name:    "missing file",
			args:    []string{"--task", "square", "--file", "/missing.yaml"},
			wantErr: config.ErrReadFile,
		},
		{
			name:    "invalid isolation",
			args:    []string{"--task", "square", "--file", "/items.yaml", "--isolation", "fork"},
			wantErr: config.ErrInvalidIsolation,
		},
		{
			name:    "item failure",
			args:    []string{"--task", "fail-on-negative", "--file", "/items.yaml", "--isolation", "goroutine", "--workers", "3"},
			wantErr: parallel.ErrItemProcessing,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runMap(t, tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, out)
		})
	}
}
