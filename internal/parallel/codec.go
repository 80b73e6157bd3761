// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parallel

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// chunkPayload is what the coordinator copies into a worker.
type chunkPayload[T any] struct {
	Chunk Chunk
	Items []T
}

// chunkResult is what a worker copies back through its channel.
type chunkResult[R any] struct {
	Chunk       Chunk
	Values      map[int]R // Keyed by original item index
	Failed      bool
	FailedIndex int
	Failure     string
}

// merge copies the values of res into out, checking that every index of the
// expected chunk is present exactly once.
func (res chunkResult[R]) merge(want Chunk, out []R) error {
	if res.Chunk != want {
		return fmt.Errorf("result is for %s, expected %s", res.Chunk, want)
	}

	if len(res.Values) != want.Len() {
		return fmt.Errorf("%s: got %d values, expected %d", want, len(res.Values), want.Len())
	}

	for i := want.Start; i < want.End; i++ {
		v, ok := res.Values[i]
		if !ok {
			return fmt.Errorf("%s: missing value for item %d", want, i)
		}

		out[i] = v
	}

	return nil
}

func writeGob(w io.Writer, v any) error {
	if err := gob.NewEncoder(w).Encode(v); err != nil {
		return errors.Join(ErrEncode, err)
	}

	return nil
}

func readGob(r io.Reader, v any) error {
	if err := gob.NewDecoder(r).Decode(v); err != nil {
		return errors.Join(ErrDecode, err)
	}

	return nil
}

// checkEncodable encodes a sample chunk and an empty result so that item or
// result types gob cannot handle fail before any worker is started.
func checkEncodable[T, R any](c Chunk, sample []T) error {
	if err := writeGob(io.Discard, chunkPayload[T]{Chunk: c, Items: sample}); err != nil {
		return err
	}

	return writeGob(io.Discard, chunkResult[R]{Chunk: c, Values: map[int]R{}})
}

// writePayload creates path and writes the chunk's items to it.
func writePayload[T any](fs afero.Fs, path string, c Chunk, items []T) (err error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, channelPerm)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return writeGob(f, chunkPayload[T]{Chunk: c, Items: items})
}

// createChannel creates the empty result file a worker will write to.
// The file must not exist yet, so a channel is never shared or reused.
func createChannel(fs afero.Fs, path string) error {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, channelPerm)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return f.Close() //nolint:wrapcheck
}

// readChannel decodes a worker's result file and removes it.
func readChannel[R any](fs afero.Fs, path string) (res chunkResult[R], err error) {
	f, err := fs.Open(path)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	err = readGob(f, &res)
	err = errors.Join(err, f.Close(), fs.Remove(path))

	return res, err
}

const channelPerm = 0o600
